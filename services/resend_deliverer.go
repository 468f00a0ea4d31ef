package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/PuerkitoBio/goquery"
	"github.com/resend/resend-go/v2"
)

const (
	ProviderResend = "resend"

	// DefaultResendTemplate is the embedded template used for contact
	// notifications.
	DefaultResendTemplate = "contact_notification"
)

//go:embed templates/*.html
var templateFiles embed.FS

// emailSender is the part of the Resend emails service used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendDeliverer sends contact notifications to the site owner through
// Resend. The submitter's address is set as reply-to.
type ResendDeliverer struct {
	config    *config.EmailConfig
	sender    emailSender
	templates *template.Template
	metrics   *DeliveryMetrics
}

// NewResendDeliverer creates a deliverer using the Resend API key from cfg.
// Each API call is bounded by timeout.
func NewResendDeliverer(cfg *config.EmailConfig, timeout time.Duration, metrics *DeliveryMetrics) (*ResendDeliverer, error) {
	logger.GetLogger().Infow("Initializing Resend delivery",
		"from", cfg.FromAddress,
		"recipient", logger.MaskEmail(cfg.Recipient),
		"apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 0),
		"timeout", timeout)
	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, cfg.ResendAPIKey)
	return newResendDeliverer(cfg, client.Emails, metrics)
}

func newResendDeliverer(cfg *config.EmailConfig, sender emailSender, metrics *DeliveryMetrics) (*ResendDeliverer, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &ResendDeliverer{
		config:    cfg,
		sender:    sender,
		templates: tmpl,
		metrics:   metrics,
	}, nil
}

type notificationData struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	SubmittedAt string
	RequestID   string
}

// Deliver renders the template named by the submission's TemplateID and
// sends it.
func (d *ResendDeliverer) Deliver(ctx context.Context, sub contact.Submission) (err error) {
	start := time.Now()
	log := logger.GetLogger()
	defer func() {
		d.metrics.observe(ProviderResend, start, err)
	}()

	html, err := d.render(sub)
	if err != nil {
		log.Errorw("Failed to render contact email", "error", err, "template", sub.Identity.TemplateID)
		return err
	}
	text, err := plainText(html)
	if err != nil {
		log.Errorw("Failed to build plain text part", "error", err)
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", d.config.FromName, d.config.FromAddress),
		To:      []string{d.config.Recipient},
		ReplyTo: sub.Data.Email,
		Subject: "New contact form message: " + sub.Data.Subject,
		Html:    html,
		Text:    text,
	}

	resp, err := d.sender.SendWithContext(ctx, params)
	if err != nil {
		log.Errorw("Failed to send contact email",
			"error", err,
			"from", logger.MaskEmail(sub.Data.Email),
			"request_id", sub.RequestID)
		return fmt.Errorf("email send failed: %w", err)
	}

	id := ""
	if resp != nil {
		id = resp.Id
	}
	log.Infow("Contact email sent",
		"id", id,
		"from", logger.MaskEmail(sub.Data.Email),
		"request_id", sub.RequestID)
	return nil
}

func (d *ResendDeliverer) render(sub contact.Submission) (string, error) {
	name := sub.Identity.TemplateID
	if name == "" {
		name = DefaultResendTemplate
	}
	tmpl := d.templates.Lookup(name + ".html")
	if tmpl == nil {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, notificationData{
		Name:        sub.Data.Name,
		Email:       sub.Data.Email,
		Subject:     sub.Data.Subject,
		Message:     sub.Data.Message,
		SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC1123),
		RequestID:   sub.RequestID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// plainText extracts the readable blocks of a rendered email, one per line.
func plainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered email: %w", err)
	}

	var lines []string
	doc.Find("body h1, body h2, body p, body pre, body li").Each(func(_ int, s *goquery.Selection) {
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n\n"), nil
}
