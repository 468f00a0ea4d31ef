package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/portfolio-backend/internal/emailjs"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
)

const ProviderEmailJS = "emailjs"

// EmailJSDeliverer forwards submissions to an EmailJS template. The
// submission's DeliveryIdentity selects the service, template and public key.
type EmailJSDeliverer struct {
	client  *emailjs.Client
	metrics *DeliveryMetrics
}

func NewEmailJSDeliverer(client *emailjs.Client, metrics *DeliveryMetrics) *EmailJSDeliverer {
	return &EmailJSDeliverer{client: client, metrics: metrics}
}

// Deliver posts the submission. Any non-2xx answer is a failure.
func (d *EmailJSDeliverer) Deliver(ctx context.Context, sub contact.Submission) (err error) {
	start := time.Now()
	log := logger.GetLogger()
	defer func() {
		d.metrics.observe(ProviderEmailJS, start, err)
	}()

	req := &emailjs.Request{
		ServiceID:  sub.Identity.ServiceID,
		TemplateID: sub.Identity.TemplateID,
		UserID:     sub.Identity.PublicKey,
		TemplateParams: emailjs.TemplateParams{
			FromName:    sub.Data.Name,
			FromEmail:   sub.Data.Email,
			ReplyTo:     sub.Data.Email,
			Subject:     sub.Data.Subject,
			Message:     sub.Data.Message,
			SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
			RequestID:   sub.RequestID,
		},
	}

	if err := d.client.Send(ctx, req); err != nil {
		log.Errorw("EmailJS delivery failed",
			"error", err,
			"service_id", sub.Identity.ServiceID,
			"template_id", sub.Identity.TemplateID,
			"from", logger.MaskEmail(sub.Data.Email),
			"request_id", sub.RequestID)
		return fmt.Errorf("emailjs send failed: %w", err)
	}

	log.Infow("Contact message delivered via EmailJS",
		"template_id", sub.Identity.TemplateID,
		"from", logger.MaskEmail(sub.Data.Email),
		"request_id", sub.RequestID)
	return nil
}
