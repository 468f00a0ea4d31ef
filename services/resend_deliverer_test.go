package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resend.SendEmailResponse), args.Error(1)
}

func testEmailConfig() *config.EmailConfig {
	return &config.EmailConfig{
		FromAddress: "contact@suhaib.dev",
		FromName:    "Portfolio",
		Recipient:   "owner@example.com",
	}
}

func resendSubmission() contact.Submission {
	s := testSubmission()
	s.Identity.ServiceID = ProviderResend
	s.Identity.TemplateID = DefaultResendTemplate
	return s
}

func TestResendDeliverer_Deliver(t *testing.T) {
	t.Run("sends rendered email with reply-to", func(t *testing.T) {
		sender := new(mockEmailSender)
		reg := prometheus.NewRegistry()
		d, err := newResendDeliverer(testEmailConfig(), sender, NewDeliveryMetrics(reg))
		require.NoError(t, err)

		var sent *resend.SendEmailRequest
		sender.On("SendWithContext", mock.Anything, mock.AnythingOfType("*resend.SendEmailRequest")).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).(*resend.SendEmailRequest)
			}).
			Return(&resend.SendEmailResponse{Id: "email_1"}, nil).Once()

		err = d.Deliver(context.Background(), resendSubmission())
		require.NoError(t, err)
		sender.AssertExpectations(t)

		require.NotNil(t, sent)
		assert.Equal(t, "Portfolio <contact@suhaib.dev>", sent.From)
		assert.Equal(t, []string{"owner@example.com"}, sent.To)
		assert.Equal(t, "john@example.com", sent.ReplyTo)
		assert.Equal(t, "New contact form message: Web Development Project", sent.Subject)
		assert.Contains(t, sent.Html, "John Doe")
		assert.Contains(t, sent.Html, "req-123")
		assert.NotEmpty(t, sent.Text)
		assert.Contains(t, sent.Text, "I would like to discuss a new portfolio site.")

		assert.Equal(t, float64(1), metricValue(t, reg, "portfolio_contact_messages_sent_total", ProviderResend))
		assert.Equal(t, float64(0), metricValue(t, reg, "portfolio_contact_delivery_errors_total", ProviderResend))
		assert.Equal(t, float64(1), metricValue(t, reg, "portfolio_contact_delivery_duration_seconds", ProviderResend))
	})

	t.Run("escapes submitted markup", func(t *testing.T) {
		sender := new(mockEmailSender)
		d, err := newResendDeliverer(testEmailConfig(), sender, nil)
		require.NoError(t, err)

		sub := resendSubmission()
		sub.Data.Name = "<script>alert(1)</script>"

		sender.On("SendWithContext", mock.Anything, mock.MatchedBy(func(req *resend.SendEmailRequest) bool {
			return !strings.Contains(req.Html, "<script>") &&
				strings.Contains(req.Html, "&lt;script&gt;")
		})).Return(&resend.SendEmailResponse{Id: "email_2"}, nil).Once()

		require.NoError(t, d.Deliver(context.Background(), sub))
		sender.AssertExpectations(t)
	})

	t.Run("send failure increments error counter", func(t *testing.T) {
		sender := new(mockEmailSender)
		reg := prometheus.NewRegistry()
		d, err := newResendDeliverer(testEmailConfig(), sender, NewDeliveryMetrics(reg))
		require.NoError(t, err)

		sender.On("SendWithContext", mock.Anything, mock.Anything).
			Return(nil, errors.New("rate limited")).Once()

		err = d.Deliver(context.Background(), resendSubmission())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")

		assert.Equal(t, float64(1), metricValue(t, reg, "portfolio_contact_delivery_errors_total", ProviderResend))
		assert.Equal(t, float64(0), metricValue(t, reg, "portfolio_contact_messages_sent_total", ProviderResend))
	})

	t.Run("unknown template", func(t *testing.T) {
		sender := new(mockEmailSender)
		d, err := newResendDeliverer(testEmailConfig(), sender, nil)
		require.NoError(t, err)

		sub := resendSubmission()
		sub.Identity.TemplateID = "missing"

		err = d.Deliver(context.Background(), sub)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown email template")
		sender.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	})
}

func TestPlainText(t *testing.T) {
	text, err := plainText(`<html><body><h1>Title</h1><p>First</p><p>  </p><pre>line one
line two</pre></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nFirst\n\nline one\nline two", text)
}
