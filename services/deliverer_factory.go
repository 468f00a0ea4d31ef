package services

import (
	"fmt"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/internal/emailjs"
	"github.com/NomadCrew/portfolio-backend/models/contact"
)

// NewDeliverer builds the deliverer and identity for the configured provider.
// The identity is empty when the provider's credentials are incomplete, so
// forms built from it refuse to submit.
func NewDeliverer(cfg *config.Config, metrics *DeliveryMetrics) (contact.Deliverer, contact.DeliveryIdentity, error) {
	var (
		deliverer contact.Deliverer
		identity  contact.DeliveryIdentity
	)

	timeout := time.Duration(cfg.Delivery.TimeoutSeconds) * time.Second

	switch cfg.Delivery.Provider {
	case config.ProviderResend:
		d, err := NewResendDeliverer(&cfg.Email, timeout, metrics)
		if err != nil {
			return nil, contact.DeliveryIdentity{}, err
		}
		deliverer = d
		identity = contact.DeliveryIdentity{
			ServiceID:  ProviderResend,
			TemplateID: DefaultResendTemplate,
			PublicKey:  cfg.Email.ResendAPIKey,
		}
	case config.ProviderEmailJS:
		opts := []emailjs.ClientOption{
			emailjs.WithTimeout(timeout),
		}
		if cfg.Delivery.PrivateKey != "" {
			opts = append(opts, emailjs.WithAccessToken(cfg.Delivery.PrivateKey))
		}
		deliverer = NewEmailJSDeliverer(emailjs.NewClient(cfg.Delivery.Endpoint, opts...), metrics)
		identity = contact.DeliveryIdentity{
			ServiceID:  cfg.Delivery.ServiceID,
			TemplateID: cfg.Delivery.TemplateID,
			PublicKey:  cfg.Delivery.PublicKey,
		}
	default:
		return nil, contact.DeliveryIdentity{}, fmt.Errorf("unknown delivery provider %q", cfg.Delivery.Provider)
	}

	if !cfg.DeliveryConfigured() {
		identity = contact.DeliveryIdentity{}
	}
	return deliverer, identity, nil
}
