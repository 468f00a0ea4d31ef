package handlers

import (
	"context"
	"time"

	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/types"
)

// ContactServiceInterface defines the contact service methods needed by handlers
type ContactServiceInterface interface {
	ValidateField(field, value string) (types.ValidateFieldResponse, error)
	SubmitOnce(ctx context.Context, data contact.FormData) (contact.State, error)
}

// FormSessionStore holds the forms of interactive clients.
type FormSessionStore interface {
	Create() (string, *contact.Form, time.Time, error)
	Get(id string) (*contact.Form, time.Time, error)
}

// HealthChecker produces the health report.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
