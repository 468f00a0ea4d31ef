// Package contact implements the contact form controller: per-field
// validation, touched tracking and the submission status state machine.
// Delivery of a valid submission is delegated to a Deliverer.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnknownField          = errors.New("unknown form field")
	ErrValidationFailed      = errors.New("form validation failed")
	ErrSubmitInProgress      = errors.New("submission already in progress")
	ErrDeliveryNotConfigured = errors.New("delivery service is not configured")
	ErrDeliveryFailed        = errors.New("delivery failed")
)

// DeliveryIdentity selects the service, template and credential used by the
// delivery collaborator.
type DeliveryIdentity struct {
	ServiceID  string `json:"service_id"`
	TemplateID string `json:"template_id"`
	PublicKey  string `json:"-"`
}

// Complete reports whether every identifier is set.
func (i DeliveryIdentity) Complete() bool {
	return strings.TrimSpace(i.ServiceID) != "" &&
		strings.TrimSpace(i.TemplateID) != "" &&
		strings.TrimSpace(i.PublicKey) != ""
}

// Submission is the payload handed to a Deliverer.
type Submission struct {
	Identity    DeliveryIdentity
	Data        FormData
	SubmittedAt time.Time
	RequestID   string
}

// Deliverer transmits a validated submission to the site owner.
type Deliverer interface {
	Deliver(ctx context.Context, sub Submission) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, sub Submission) error

func (fn DelivererFunc) Deliver(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// Viewport reports whether the form is currently scrolled into view.
type Viewport interface {
	IsVisible() bool
}

// SubmitState reports whether a submission is in flight.
type SubmitState interface {
	IsSubmitting() bool
}

type requestIDKey struct{}

// WithRequestID attaches a request ID that is forwarded in Submission.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
