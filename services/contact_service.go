package services

import (
	"context"
	"strings"

	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/types"
)

// SubmitLocker serialises one-shot submissions per sender.
type SubmitLocker interface {
	Acquire(ctx context.Context, email string) (token string, ok bool)
	Release(ctx context.Context, email, token string)
}

// ContactService builds contact forms bound to the configured deliverer and
// runs one-shot submissions for clients that do not keep a form session.
type ContactService struct {
	deliverer contact.Deliverer
	identity  contact.DeliveryIdentity
	messages  contact.Messages
	guard     SubmitLocker
}

func NewContactService(deliverer contact.Deliverer, identity contact.DeliveryIdentity, messages contact.Messages, guard SubmitLocker) *ContactService {
	return &ContactService{
		deliverer: deliverer,
		identity:  identity,
		messages:  messages,
		guard:     guard,
	}
}

// NewForm returns an empty form. opts are applied after the service defaults.
func (s *ContactService) NewForm(opts ...contact.Option) *contact.Form {
	opts = append([]contact.Option{contact.WithMessages(s.messages)}, opts...)
	return contact.NewForm(s.deliverer, s.identity, opts...)
}

// ValidateField runs the single-field validation used on blur.
func (s *ContactService) ValidateField(field, value string) (types.ValidateFieldResponse, error) {
	f, err := contact.ParseField(field)
	if err != nil {
		return types.ValidateFieldResponse{}, err
	}
	msg := contact.Validate(f, value)
	return types.ValidateFieldResponse{
		Field: f.String(),
		Valid: msg == "",
		Error: msg,
	}, nil
}

// SubmitOnce validates and delivers data in a single call. Valid submissions
// from a sender that already has one in flight are rejected with
// contact.ErrSubmitInProgress before the deliverer is reached.
func (s *ContactService) SubmitOnce(ctx context.Context, data contact.FormData) (contact.State, error) {
	form := s.NewForm(contact.WithData(data))

	if s.guard == nil || !contact.ValidateAll(data).Empty() {
		return form.Submit(ctx)
	}

	email := strings.TrimSpace(data.Email)
	token, ok := s.guard.Acquire(ctx, email)
	if !ok {
		return form.State(), contact.ErrSubmitInProgress
	}
	defer s.guard.Release(ctx, email, token)

	return form.Submit(ctx)
}
