package contact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"go.uber.org/zap"
)

// State is a point-in-time copy of a form.
type State struct {
	Data     FormData    `json:"data"`
	Errors   FieldErrors `json:"errors"`
	Touched  Touched     `json:"touched"`
	Status   Status      `json:"status"`
	Revealed bool        `json:"revealed"`
}

// VisibleErrors returns the errors of touched fields only.
func (s State) VisibleErrors() FieldErrors {
	var visible FieldErrors
	for _, f := range Fields {
		if s.Touched.Get(f) {
			visible.set(f, s.Errors.Get(f))
		}
	}
	return visible
}

// CanSubmit reports whether a submit action would be accepted.
func (s State) CanSubmit() bool {
	return s.Status.Kind != StatusLoading
}

// Form is the contact form controller. It is safe for concurrent use; the
// delivery call runs without holding the lock, and a second Submit while one
// is in flight is rejected with ErrSubmitInProgress.
type Form struct {
	mu       sync.Mutex
	data     FormData
	errors   FieldErrors
	touched  Touched
	status   Status
	revealed bool

	deliverer Deliverer
	identity  DeliveryIdentity
	messages  Messages
	now       func() time.Time
	log       *zap.SugaredLogger
}

// Option configures a Form.
type Option func(*Form)

// WithMessages overrides the status texts.
func WithMessages(m Messages) Option {
	return func(f *Form) { f.messages = m }
}

// WithClock sets the time source used for Submission.SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(f *Form) { f.log = log }
}

// WithData pre-fills the form as if the user had typed every value.
func WithData(d FormData) Option {
	return func(f *Form) { f.data = d }
}

// NewForm returns an empty, idle form that submits through deliverer.
func NewForm(deliverer Deliverer, identity DeliveryIdentity, opts ...Option) *Form {
	f := &Form{
		status:    idleStatus(),
		deliverer: deliverer,
		identity:  identity,
		messages:  DefaultMessages(""),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.GetLogger()
	}
	return f
}

// Change stores a new value for field. A settled status returns to idle, and
// the field's error is recomputed if it has been touched.
func (f *Form) Change(field Field, value string) (State, error) {
	if !field.valid() {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownField, int(field))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.data.set(field, value)
	if f.status.Settled() {
		f.status = idleStatus()
	}
	if f.touched.Get(field) {
		f.errors.set(field, Validate(field, value))
	}
	return f.snapshot(), nil
}

// Blur marks field as touched and records its validation error.
func (f *Form) Blur(field Field) (State, error) {
	if !field.valid() {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownField, int(field))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched.set(field, true)
	f.errors.set(field, Validate(field, f.data.Get(field)))
	return f.snapshot(), nil
}

// Reveal records that the form has been scrolled into view. Once revealed it
// stays revealed.
func (f *Form) Reveal(v Viewport) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if v != nil && v.IsVisible() {
		f.revealed = true
	}
	return f.snapshot()
}

// Submit validates the whole form and, if it passes, delivers it exactly once.
// The returned error is nil only on success; the State describes what the
// user should see in every case.
func (f *Form) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	if f.status.Kind == StatusLoading {
		state := f.snapshot()
		f.mu.Unlock()
		return state, ErrSubmitInProgress
	}

	f.errors = ValidateAll(f.data)
	f.touched = allTouched()
	if !f.errors.Empty() {
		f.status = errorStatus(f.messages.ValidationSummary)
		state := f.snapshot()
		f.mu.Unlock()
		return state, ErrValidationFailed
	}

	f.status = loadingStatus()
	sub := Submission{
		Identity:    f.identity,
		Data:        f.data.Trimmed(),
		SubmittedAt: f.now().UTC(),
		RequestID:   RequestIDFrom(ctx),
	}
	f.mu.Unlock()

	err := f.deliver(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.log.Errorw("Contact form delivery failed",
			"error", err,
			"service_id", sub.Identity.ServiceID,
			"template_id", sub.Identity.TemplateID,
			"from", logger.MaskEmail(sub.Data.Email),
			"request_id", sub.RequestID)
		f.status = errorStatus(f.messages.Failure)
		return f.snapshot(), fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	f.data = FormData{}
	f.errors = FieldErrors{}
	f.touched = Touched{}
	f.status = successStatus(f.messages.Success)
	return f.snapshot(), nil
}

func (f *Form) deliver(ctx context.Context, sub Submission) error {
	if f.deliverer == nil || !sub.Identity.Complete() {
		return ErrDeliveryNotConfigured
	}
	return f.deliverer.Deliver(ctx, sub)
}

// IsSubmitting reports whether a delivery call is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status.Kind == StatusLoading
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Form) snapshot() State {
	return State{
		Data:     f.data,
		Errors:   f.errors,
		Touched:  f.touched,
		Status:   f.status,
		Revealed: f.revealed,
	}
}

var _ SubmitState = (*Form)(nil)
