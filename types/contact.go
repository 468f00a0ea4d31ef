package types

import (
	"time"

	"github.com/NomadCrew/portfolio-backend/models/contact"
)

// ValidateFieldRequest asks for the validation message of a single value.
type ValidateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ValidateFieldResponse carries the message Validate produced, if any.
type ValidateFieldResponse struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// SubmitContactRequest is the body of a one-shot submission. Fields are
// validated by the contact form, not by binding tags, so that the response
// carries the same messages as the interactive form.
type SubmitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FormData converts the request into contact form values.
func (r SubmitContactRequest) FormData() contact.FormData {
	return contact.FormData{Name: r.Name, Email: r.Email, Subject: r.Subject, Message: r.Message}
}

// ChangeFieldRequest is the body of a field change.
type ChangeFieldRequest struct {
	Value string `json:"value"`
}

// RevealRequest reports whether the form has scrolled into view.
type RevealRequest struct {
	Visible bool `json:"visible"`
}

// ContactFormResponse describes a contact form after an operation.
type ContactFormResponse struct {
	ID            string              `json:"id,omitempty"`
	State         contact.State       `json:"state"`
	VisibleErrors contact.FieldErrors `json:"visible_errors"`
	CanSubmit     bool                `json:"can_submit"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
}

// NewContactFormResponse builds a response from a form state.
func NewContactFormResponse(id string, state contact.State) ContactFormResponse {
	return ContactFormResponse{
		ID:            id,
		State:         state,
		VisibleErrors: state.VisibleErrors(),
		CanSubmit:     state.CanSubmit(),
	}
}

// ArchivedMessage is a delivered contact message kept in the archive.
type ArchivedMessage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Provider    string    `json:"provider"`
	RequestID   string    `json:"request_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArchivedMessageList is returned by the operator listing route.
type ArchivedMessageList struct {
	Messages   []ArchivedMessage `json:"messages"`
	Pagination Pagination        `json:"pagination"`
}
