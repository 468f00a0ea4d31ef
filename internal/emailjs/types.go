package emailjs

import "fmt"

// TemplateParams are the variables exposed to the EmailJS template.
type TemplateParams struct {
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	ReplyTo     string `json:"reply_to"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submitted_at,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// Request is the body of POST /api/v1.0/email/send.
type Request struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams TemplateParams `json:"template_params"`
}

// Error is returned for any non-2xx response. EmailJS answers with a plain
// text reason.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("emailjs: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("emailjs: request failed with status %d: %s", e.StatusCode, e.Body)
}
