package contact

// StatusKind is the variant of a submission status.
type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status describes the outcome of the latest submit attempt. Message is set
// only for success and error.
type Status struct {
	Kind    StatusKind `json:"type"`
	Message string     `json:"message,omitempty"`
}

func idleStatus() Status    { return Status{Kind: StatusIdle} }
func loadingStatus() Status { return Status{Kind: StatusLoading} }

func successStatus(msg string) Status { return Status{Kind: StatusSuccess, Message: msg} }
func errorStatus(msg string) Status   { return Status{Kind: StatusError, Message: msg} }

// Settled reports whether the status carries an outcome message that should
// be cleared once the user edits the form again.
func (s Status) Settled() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}

// Messages are the user-facing texts attached to status transitions.
type Messages struct {
	Success           string
	Failure           string
	ValidationSummary string
}

const (
	defaultSuccessMessage    = "Thank you! Your message has been sent successfully. I'll get back to you within 24 hours at the email address you provided."
	defaultValidationSummary = "Please fix the validation errors above before submitting."
	failurePrefix            = "Sorry, there was an error sending your message. Please try again"
)

// DefaultMessages builds the standard texts. ownerEmail, when set, is offered
// in the failure message as a direct fallback.
func DefaultMessages(ownerEmail string) Messages {
	failure := failurePrefix + "."
	if ownerEmail != "" {
		failure = failurePrefix + " or contact me directly at " + ownerEmail
	}
	return Messages{
		Success:           defaultSuccessMessage,
		Failure:           failure,
		ValidationSummary: defaultValidationSummary,
	}
}
