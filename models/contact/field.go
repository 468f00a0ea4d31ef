package contact

import (
	"fmt"
	"strings"
)

// Field identifies one of the four contact form inputs.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldSubject
	FieldMessage
)

// Fields lists every form field in display order.
var Fields = [...]Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

var fieldKeys = [...]string{
	FieldName:    "name",
	FieldEmail:   "email",
	FieldSubject: "subject",
	FieldMessage: "message",
}

var fieldLabels = [...]string{
	FieldName:    "Name",
	FieldEmail:   "Email",
	FieldSubject: "Subject",
	FieldMessage: "Message",
}

func (f Field) valid() bool {
	return f >= FieldName && f <= FieldMessage
}

// String returns the wire key of the field ("name", "email", ...).
func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldKeys[f]
}

// Label returns the human readable field name used in messages.
func (f Field) Label() string {
	if !f.valid() {
		return f.String()
	}
	return fieldLabels[f]
}

// ParseField maps a wire key to a Field. Matching ignores case and
// surrounding whitespace.
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if fieldKeys[f] == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return []byte(fieldKeys[f]), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FormData holds the raw values typed into the form.
type FormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Get returns the value of f.
func (d FormData) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldSubject:
		return d.Subject
	case FieldMessage:
		return d.Message
	}
	return ""
}

func (d *FormData) set(f Field, value string) {
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldSubject:
		d.Subject = value
	case FieldMessage:
		d.Message = value
	}
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d FormData) Trimmed() FormData {
	return FormData{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Subject: strings.TrimSpace(d.Subject),
		Message: strings.TrimSpace(d.Message),
	}
}

// FieldErrors has one error slot per field. An empty slot means the field
// passed validation or has not been validated yet.
type FieldErrors struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e FieldErrors) Get(f Field) string {
	switch f {
	case FieldName:
		return e.Name
	case FieldEmail:
		return e.Email
	case FieldSubject:
		return e.Subject
	case FieldMessage:
		return e.Message
	}
	return ""
}

func (e *FieldErrors) set(f Field, msg string) {
	switch f {
	case FieldName:
		e.Name = msg
	case FieldEmail:
		e.Email = msg
	case FieldSubject:
		e.Subject = msg
	case FieldMessage:
		e.Message = msg
	}
}

// Empty reports whether no field carries an error.
func (e FieldErrors) Empty() bool {
	return e == FieldErrors{}
}

// Touched records which fields have lost focus at least once.
type Touched struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Subject bool `json:"subject"`
	Message bool `json:"message"`
}

func (t Touched) Get(f Field) bool {
	switch f {
	case FieldName:
		return t.Name
	case FieldEmail:
		return t.Email
	case FieldSubject:
		return t.Subject
	case FieldMessage:
		return t.Message
	}
	return false
}

func (t *Touched) set(f Field, v bool) {
	switch f {
	case FieldName:
		t.Name = v
	case FieldEmail:
		t.Email = v
	case FieldSubject:
		t.Subject = v
	case FieldMessage:
		t.Message = v
	}
}

func allTouched() Touched {
	return Touched{Name: true, Email: true, Subject: true, Message: true}
}
