package contact

import (
	"regexp"
	"strings"
)

// space matches what browsers treat as whitespace in a character class,
// which is wider than RE2's \s (no vertical tab, no Unicode spaces).
const space = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var patterns = [...]*regexp.Regexp{
	FieldName:    regexp.MustCompile(`^[a-zA-Z` + space + `]{2,50}$`),
	FieldEmail:   regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	FieldSubject: regexp.MustCompile(`^[a-zA-Z0-9` + space + `\-_.,!?]{5,100}$`),
	FieldMessage: regexp.MustCompile(`^[a-zA-Z0-9` + space + `\-_.,!?()'"/]{10,1000}$`),
}

var patternMessages = [...]string{
	FieldName:    "Name must contain only letters and spaces (2-50 characters)",
	FieldEmail:   "Please enter a valid email address (e.g., name@domain.com)",
	FieldSubject: "Subject must be 5-100 characters with letters, numbers, and basic punctuation",
	FieldMessage: "Message must be 10-1000 characters with letters, numbers, and basic punctuation",
}

const emailStructureMessage = "Please enter a valid email address"

// Validate checks value against the rule for f and returns the error to show,
// or "" when the value is acceptable. It depends on nothing but its inputs.
func Validate(f Field, value string) string {
	if !f.valid() {
		return "Invalid input format"
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return f.Label() + " is required"
	}

	if !patterns[f].MatchString(trimmed) {
		return patternMessages[f]
	}

	if f == FieldEmail {
		parts := strings.Split(trimmed, "@")
		if len(parts) != 2 || len(parts[0]) < 1 || len(parts[1]) < 3 {
			return emailStructureMessage
		}
	}

	return ""
}

// ValidateAll validates every field of d.
func ValidateAll(d FormData) FieldErrors {
	var errs FieldErrors
	for _, f := range Fields {
		errs.set(f, Validate(f, d.Get(f)))
	}
	return errs
}
