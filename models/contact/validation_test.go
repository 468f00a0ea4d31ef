package contact

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		value   string
		wantErr string
	}{
		{"name valid", FieldName, "John Doe", ""},
		{"name with digit", FieldName, "J0hn", patternMessages[FieldName]},
		{"name too short", FieldName, "J", patternMessages[FieldName]},
		{"name too long", FieldName, strings.Repeat("a", 51), patternMessages[FieldName]},
		{"name at max", FieldName, strings.Repeat("a", 50), ""},
		{"name blank", FieldName, "   ", "Name is required"},
		{"name trimmed before matching", FieldName, "  Jane  ", ""},
		{"name with no-break space", FieldName, "John\u00a0Doe", ""},
		{"name with vertical tab", FieldName, "John\vDoe", ""},
		{"name with ideographic space", FieldName, "John\u3000Doe", ""},
		{"name with zero width space", FieldName, "John\u200bDoe", patternMessages[FieldName]},

		{"email valid", FieldEmail, "a@b.co", ""},
		{"email with plus", FieldEmail, "john.doe+tag@company.com", ""},
		{"email missing at", FieldEmail, "not-an-email", patternMessages[FieldEmail]},
		{"email double at", FieldEmail, "a@b@c.com", patternMessages[FieldEmail]},
		{"email short tld", FieldEmail, "a@b.c", patternMessages[FieldEmail]},
		{"email empty", FieldEmail, "", "Email is required"},

		{"subject valid", FieldSubject, "Web Development Project", ""},
		{"subject punctuation", FieldSubject, "Hi, there - v1.0!?", ""},
		{"subject too short", FieldSubject, "Hey", patternMessages[FieldSubject]},
		{"subject illegal char", FieldSubject, "Price: $100", patternMessages[FieldSubject]},
		{"subject with narrow no-break space", FieldSubject, "Quote\u202frequest", ""},
		{"subject empty", FieldSubject, "\t", "Subject is required"},

		{"message valid", FieldMessage, "I'd like a quote (roughly) for a \"small\" site/app.\nThanks", ""},
		{"message too short", FieldMessage, "Too short", patternMessages[FieldMessage]},
		{"message at max", FieldMessage, strings.Repeat("a", 1000), ""},
		{"message too long", FieldMessage, strings.Repeat("a", 1001), patternMessages[FieldMessage]},
		{"message with line separator", FieldMessage, "Hello there\u2028second line", ""},
		{"message illegal char", FieldMessage, "Budget is 100 euros & more", patternMessages[FieldMessage]},
		{"message empty", FieldMessage, "", "Message is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Validate(tt.field, tt.value))
		})
	}
}

func TestValidateUnknownField(t *testing.T) {
	assert.Equal(t, "Invalid input format", Validate(Field(42), "anything"))
}

func TestValidateIsPure(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	alphabet := []rune("abcXYZ019 @.-_!?$&\n")

	for i := 0; i < 500; i++ {
		n := r.Intn(40)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[r.Intn(len(alphabet))])
		}
		value := b.String()

		for _, f := range Fields {
			first := Validate(f, value)
			second := Validate(f, value)
			require.Equal(t, first, second, "field %s value %q", f, value)
			require.Equal(t, first == "", patterns[f].MatchString(strings.TrimSpace(value)),
				"field %s value %q", f, value)
		}
	}
}

func TestValidateAll(t *testing.T) {
	errs := ValidateAll(FormData{
		Name:    "John Doe",
		Email:   "bad",
		Subject: "Hello there",
		Message: "",
	})

	assert.Empty(t, errs.Name)
	assert.Equal(t, patternMessages[FieldEmail], errs.Email)
	assert.Empty(t, errs.Subject)
	assert.Equal(t, "Message is required", errs.Message)
	assert.False(t, errs.Empty())

	assert.True(t, ValidateAll(validData()).Empty())
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		parsed, err := ParseField(" " + strings.ToUpper(f.String()) + " ")
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseField("phone")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldText(t *testing.T) {
	text, err := FieldSubject.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "subject", string(text))

	var f Field
	require.NoError(t, f.UnmarshalText([]byte("email")))
	assert.Equal(t, FieldEmail, f)

	_, err = Field(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "Field(9)", Field(9).String())
}

func validData() FormData {
	return FormData{
		Name:    "John Doe",
		Email:   "john.doe@company.com",
		Subject: "Web Development Project",
		Message: "I need a portfolio site with a contact form, please.",
	}
}
