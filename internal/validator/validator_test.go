package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		// Valid emails
		{"valid simple email", "test@example.com", nil},
		{"valid with subdomain", "user@mail.example.com", nil},
		{"valid with plus", "user+tag@example.com", nil},
		{"valid with dots", "first.last@example.com", nil},
		{"valid uppercase normalized", "TEST@EXAMPLE.COM", nil},
		{"valid with whitespace trimmed", "  test@example.com  ", nil},

		// Invalid emails
		{"empty string", "", ErrEmptyInput},
		{"whitespace only", "   ", ErrEmptyInput},
		{"missing @", "testexample.com", ErrInvalidEmail},
		{"missing domain", "test@", ErrInvalidEmail},
		{"missing local part", "@example.com", ErrInvalidEmail},
		{"double @", "test@@example.com", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail_TooLong(t *testing.T) {
	// Create email longer than 254 characters
	longLocal := strings.Repeat("a", 250)
	longEmail := longLocal + "@example.com"
	err := ValidateEmail(longEmail)
	assert.ErrorIs(t, err, ErrInputTooLong)
}

func TestValidateMessageText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"normal message", "hey, lunch at noon?", nil},
		{"max length message", strings.Repeat("a", MaxMessageLength), nil},
		{"empty", "", ErrEmptyInput},
		{"whitespace only", "  \t ", ErrEmptyInput},
		{"too long", strings.Repeat("a", MaxMessageLength+1), ErrInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageText(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGroupName(t *testing.T) {
	assert.NoError(t, ValidateGroupName("Study Group"))
	assert.ErrorIs(t, ValidateGroupName(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidateGroupName("   "), ErrEmptyInput)
	assert.ErrorIs(t, ValidateGroupName(strings.Repeat("x", MaxGroupNameLength+1)), ErrInputTooLong)
}

func TestValidateSubject(t *testing.T) {
	// Empty subjects are allowed for emails
	assert.NoError(t, ValidateSubject(""))
	assert.NoError(t, ValidateSubject("Exam schedule"))
	assert.ErrorIs(t, ValidateSubject(strings.Repeat("x", MaxSubjectLength+1)), ErrInputTooLong)
}

func TestValidateBody(t *testing.T) {
	assert.NoError(t, ValidateBody("Hello,\n\nSee attached schedule."))
	assert.ErrorIs(t, ValidateBody(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidateBody(strings.Repeat("x", MaxBodyLength+1)), ErrInputTooLong)
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		expected  string
	}{
		{"normal string", "hello world", 0, "hello world"},
		{"with control chars", "hello\x00world", 0, "helloworld"},
		{"keeps tab", "hello\tworld", 0, "hello\tworld"},
		{"keeps newline", "hello\nworld", 0, "hello\nworld"},
		{"strips bell", "hello\x07world", 0, "helloworld"},
		{"trim whitespace", "  hello  ", 0, "hello"},
		{"enforce max length", "hello world", 5, "hello"},
		{"max length zero means no limit", "hello world", 0, "hello world"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeString(tt.input, tt.maxLength)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name           string
		inputLimit     int
		inputOffset    int
		expectedLimit  int
		expectedOffset int
	}{
		{"valid values", 10, 20, 10, 20},
		{"zero limit uses default", 0, 0, DefaultLimit, 0},
		{"negative limit uses default", -5, 0, DefaultLimit, 0},
		{"limit exceeds max", 200, 0, MaxLimit, 0},
		{"negative offset becomes zero", 10, -5, 10, 0},
		{"all defaults", 0, -1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.inputLimit, tt.inputOffset)
			assert.Equal(t, tt.expectedLimit, limit)
			assert.Equal(t, tt.expectedOffset, offset)
		})
	}
}
