// Package validator provides input validation and sanitization functions
// for the campus backend.
package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInputTooLong = errors.New("input exceeds maximum length")
	ErrEmptyInput   = errors.New("input cannot be empty")
)

// Length limits for user supplied text
const (
	MaxMessageLength   = 1000
	MaxGroupNameLength = 100
	MaxSubjectLength   = 200
	MaxBodyLength      = 10000
)

// ValidateEmail validates email address format according to RFC 5322.
// Returns nil if valid, or an appropriate error.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return ErrEmptyInput
	}

	// RFC 5321 specifies max email length of 254 characters
	if utf8.RuneCountInString(email) > 254 {
		return ErrInputTooLong
	}

	// Use Go's mail package for RFC 5322 validation
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateMessageText validates chat message text. Returns nil if valid,
// or an appropriate error.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateGroupName validates a group display name.
func ValidateGroupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(name) > MaxGroupNameLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateSubject validates an email subject line. An empty subject is
// allowed; mail clients render it as "(no subject)".
func ValidateSubject(subject string) error {
	if utf8.RuneCountInString(subject) > MaxSubjectLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateBody validates an email body.
func ValidateBody(body string) error {
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return ErrInputTooLong
	}
	return nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeString removes potentially dangerous characters and enforces length limits.
// Removes control characters and trims whitespace.
func SanitizeString(input string, maxLength int) string {
	// Remove control characters (ASCII 0-31 and 127), keeping newlines and tabs
	input = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	// Trim whitespace
	input = strings.TrimSpace(input)

	// Enforce maximum length if specified
	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}
