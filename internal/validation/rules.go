// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// StringIn validates that a string value is one of the allowed values.
type StringIn struct {
	Allowed []string
	Message string
}

// Validate checks if the value is in the allowed set.
func (r StringIn) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_string_in", "value must be a string")
	}
	if s == "" {
		return nil
	}

	for _, allowed := range r.Allowed {
		if s == allowed {
			return nil
		}
	}

	msg := r.Message
	if msg == "" {
		msg = "value is not in the allowed set"
	}
	return validation.NewError("validation_string_in", msg)
}

// AbsoluteURL validates that a string is an absolute http(s) URL.
type AbsoluteURL struct{}

// Validate checks if the value parses as an absolute http or https URL.
func (AbsoluteURL) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_url", "url must be a string")
	}
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return validation.NewError("validation_url", "must be an absolute http(s) url")
	}

	return nil
}

// MaxRunes validates that a string does not exceed a rune count. Platform
// character budgets count runes, not bytes.
type MaxRunes struct {
	Max     int
	Message string
}

// Validate checks the rune length of the value.
func (r MaxRunes) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_max_runes", "value must be a string")
	}

	if utf8.RuneCountInString(s) > r.Max {
		msg := r.Message
		if msg == "" {
			msg = "value exceeds the maximum length"
		}
		return validation.NewError("validation_max_runes", msg)
	}

	return nil
}
