package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrTokenExpired    = errors.New("token has expired")
	ErrTokenInvalid    = errors.New("token is invalid")
	ErrForbidden       = errors.New("forbidden")

	ErrAccountNotFound = errors.New("account not found")
	ErrRoleNotFound    = errors.New("account type not found")
	ErrSnippetNotFound = errors.New("snippet not found")

	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrRoleInUse  = errors.New("account type is still assigned to accounts")

	ErrInvalidCredentials = errors.New("could not authenticate user")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationError groups the field errors found in one request.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Messages returns one human-readable line per rejected field.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

// CollectValidation merges the non-nil results of field checks into one
// ValidationError. It returns nil when every check passed.
func CollectValidation(checks ...error) error {
	var fields []*FieldError
	for _, err := range checks {
		if err == nil {
			continue
		}
		var fe *FieldError
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			fields = append(fields, ve.Fields...)
		case errors.As(err, &fe):
			fields = append(fields, fe)
		default:
			fields = append(fields, &FieldError{Field: "input", Message: err.Error()})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
