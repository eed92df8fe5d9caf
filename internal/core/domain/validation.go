package domain

import (
	"regexp"
	"unicode/utf8"
)

// Field limits shared by the HTTP validator and the services.
const (
	PasswordMinLen = 4
	PasswordMaxLen = 24
	SnippetBodyMax = 10000

	// ReservedUsername collides with the /snippets/count route.
	ReservedUsername = "count"
)

var (
	UsernamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,16}$`)
	SnippetNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,24}$`)
	RoleNamePattern    = regexp.MustCompile(`^[a-zA-Z]{4,24}$`)
	EmailPattern       = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
)

func ValidateUsername(username string) error {
	if username == ReservedUsername {
		return &FieldError{Field: "username", Message: "cannot be used for an account"}
	}
	if !UsernamePattern.MatchString(username) {
		return &FieldError{Field: "username", Message: "must be 1-16 letters, digits, '_' or '-'"}
	}
	return nil
}

func ValidateEmail(email string) error {
	if !EmailPattern.MatchString(email) {
		return &FieldError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return &FieldError{Field: "password", Message: "must be 4-24 characters"}
	}
	return nil
}

func ValidateSnippetName(name string) error {
	if !SnippetNamePattern.MatchString(name) {
		return &FieldError{Field: "name", Message: "must be 4-24 letters, digits, '_' or '-'"}
	}
	return nil
}

func ValidateSnippetBody(body string) error {
	n := utf8.RuneCountInString(body)
	if n == 0 {
		return &FieldError{Field: "body", Message: "must not be empty"}
	}
	if n > SnippetBodyMax {
		return &FieldError{Field: "body", Message: "must be at most 10000 characters"}
	}
	return nil
}

func ValidateRoleName(name string) error {
	if !RoleNamePattern.MatchString(name) {
		return &FieldError{Field: "name", Message: "must be 4-24 letters"}
	}
	return nil
}
