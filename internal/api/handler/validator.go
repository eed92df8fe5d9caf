package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Besides the built-in tags it understands username, snippetname and
// rolename, which apply the same patterns as the domain validators.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return domain.ValidateUsername(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("snippetname", func(fl validator.FieldLevel) bool {
		return domain.ValidateSnippetName(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("rolename", func(fl validator.FieldLevel) bool {
		return domain.ValidateRoleName(fl.Field().String()) == nil
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures come back as a
// *domain.ValidationError with one entry per field.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &domain.ValidationError{Fields: make([]*domain.FieldError, 0, len(ve))}
			for _, fe := range ve {
				out.Fields = append(out.Fields, fieldError(fe))
			}
			return out
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a domain field error.
func fieldError(fe validator.FieldError) *domain.FieldError {
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required", "required_without":
		msg = "is required"
	case "email":
		msg = "must be a valid email"
	case "min":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		msg = fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", fe.Param())
	case "username", "snippetname", "rolename":
		if err := domainCheck(fe.Tag(), fmt.Sprint(fe.Value())); err != nil {
			msg = err.Message
		}
	default:
		msg = fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
	return &domain.FieldError{Field: field, Message: msg}
}

func domainCheck(tag, value string) *domain.FieldError {
	var err error
	switch tag {
	case "username":
		err = domain.ValidateUsername(value)
	case "snippetname":
		err = domain.ValidateSnippetName(value)
	case "rolename":
		err = domain.ValidateRoleName(value)
	}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
