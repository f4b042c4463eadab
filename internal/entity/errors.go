package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoteNotFound = fmt.Errorf("note %w", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrMalformedID is returned for ids the store cannot decode.
	ErrMalformedID = errors.New("malformatted id")

	ErrTokenInvalid       = errors.New("token invalid")
	ErrUsernameTaken      = errors.New("username must be unique")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a schema violation of a client supplied payload.
type ValidationError struct {
	Kind   string
	Fields []FieldError
}

func NewValidationError(kind, field, message string) *ValidationError {
	return &ValidationError{
		Kind:   kind,
		Fields: []FieldError{{Field: field, Message: message}},
	}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return fmt.Sprintf("%s validation failed: %s", e.Kind, strings.Join(parts, ", "))
}

// Validate checks v against its validate tags and reports violations
// as a *ValidationError of the given kind.
func Validate(kind string, v any) error {
	return validate(kind, v)
}

func validate(kind string, v any) error {
	err := validatex.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", kind, err)
	}

	verr := &ValidationError{Kind: kind}
	for _, fe := range verrs {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	default:
		return "is invalid"
	}
}
