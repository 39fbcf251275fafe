package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/templui/fittrack/internal/validation"
)

var (
	ErrNotAuthenticated    = errors.New("authentication credentials were not provided")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUserInactive        = errors.New("user inactive or deleted")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	// ErrLoginFailed wraps failures that happen after the credentials were accepted.
	ErrLoginFailed = errors.New("internal server error during authentication")
)

// ValidationError carries per-field messages, keyed by JSON field name.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func newValidationError(errs validation.FieldErrors) error {
	if errs.Empty() {
		return nil
	}
	return &ValidationError{Fields: errs}
}
