package entity

import (
	"errors"
	"fmt"
)

// ValidationError reports a bad or unknown ticker or request parameter.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// UpstreamFetchError reports a search or price service failure.
type UpstreamFetchError struct {
	Service string
	Err     error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// NewUpstreamFetchError creates an UpstreamFetchError.
func NewUpstreamFetchError(service string, err error) error {
	return &UpstreamFetchError{Service: service, Err: err}
}

// ModelOutputError reports a generative step that failed or returned an
// object that does not match the expected schema.
type ModelOutputError struct {
	Step string
	Err  error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }

// NewModelOutputError creates a ModelOutputError.
func NewModelOutputError(step string, err error) error {
	return &ModelOutputError{Step: step, Err: err}
}

// ErrEmptyModelOutput is returned when the model answers with nothing.
var ErrEmptyModelOutput = errors.New("empty model output")

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsUpstreamFetchError reports whether err is an UpstreamFetchError.
func IsUpstreamFetchError(err error) bool {
	var u *UpstreamFetchError
	return errors.As(err, &u)
}

// IsModelOutputError reports whether err is a ModelOutputError.
func IsModelOutputError(err error) bool {
	var m *ModelOutputError
	return errors.As(err, &m)
}
