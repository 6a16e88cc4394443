// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEmptyDigest   = errors.New("nothing to send: no ranked records")
	ErrNoCredentials = errors.New("missing notification credentials")
	ErrConfigInvalid = errors.New("invalid configuration")
	ErrDatabaseError = errors.New("database error")
)

// SourceError represents a failure fetching or decoding one scan feed.
// It is always recovered into an empty collection for that scan only.
type SourceError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("source error [%s]: status %d: %s", e.Source, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("source error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("source error [%s]: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, message string, statusCode int, err error) *SourceError {
	return &SourceError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// DeliveryError represents a non-success outcome of an outbound push.
// The underlying status and body are surfaced verbatim to the operator.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery error [%s]: %v", e.Channel, e.Err)
	}
	return fmt.Sprintf("delivery error [%s]: status %d: %s", e.Channel, e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new DeliveryError.
func NewDeliveryError(channel string, statusCode int, body string, err error) *DeliveryError {
	return &DeliveryError{
		Channel:    channel,
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// ValidationError represents a configuration validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
