// Package apperrors defines the error taxonomy shared by the analytics
// composers and the HTTP layer: validation failures (fail-fast, before any
// I/O), missing entities, and wrapped unexpected query failures.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed caller input (bad tenant identifier,
// unparseable date, inverted date range). It is always raised before any
// query runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation creates a ValidationError for a named input field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates a referenced entity does not exist. It is used only
// where a composer needs the entity itself rather than an aggregate.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for a resource and identifier.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Unexpected wraps an underlying query or store failure with the operation
// that triggered it. The original cause stays reachable via errors.Unwrap.
func Unexpected(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
