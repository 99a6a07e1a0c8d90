package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// ValidationError reports user input that was rejected before any state changed.
// Its message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DataConsistencyError marks remote data that contradicts itself,
// e.g. a plan naming a building the catalog does not contain
type DataConsistencyError struct {
	*DomainError
	Subject string
}

func NewDataConsistencyError(subject, message string) *DataConsistencyError {
	return &DataConsistencyError{
		DomainError: NewDomainError(message),
		Subject:     subject,
	}
}
