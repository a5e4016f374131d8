package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeFormat       ErrorType = "unsupported_format"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeRender       ErrorType = "render"
	ErrorTypeNoValidPages ErrorType = "no_valid_pages"
	ErrorTypeCancelled    ErrorType = "cancelled"
	ErrorTypeConfig       ErrorType = "config"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func InvalidInputError(message string, err error) *DomainError {
	return NewError(ErrorTypeInvalidInput, message, err)
}

func FormatError(message string, err error) *DomainError {
	return NewError(ErrorTypeFormat, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

func RenderError(message string, err error) *DomainError {
	return NewError(ErrorTypeRender, message, err)
}

func NoValidPagesError(message string) *DomainError {
	return NewError(ErrorTypeNoValidPages, message, nil)
}

func CancelledError(message string) *DomainError {
	return NewError(ErrorTypeCancelled, message, nil)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

// TypeOf returns the domain error type of err, or an empty string when err
// does not wrap a DomainError.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// IsCancelled reports whether err represents a cancelled run.
func IsCancelled(err error) bool {
	return TypeOf(err) == ErrorTypeCancelled
}
