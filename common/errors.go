package common

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrCancelled  ErrorType = "CANCELLED"
	ErrValidation ErrorType = "VALIDATION"
	ErrInternal   ErrorType = "INTERNAL"
)

// Error represents a warehouse error with context
type Error struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new warehouse error
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Cancelled wraps a context error raised while an operation was pending.
func Cancelled(operation string, cause error) *Error {
	if cause == nil {
		cause = context.Canceled
	}
	return NewError(ErrCancelled, operation+" cancelled").WithCause(cause)
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.Details[key] = value
	return e
}

// WithCause sets the wrapped error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsType checks if error is of specific type
func IsType(err error, errType ErrorType) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Type == errType
	}
	return false
}

func IsCancelled(err error) bool {
	return IsType(err, ErrCancelled)
}
