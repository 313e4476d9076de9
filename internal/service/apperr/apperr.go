// Package apperr holds the domain error kinds shared by services and transports.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

// Error is a domain error with a client-facing message.
type Error struct {
	kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns an ErrValidation kind error.
func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound kind error.
func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure of an external provider.
func Upstream(err error, format string, args ...any) error {
	return &Error{kind: ErrUpstream, Message: fmt.Sprintf(format, args...), Err: err}
}

// Message returns the client-facing message of err, or "" when err is not a domain error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return ""
}
