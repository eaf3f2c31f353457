package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError attaches a message to the input field it concerns.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a user-facing input error: a top-level message,
// per-field messages, or both. The HTTP layer renders it as a 400.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}

// FieldMap renders the field errors for transport; nil when the error
// carries none.
func (err ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		m[f.Field] = f.Error
	}
	return m
}

type shutdown struct {
	message string
}

// NewShutdownError flags an unrecoverable integrity fault; the server
// drains and exits when it catches one.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
