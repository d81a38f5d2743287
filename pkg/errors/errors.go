// Package errors provides coded errors used across scrubdeck. Every error
// carries a Code identifying where it came from and what went wrong, an
// optional cause, and free-form context for diagnostics.
package errors

import (
	"fmt"
	"time"
)

// Error is the concrete error type produced by this package.
type Error struct {
	Code      Code
	Message   string
	Cause     error
	Context   map[string]string
	Timestamp time.Time
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an error that records err as its cause.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.Cause = err
	return e
}

// Wrapf creates a wrapping error with a formatted message.
func Wrapf(code Code, err error, format string, args ...interface{}) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// AddContext attaches a key/value pair for diagnostics. Returns the
// receiver so calls can be chained.
func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode reports whether err is a *Error carrying the given code,
// directly or anywhere along its cause chain.
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Code.Equals(code) {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

// GetCode returns the code of err if it is a *Error, else CommonInternal.
func GetCode(err error) Code {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CommonInternal
}
