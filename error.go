package napi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInteriorNUL is returned by EncodeMessage for messages that cannot be
// passed to the host as a C string.
var ErrInteriorNUL = errors.New("napi: message contains NUL byte")

// Error is the error a callback returns to control how its failure reaches
// JavaScript. When Exception is set, that value is thrown as-is. Otherwise
// a generic Error is thrown with the error's message.
type Error struct {
	// Exception is a pre-built JavaScript value to throw, or nil.
	Exception RawValue
	// Message is the display message.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// NewError returns a message-only Error.
func NewError(msg string) *Error {
	return &Error{Message: msg}
}

// Errorf formats a message-only Error. A %w verb sets Err.
func Errorf(format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{Message: wrapped.Error(), Err: errors.Unwrap(wrapped)}
}

// FromException returns an Error that rethrows exception.
func FromException(exception RawValue) *Error {
	return &Error{Exception: exception}
}

func (e *Error) Error() string {
	if e == nil {
		return fallbackDescription
	}
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Description()
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Description returns a short fixed description of the error's kind. A nil
// *Error is described like a plain error.
func (e *Error) Description() string {
	if e != nil && e.Exception != nil {
		return "JavaScript exception"
	}
	return fallbackDescription
}

const fallbackDescription = "native callback error"

type describer interface {
	Description() string
}

// ExceptionOf returns the pre-built exception carried by err or any error
// it wraps. A nil *Error carries none.
func ExceptionOf(err error) (RawValue, bool) {
	var napiErr *Error
	if errors.As(err, &napiErr) && napiErr != nil && napiErr.Exception != nil {
		return napiErr.Exception, true
	}
	return nil, false
}

// Description returns the short description of err: the Description of the
// first error in its chain providing one, or a generic phrase.
func Description(err error) string {
	var d describer
	if errors.As(err, &d) {
		return d.Description()
	}
	return fallbackDescription
}

// EncodeMessage returns msg as a NUL-terminated buffer.
func EncodeMessage(msg string) ([]byte, error) {
	if strings.IndexByte(msg, 0) >= 0 {
		return nil, ErrInteriorNUL
	}
	buf := make([]byte, len(msg)+1)
	copy(buf, msg)
	return buf, nil
}

// EncodeDescription returns the description of err as a NUL-terminated
// buffer. NUL bytes in the description are dropped, so it never fails.
func EncodeDescription(err error) []byte {
	desc := strings.ReplaceAll(Description(err), "\x00", "")
	buf := make([]byte, len(desc)+1)
	copy(buf, desc)
	return buf
}
