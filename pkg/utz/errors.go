package utz

import (
	"errors"
	"fmt"
)

// Kind classifies errors produced by this package.
type Kind string

const (
	// KindConfiguration indicates a declared option is missing, wrongly typed
	// or inconsistent. Raised at registration time where possible.
	KindConfiguration Kind = "CONFIGURATION"

	// KindModel indicates a structural mismatch between the configuration and
	// the actual record graph.
	KindModel Kind = "MODEL"

	// KindValidation indicates a timezone value failed validity checking.
	KindValidation Kind = "VALIDATION"

	// KindType indicates registration was attempted on a value that is not a
	// record type at all.
	KindType Kind = "TYPE"
)

// Error is the error type returned by this package.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrConfiguration creates a configuration error.
func ErrConfiguration(format string, args ...any) *Error {
	return newError(KindConfiguration, format, args...)
}

// ErrModel creates a model structure error.
func ErrModel(format string, args ...any) *Error {
	return newError(KindModel, format, args...)
}

// ErrValidation creates a validation error.
func ErrValidation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// ErrType creates a type misuse error.
func ErrType(format string, args ...any) *Error {
	return newError(KindType, format, args...)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return isKind(err, KindConfiguration) }

// IsModel reports whether err is a model structure error.
func IsModel(err error) bool { return isKind(err, KindModel) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsType reports whether err is a type misuse error.
func IsType(err error) bool { return isKind(err, KindType) }
