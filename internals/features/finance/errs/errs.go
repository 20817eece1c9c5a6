// file: internals/features/finance/errs/errs.go
package errs

import (
	"errors"
	"fmt"
)

/* ==============================
   Kind — error taxonomy
============================== */

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindState      Kind = "state"
)

// Error is the engine-level error. Field carries the offending
// field or entity id so callers can render a specific message.
// Retryable marks conflicts caused by concurrent writers, which the
// caller may re-attempt against fresh state; business conflicts
// (locked structure, exceeded balance) are deterministic and are not.
type Error struct {
	Kind      Kind
	Field     string
	Message   string
	Retryable bool
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

func Validationf(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(field, msg string) *Error {
	return &Error{Kind: KindNotFound, Field: field, Message: msg}
}

func Conflict(field, msg string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: msg}
}

func ConflictRetryable(field, msg string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: msg, Retryable: true}
}

func State(field, msg string) *Error {
	return &Error{Kind: KindState, Field: field, Message: msg}
}

/* ==============================
   Inspectors
============================== */

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsState(err error) bool      { return KindOf(err) == KindState }
