package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain. Callers branch on these with errors.Is;
// the web adapter maps them to HTTP status codes.
var (
	// ErrValidation marks a required field missing or malformed at commit time.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when a status change does not match an
	// edge in the document state machine. No persistence happens on this path.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionFailed is returned when invoice conversion is attempted
	// on a quote that is not approved.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNumberingExhausted is returned when a document number counter cannot
	// advance. Counters never wrap or reset.
	ErrNumberingExhausted = errors.New("document numbering exhausted")

	// ErrNumberingConflict is returned when a concurrent allocation produced a
	// clash, e.g. a unique violation on a document number.
	ErrNumberingConflict = errors.New("document numbering conflict")

	// ErrNotFound is returned when a requested record does not exist for the
	// authenticated account.
	ErrNotFound = errors.New("not found")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError wraps ErrInvalidTransition with the rejected edge.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s → %s", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
