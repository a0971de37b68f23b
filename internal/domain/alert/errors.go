package alert

import "errors"

// Error classes returned by lifecycle operations. Callers match them with errors.Is.
var (
	// ErrValidation marks schema mismatches and missing or out-of-range fields.
	ErrValidation = errors.New("validation failed")
	// ErrMissingSender is returned when a mutating operation has no sender identity.
	ErrMissingSender = errors.New("missing sender address")
	// ErrNotFound is returned when a referenced alert does not exist.
	ErrNotFound = errors.New("alert not found")
	// ErrAlreadyExists is returned when raising an alert id that is taken.
	ErrAlreadyExists = errors.New("alert already exists")
	// ErrInvalidTransition is returned when the current status forbids the operation.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized is returned when the sender may not perform the transition.
	ErrUnauthorized = errors.New("only raiser or acknowledger can resolve alert")
)
