package form

import "errors"

var (
	// ErrUnknownField is returned when a value is set for an ID the schema
	// does not contain.
	ErrUnknownField = errors.New("unknown field")

	// ErrValueKind is returned when a value's kind does not match its field.
	ErrValueKind = errors.New("value kind does not match field type")

	// ErrSubmitted is returned by mutating calls after submission.
	ErrSubmitted = errors.New("form already submitted")

	// ErrSubmit wraps a failure reported by the Submitter.
	ErrSubmit = errors.New("submission failed")

	// ErrNoSections is returned by New for a form without sections.
	ErrNoSections = errors.New("form has no sections")
)
