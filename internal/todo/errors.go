package todo

import "errors"

var (
	// ErrNotFound is returned when a todo ID does not exist.
	ErrNotFound = errors.New("todo not found")

	// ErrValidation is the parent of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTitle is returned when a title is empty or too long.
	ErrInvalidTitle = errors.New("invalid title")

	// ErrInvalidDescription is returned when a description is empty or too long.
	ErrInvalidDescription = errors.New("invalid description")
)

// FieldError reports which field failed validation and why.
// It matches both ErrValidation and the field's own sentinel with errors.Is.
type FieldError struct {
	Field  string
	Reason string

	sentinel error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrValidation, e.sentinel}
}
