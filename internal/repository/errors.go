package repository

import "fmt"

// MissingFieldError signals that a record passed to Add lacks a required
// field.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("unable to add new %s because a parameter %q does not exist", e.Entity, e.Field)
}

// DuplicateValueError signals that a value for a unique field is already
// stored.
type DuplicateValueError struct {
	Entity string
	Field  string
	Value  any
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("unable to add new %s with parameter %s=%q because this value already exists",
		e.Entity, e.Field, fmt.Sprint(e.Value))
}

// DanglingReferenceError signals that a relational insert references an
// entity that does not exist.
type DanglingReferenceError struct {
	Entity string
	Field  string
	Value  any
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("unable to add new %s because %s=%q does not reference an existing record",
		e.Entity, e.Field, fmt.Sprint(e.Value))
}
