package repository

import "gorm.io/gorm"

// Field is a tri-state equality predicate over one column. The zero value
// carries no constraint; Null constrains the column to SQL NULL; Value
// constrains it to an explicit value. The three states keep "don't filter
// on this field" distinct from "filter for absence".
type Field[T any] struct {
	state fieldState
	value T
}

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldNull
	fieldValue
)

// Value builds a predicate constraining the column to v.
func Value[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

// Null builds a predicate constraining the column to SQL NULL.
func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// IsSet reports whether the field carries any constraint.
func (f Field[T]) IsSet() bool { return f.state != fieldUnset }

// IsNull reports whether the field constrains to NULL.
func (f Field[T]) IsNull() bool { return f.state == fieldNull }

// Get returns the explicit value and whether one is present. A Null or
// unset field returns the zero value and false.
func (f Field[T]) Get() (T, bool) {
	if f.state != fieldValue {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Clause is one rendered equality constraint.
type Clause struct {
	Column string
	Null   bool
	Value  any
}

// Filter renders an entity's predicate set. Clauses combine with AND;
// an empty set matches everything.
type Filter interface {
	Clauses() []Clause
}

func appendClause[T any](clauses []Clause, f Field[T], column string) []Clause {
	switch f.state {
	case fieldNull:
		return append(clauses, Clause{Column: column, Null: true})
	case fieldValue:
		return append(clauses, Clause{Column: column, Value: f.value})
	}
	return clauses
}

// applyFilter adds every clause to the query and reports how many were
// applied, so callers can tell an unconstrained query apart.
func applyFilter(tx *gorm.DB, f Filter) (*gorm.DB, int) {
	clauses := f.Clauses()
	for _, c := range clauses {
		if c.Null {
			tx = tx.Where(c.Column + " IS NULL")
		} else {
			tx = tx.Where(c.Column+" = ?", c.Value)
		}
	}
	return tx, len(clauses)
}
