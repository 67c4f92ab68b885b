package service

import "fmt"

// Typed errors let handlers map service failures onto the HTTP taxonomy
// (404 / 409 / 422) without string matching.

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func notFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError covers duplicate ids and deletions blocked by dependent rows.
// Count is the number of blocking rows (zero for duplicates).
type ConflictError struct {
	Msg   string
	Count int64
}

func (e *ConflictError) Error() string { return e.Msg }

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
