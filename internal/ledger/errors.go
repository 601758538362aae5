package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrValidation = errors.New("ledger: validation failed")
	ErrNotFound   = errors.New("ledger: not found")
	// ErrClosed is returned by mutations on a ledger that Books closed.
	ErrClosed = errors.New("ledger: closed")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ledger: validation failed for %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a reference to a person or transaction that does not exist.
type NotFoundError struct {
	Kind string // "person" or "transaction"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ledger: %s not found: %s", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func personNotFound(id string) error {
	return &NotFoundError{Kind: "person", ID: id}
}

func transactionNotFound(id string) error {
	return &NotFoundError{Kind: "transaction", ID: id}
}
