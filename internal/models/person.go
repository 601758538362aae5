package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle tag shared by people and transactions.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusPartial:
		return true
	}
	return false
}

// Person is a counterparty in the ledger.
type Person struct {
	// ID is the unique identifier (TypeID with the "person" prefix).
	ID string

	// Name and Phone are user supplied and editable.
	Name  string
	Phone string

	// Balance is the signed running total of this person's transactions.
	// Positive means the person owes the user, negative means the user
	// owes the person.
	Balance decimal.Decimal

	// Status is "paid" exactly when Balance is zero. Otherwise it is
	// "pending", or "partial" when the user set it explicitly.
	Status Status

	// LastUpdated moves on every edit and every balance change.
	LastUpdated time.Time

	// CreatedAt is set once when the person is added.
	CreatedAt time.Time
}

// PersonPatch carries the fields of a partial person update.
// Nil fields are left untouched.
type PersonPatch struct {
	Name   *string
	Phone  *string
	Status *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p PersonPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Status == nil
}

// Apply merges the non-nil patch fields into person.
func (p PersonPatch) Apply(person *Person) {
	if p.Name != nil {
		person.Name = *p.Name
	}
	if p.Phone != nil {
		person.Phone = *p.Phone
	}
	if p.Status != nil {
		person.Status = *p.Status
	}
}
