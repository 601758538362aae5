package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the direction of a transaction.
type TxnType string

const (
	TxnDebit  TxnType = "debit"
	TxnCredit TxnType = "credit"
)

// Valid reports whether t is debit or credit.
func (t TxnType) Valid() bool {
	return t == TxnDebit || t == TxnCredit
}

// Transaction is one debit or credit logged against a Person.
type Transaction struct {
	// ID is the unique identifier (TypeID with the "txn" prefix).
	ID string

	// PersonID references the Person this transaction belongs to.
	PersonID string

	// PersonName is a snapshot of the person's name when the transaction
	// was recorded. Later renames of the person do not touch it.
	PersonName string

	// Type decides whether Amount increases or decreases the balance.
	Type TxnType

	// Amount is always a positive magnitude.
	Amount decimal.Decimal

	Description string
	Date        time.Time

	// Status is set by the user and is not derived from any balance.
	Status Status

	// Optional fields. Attachments are opaque to the ledger: it stores
	// the URL and file name handed over by the attachment service.
	Note           string
	AttachmentURL  string
	AttachmentName string
}

// TransactionPatch carries the fields of a partial transaction update.
// Nil fields are left untouched.
type TransactionPatch struct {
	PersonID       *string
	Type           *TxnType
	Amount         *decimal.Decimal
	Description    *string
	Date           *time.Time
	Status         *Status
	Note           *string
	AttachmentURL  *string
	AttachmentName *string
}

// Apply merges the non-nil patch fields into txn.
func (p TransactionPatch) Apply(txn *Transaction) {
	if p.PersonID != nil {
		txn.PersonID = *p.PersonID
	}
	if p.Type != nil {
		txn.Type = *p.Type
	}
	if p.Amount != nil {
		txn.Amount = *p.Amount
	}
	if p.Description != nil {
		txn.Description = *p.Description
	}
	if p.Date != nil {
		txn.Date = *p.Date
	}
	if p.Status != nil {
		txn.Status = *p.Status
	}
	if p.Note != nil {
		txn.Note = *p.Note
	}
	if p.AttachmentURL != nil {
		txn.AttachmentURL = *p.AttachmentURL
	}
	if p.AttachmentName != nil {
		txn.AttachmentName = *p.AttachmentName
	}
}

// BalanceSummary is the aggregate view over all people.
type BalanceSummary struct {
	// TotalOwedToMe is the sum of positive balances.
	TotalOwedToMe decimal.Decimal
	// TotalIOwe is the sum of the magnitudes of negative balances.
	TotalIOwe decimal.Decimal
	// NetBalance is TotalOwedToMe minus TotalIOwe.
	NetBalance decimal.Decimal
	// PeopleCount counts every person, settled ones included.
	PeopleCount int
}
