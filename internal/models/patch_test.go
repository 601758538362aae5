package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func TestPersonPatchApply(t *testing.T) {
	base := Person{ID: "person_1", Name: "Alice", Phone: "555-0100", Status: StatusPending}

	tests := []struct {
		name  string
		patch PersonPatch
		want  Person
	}{
		{
			name:  "empty patch leaves person untouched",
			patch: PersonPatch{},
			want:  base,
		},
		{
			name:  "only name",
			patch: PersonPatch{Name: ptr("Alicia")},
			want:  Person{ID: "person_1", Name: "Alicia", Phone: "555-0100", Status: StatusPending},
		},
		{
			name:  "phone and status",
			patch: PersonPatch{Phone: ptr("555-0199"), Status: ptr(StatusPartial)},
			want:  Person{ID: "person_1", Name: "Alice", Phone: "555-0199", Status: StatusPartial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			tt.patch.Apply(&got)
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if !(PersonPatch{}).IsEmpty() {
		t.Error("expected zero patch to be empty")
	}
	if (PersonPatch{Name: ptr("x")}).IsEmpty() {
		t.Error("expected patch with name to be non-empty")
	}
}

func TestTransactionPatchApply(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txn := Transaction{
		ID:          "txn_1",
		PersonID:    "person_1",
		PersonName:  "Alice",
		Type:        TxnCredit,
		Amount:      decimal.NewFromInt(250),
		Description: "Dinner expenses",
		Date:        date,
		Status:      StatusPending,
	}

	newDate := date.AddDate(0, 0, 1)
	TransactionPatch{
		Type:          ptr(TxnDebit),
		Amount:        ptr(decimal.NewFromInt(80)),
		Date:          &newDate,
		Note:          ptr("cash"),
		AttachmentURL: ptr("https://files.example/receipt.png"),
	}.Apply(&txn)

	if txn.Type != TxnDebit {
		t.Errorf("Type = %s, want debit", txn.Type)
	}
	if !txn.Amount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Amount = %s, want 80", txn.Amount)
	}
	if !txn.Date.Equal(newDate) {
		t.Errorf("Date = %v, want %v", txn.Date, newDate)
	}
	if txn.Note != "cash" || txn.AttachmentURL != "https://files.example/receipt.png" {
		t.Errorf("optional fields not merged: %+v", txn)
	}
	// Untouched fields survive.
	if txn.PersonID != "person_1" || txn.Description != "Dinner expenses" || txn.AttachmentName != "" {
		t.Errorf("unexpected change to untouched fields: %+v", txn)
	}
}

func TestStatusAndTypeValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusPartial} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("settled").Valid() {
		t.Error("unknown status should be invalid")
	}
	if !TxnCredit.Valid() || !TxnDebit.Valid() {
		t.Error("debit and credit should be valid")
	}
	if TxnType("refund").Valid() {
		t.Error("unknown type should be invalid")
	}
}
