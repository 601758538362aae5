package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/debty-app/debty/internal/ledger"
	"github.com/debty-app/debty/internal/models"
)

func TestWriteStatement(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	p, err := l.AddPerson(ctx, "Alice Johnson", "(555) 123-4567")
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}

	entries := []struct {
		typ    models.TxnType
		amount string
		desc   string
		day    int
		note   string
	}{
		{models.TxnDebit, "40", "Groceries, weekly", 20, ""},
		{models.TxnCredit, "100", "Concert tickets", 5, "paid by card"},
	}
	for _, e := range entries {
		if _, err := l.AddTransaction(ctx, ledger.NewTransaction{
			PersonID:    p.ID,
			Type:        e.typ,
			Amount:      decimal.RequireFromString(e.amount),
			Description: e.desc,
			Date:        time.Date(2024, 1, e.day, 0, 0, 0, 0, time.UTC),
			Note:        e.note,
		}); err != nil {
			t.Fatalf("AddTransaction failed: %v", err)
		}
	}

	st, err := l.Statement(p.ID)
	if err != nil {
		t.Fatalf("Statement failed: %v", err)
	}

	var buf bytes.Buffer
	generated := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	if err := WriteStatement(&buf, st, generated); err != nil {
		t.Fatalf("WriteStatement failed: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}

	// csv.Reader skips the empty separator record.
	if len(records) != 9 {
		t.Fatalf("expected 9 records, got %d: %v", len(records), records)
	}

	want := map[string]string{
		"name":         "Alice Johnson",
		"balance":      "60.00",
		"direction":    "owes_me",
		"status":       "pending",
		"generated_at": "2024-02-01T10:00:00Z",
	}
	for _, rec := range records[:6] {
		if v, ok := want[rec[0]]; ok && rec[1] != v {
			t.Errorf("%s = %q, want %q", rec[0], rec[1], v)
		}
	}

	if records[6][0] != "date" {
		t.Errorf("expected column header, got %v", records[6])
	}

	first, second := records[7], records[8]
	if first[0] != "2024-01-05" || first[4] != "100.00" || first[5] != "100.00" || first[7] != "paid by card" {
		t.Errorf("unexpected first row: %v", first)
	}
	if second[2] != "Groceries, weekly" || second[4] != "-40.00" || second[5] != "60.00" {
		t.Errorf("unexpected second row: %v", second)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name, want string
	}{
		{"Alice Johnson", "statement-alice-johnson-2024-01-15.csv"},
		{"  O'Brien / Sons ", "statement-o-brien-sons-2024-01-15.csv"},
		{"???", "statement-person-2024-01-15.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.name, at); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
