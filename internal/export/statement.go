// Package export renders ledger statements for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/debty-app/debty/internal/calculator"
	"github.com/debty-app/debty/internal/ledger"
)

// ContentType is the MIME type of WriteStatement output.
const ContentType = "text/csv"

// transactionHeader is the column row that precedes the transaction rows.
var transactionHeader = []string{
	"date", "type", "description", "amount", "effect", "running_balance", "status", "note", "attachment",
}

// WriteStatement writes a CSV statement for one person: a key/value block
// describing the person, a blank record, then one row per transaction in
// date order with the running balance after each one.
func WriteStatement(w io.Writer, st ledger.Statement, generatedAt time.Time) error {
	cw := csv.NewWriter(w)

	p := st.Person
	header := [][]string{
		{"name", p.Name},
		{"phone", p.Phone},
		{"balance", p.Balance.StringFixed(2)},
		{"direction", string(st.Direction)},
		{"status", string(p.Status)},
		{"generated_at", generatedAt.UTC().Format(time.RFC3339)},
		{},
		transactionHeader,
	}
	if err := cw.WriteAll(header); err != nil {
		return fmt.Errorf("failed to write statement header: %w", err)
	}

	running := decimal.Zero
	for _, t := range st.Transactions {
		effect := calculator.Contribution(t.Type, t.Amount)
		running = running.Add(effect)
		record := []string{
			t.Date.Format(time.DateOnly),
			string(t.Type),
			t.Description,
			t.Amount.StringFixed(2),
			effect.StringFixed(2),
			running.StringFixed(2),
			string(t.Status),
			t.Note,
			t.AttachmentName,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush statement: %w", err)
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename builds a download name such as "statement-alice-johnson-2024-01-15.csv".
func Filename(name string, at time.Time) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "person"
	}
	return fmt.Sprintf("statement-%s-%s.csv", slug, at.Format(time.DateOnly))
}
