package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/internal/storage"
)

// journal persists one owner's people and transactions.
type journal struct {
	db      *sql.DB
	ownerID string
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// nullable maps empty optional strings to NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Load retrieves the owner's people and transactions in insertion order.
func (j *journal) Load(ctx context.Context) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, name, phone, balance, status, last_updated, created_at
		 FROM people WHERE owner_id = ? ORDER BY seq`,
		j.ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                      models.Person
			lastUpdated, createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Balance, &p.Status, &lastUpdated, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if p.LastUpdated, err = parseTime(lastUpdated); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		snap.People = append(snap.People, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	txnRows, err := j.db.QueryContext(ctx,
		`SELECT id, person_id, person_name, type, amount, description, date, status,
		        note, attachment_url, attachment_name
		 FROM transactions WHERE owner_id = ? ORDER BY seq`,
		j.ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer txnRows.Close()

	for txnRows.Next() {
		var (
			t                   models.Transaction
			date                string
			note, url, fileName sql.NullString
		)
		if err := txnRows.Scan(&t.ID, &t.PersonID, &t.PersonName, &t.Type, &t.Amount,
			&t.Description, &date, &t.Status, &note, &url, &fileName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		t.Note = note.String
		t.AttachmentURL = url.String
		t.AttachmentName = fileName.String
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := txnRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return snap, nil
}

// Apply writes a change set inside a single database transaction.
func (j *journal) Apply(ctx context.Context, change *storage.Change) error {
	if change.IsEmpty() {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range change.DeleteTransactions {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM transactions WHERE id = ? AND owner_id = ?", id, j.ownerID,
		); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
	}

	// Transactions go with their person through ON DELETE CASCADE.
	for _, id := range change.DeletePeople {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM people WHERE id = ? AND owner_id = ?", id, j.ownerID,
		); err != nil {
			return fmt.Errorf("failed to delete person: %w", err)
		}
	}

	for _, p := range change.PutPeople {
		if err := j.upsertPerson(ctx, tx, p); err != nil {
			return err
		}
	}

	for _, t := range change.PutTransactions {
		if err := j.upsertTransaction(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (j *journal) upsertPerson(ctx context.Context, tx *sql.Tx, p models.Person) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO people (id, owner_id, name, phone, balance, status, last_updated, created_at, seq)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM people WHERE owner_id = ?))
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     phone = excluded.phone,
		     balance = excluded.balance,
		     status = excluded.status,
		     last_updated = excluded.last_updated
		 WHERE people.owner_id = excluded.owner_id`,
		p.ID, j.ownerID, p.Name, p.Phone, p.Balance.String(), string(p.Status),
		formatTime(p.LastUpdated), formatTime(p.CreatedAt), j.ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}
	return requireRow(res, "person", p.ID)
}

func (j *journal) upsertTransaction(ctx context.Context, tx *sql.Tx, t models.Transaction) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, person_id, person_name, type, amount, description,
		                           date, status, note, attachment_url, attachment_name, seq)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE owner_id = ?))
		 ON CONFLICT(id) DO UPDATE SET
		     person_id = excluded.person_id,
		     person_name = excluded.person_name,
		     type = excluded.type,
		     amount = excluded.amount,
		     description = excluded.description,
		     date = excluded.date,
		     status = excluded.status,
		     note = excluded.note,
		     attachment_url = excluded.attachment_url,
		     attachment_name = excluded.attachment_name
		 WHERE transactions.owner_id = excluded.owner_id`,
		t.ID, j.ownerID, t.PersonID, t.PersonName, string(t.Type), t.Amount.String(), t.Description,
		formatTime(t.Date), string(t.Status), nullable(t.Note), nullable(t.AttachmentURL),
		nullable(t.AttachmentName), j.ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return requireRow(res, "transaction", t.ID)
}

// requireRow rejects upserts that hit a row belonging to another owner.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s belongs to another owner", kind, id)
	}
	return nil
}
