// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/debty-app/debty/internal/models"
)

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("storage: email already registered")

// Snapshot is the full state of one owner's ledger.
type Snapshot struct {
	People       []models.Person
	Transactions []models.Transaction
}

// Change is the set of writes produced by one ledger mutation.
// A Journal applies it all-or-nothing.
//
// Apply order is fixed: transaction deletes, person deletes (which
// cascade to the person's transactions), person upserts, transaction
// upserts.
type Change struct {
	PutPeople          []models.Person
	PutTransactions    []models.Transaction
	DeletePeople       []string
	DeleteTransactions []string
}

// IsEmpty reports whether the change writes nothing.
func (c *Change) IsEmpty() bool {
	return len(c.PutPeople) == 0 && len(c.PutTransactions) == 0 &&
		len(c.DeletePeople) == 0 && len(c.DeleteTransactions) == 0
}

// Journal is the persistence boundary of a single owner's ledger.
type Journal interface {
	// Load returns everything stored for the owner.
	// An owner with no data gets an empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// Apply writes the change atomically. On error nothing is written.
	Apply(ctx context.Context, change *Change) error
}

// UserStore defines user account persistence.
type UserStore interface {
	// CreateUser inserts a new user. A taken email fails with ErrDuplicateEmail.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store is everything the server needs from a backend: accounts, one
// journal per owner, and a health check.
type Store interface {
	UserStore

	// Journal returns the ledger journal scoped to one owner.
	Journal(ownerID string) Journal

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
