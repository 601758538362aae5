// Package memory provides a process-local implementation of storage.Store.
//
// Nothing survives a restart, matching the behaviour of a ledger that only
// ever lived in the browser. Data does survive a logout/login cycle within
// the same process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store is a thread-safe in-memory store.
type Store struct {
	mu sync.RWMutex

	users      map[string]*models.User
	emailIndex map[string]string // email -> userID

	ledgers map[string]*ledgerData // ownerID -> ledger rows
}

type ledgerData struct {
	people       map[string]models.Person
	peopleOrder  []string
	transactions map[string]models.Transaction
	txnOrder     []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:      make(map[string]*models.User),
		emailIndex: make(map[string]string),
		ledgers:    make(map[string]*ledgerData),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// CreateUser stores a copy of user.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emailIndex[user.Email]; exists {
		return fmt.Errorf("failed to create user %s: %w", user.Email, storage.ErrDuplicateEmail)
	}
	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	return nil
}

// GetUserByEmail returns a copy of the user, or nil if unknown.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[email]
	if !ok {
		return nil, nil
	}
	u := *s.users[id]
	return &u, nil
}

// GetUserByID returns a copy of the user, or nil if unknown.
func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

// Journal returns the journal for ownerID.
func (s *Store) Journal(ownerID string) storage.Journal {
	return &journal{store: s, ownerID: ownerID}
}

type journal struct {
	store   *Store
	ownerID string
}

func (j *journal) Load(_ context.Context) (*storage.Snapshot, error) {
	j.store.mu.RLock()
	defer j.store.mu.RUnlock()

	snap := &storage.Snapshot{}
	data, ok := j.store.ledgers[j.ownerID]
	if !ok {
		return snap, nil
	}
	for _, id := range data.peopleOrder {
		snap.People = append(snap.People, data.people[id])
	}
	for _, id := range data.txnOrder {
		snap.Transactions = append(snap.Transactions, data.transactions[id])
	}
	return snap, nil
}

func (j *journal) Apply(_ context.Context, change *storage.Change) error {
	j.store.mu.Lock()
	defer j.store.mu.Unlock()

	data, ok := j.store.ledgers[j.ownerID]
	if !ok {
		data = &ledgerData{
			people:       make(map[string]models.Person),
			transactions: make(map[string]models.Transaction),
		}
		j.store.ledgers[j.ownerID] = data
	}

	// Validate foreign keys up front so a bad change writes nothing.
	deleted := make(map[string]bool, len(change.DeletePeople))
	for _, id := range change.DeletePeople {
		deleted[id] = true
	}
	put := make(map[string]bool, len(change.PutPeople))
	for _, p := range change.PutPeople {
		put[p.ID] = true
	}
	for _, t := range change.PutTransactions {
		_, exists := data.people[t.PersonID]
		if (!exists || deleted[t.PersonID]) && !put[t.PersonID] {
			return fmt.Errorf("failed to insert transaction %s: person %s does not exist", t.ID, t.PersonID)
		}
	}

	for _, id := range change.DeleteTransactions {
		data.deleteTransaction(id)
	}
	for _, id := range change.DeletePeople {
		for _, txnID := range append([]string(nil), data.txnOrder...) {
			if data.transactions[txnID].PersonID == id {
				data.deleteTransaction(txnID)
			}
		}
		if _, ok := data.people[id]; ok {
			delete(data.people, id)
			data.peopleOrder = removeID(data.peopleOrder, id)
		}
	}
	for _, p := range change.PutPeople {
		if _, ok := data.people[p.ID]; !ok {
			data.peopleOrder = append(data.peopleOrder, p.ID)
		}
		data.people[p.ID] = p
	}
	for _, t := range change.PutTransactions {
		if _, ok := data.transactions[t.ID]; !ok {
			data.txnOrder = append(data.txnOrder, t.ID)
		}
		data.transactions[t.ID] = t
	}
	return nil
}

func (d *ledgerData) deleteTransaction(id string) {
	if _, ok := d.transactions[id]; !ok {
		return
	}
	delete(d.transactions, id)
	d.txnOrder = removeID(d.txnOrder, id)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
