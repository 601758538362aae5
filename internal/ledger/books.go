package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/debty-app/debty/internal/storage"
)

// JournalSource hands out per-owner journals. storage.Store satisfies it.
type JournalSource interface {
	Journal(ownerID string) storage.Journal
}

// Books keeps one open Ledger per owner.
//
// A ledger is opened on the owner's first authenticated request and
// closed at logout. Closing only drops the in-memory copy; whatever the
// journal persisted is loaded again on the next open.
type Books struct {
	mu     sync.Mutex
	source JournalSource
	opts   []Option
	logger *slog.Logger
	obs    Observer
	books  map[string]*Ledger
}

// NewBooks creates an empty registry. obs may be nil. opts are passed to
// every ledger it opens, together with WithObserver(obs).
func NewBooks(source JournalSource, logger *slog.Logger, obs Observer, opts ...Option) *Books {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Books{
		source: source,
		opts:   append(opts, WithObserver(obs), WithLogger(logger)),
		logger: logger,
		obs:    obs,
		books:  make(map[string]*Ledger),
	}
}

// For returns the owner's ledger, opening it on first use.
func (b *Books) For(ctx context.Context, ownerID string) (*Ledger, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.books[ownerID]; ok {
		return l, nil
	}

	l, err := Open(ctx, b.source.Journal(ownerID), b.opts...)
	if err != nil {
		return nil, err
	}
	b.books[ownerID] = l
	b.obs.BooksOpen(len(b.books))
	b.logger.Info("Ledger opened", "owner_id", ownerID)
	return l, nil
}

// Close drops the owner's ledger and rejects further mutations on it, so a
// request still holding the old ledger cannot write behind the next one.
// It reports whether one was open.
func (b *Books) Close(ownerID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.books[ownerID]
	if !ok {
		return false
	}
	l.close()
	delete(b.books, ownerID)
	b.obs.BooksOpen(len(b.books))
	b.logger.Info("Ledger closed", "owner_id", ownerID)
	return true
}

// Len returns the number of open ledgers.
func (b *Books) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.books)
}
