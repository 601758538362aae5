// Package ledger implements the Ledger Store: the people and transactions
// of one owner, kept consistent with the balance rules in package
// calculator.
//
// Every mutation follows the same sequence: validate, compute the full
// change on copies, persist it through the journal, then swap it into
// memory. A mutation that fails at any step leaves the ledger untouched.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/debty-app/debty/internal/calculator"
	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/internal/storage"
)

// Mutation names reported to the Observer.
const (
	OpAddPerson         = "add_person"
	OpUpdatePerson      = "update_person"
	OpDeletePerson      = "delete_person"
	OpAddTransaction    = "add_transaction"
	OpUpdateTransaction = "update_transaction"
	OpDeleteTransaction = "delete_transaction"
)

// Observer receives ledger activity, typically to export metrics.
type Observer interface {
	// MutationDone is called once per mutation with its outcome.
	MutationDone(op string, err error)
	// BooksOpen reports the number of ledgers currently held by Books.
	BooksOpen(n int)
}

type nopObserver struct{}

func (nopObserver) MutationDone(string, error) {}
func (nopObserver) BooksOpen(int)              {}

// Option configures a Ledger.
type Option func(*Ledger)

// WithJournal persists every mutation through j.
func WithJournal(j storage.Journal) Option {
	return func(l *Ledger) { l.journal = j }
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithObserver reports mutation outcomes to o.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// Ledger holds the people and transactions of one owner.
// It is safe for concurrent use; mutations are serialised.
type Ledger struct {
	mu sync.Mutex

	journal  storage.Journal
	now      func() time.Time
	logger   *slog.Logger
	observer Observer
	closed   bool

	people      map[string]models.Person
	peopleOrder []string
	txns        map[string]models.Transaction
	txnOrder    []string
}

// New creates an empty ledger. Without WithJournal nothing is persisted.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:      time.Now,
		logger:   slog.Default(),
		observer: nopObserver{},
		people:   make(map[string]models.Person),
		txns:     make(map[string]models.Transaction),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a ledger backed by journal and loads its stored state.
//
// Balances are recomputed from the loaded transactions. A stored balance
// that disagrees is logged and replaced, so the loaded ledger always
// satisfies the conservation rule.
func Open(ctx context.Context, journal storage.Journal, opts ...Option) (*Ledger, error) {
	l := New(append(opts, WithJournal(journal))...)

	snap, err := journal.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	for _, p := range snap.People {
		l.people[p.ID] = p
		l.peopleOrder = append(l.peopleOrder, p.ID)
	}
	for _, t := range snap.Transactions {
		if _, ok := l.people[t.PersonID]; !ok {
			l.logger.Warn("Dropping orphaned transaction", "transaction_id", t.ID, "person_id", t.PersonID)
			continue
		}
		t.Date = calendarDay(t.Date)
		l.txns[t.ID] = t
		l.txnOrder = append(l.txnOrder, t.ID)
	}

	for _, id := range l.peopleOrder {
		p := l.people[id]
		want := calculator.BalanceOf(id, l.transactionsLocked())
		if !p.Balance.Equal(want) {
			l.logger.Warn("Stored balance disagrees with transactions, recomputing",
				"person_id", id,
				"stored", p.Balance.String(),
				"computed", want.String(),
			)
			p.Balance = want
			p.Status = calculator.StatusFor(want)
		}
		switch {
		case p.Balance.IsZero() && l.hasTransactions(id):
			p.Status = models.StatusPaid
		case p.Status == models.StatusPaid && !p.Balance.IsZero():
			p.Status = models.StatusPending
		}
		l.people[id] = p
	}

	return l, nil
}

// NewTransaction holds the input of AddTransaction.
type NewTransaction struct {
	PersonID       string
	Type           models.TxnType
	Amount         decimal.Decimal
	Description    string
	Date           time.Time
	Status         models.Status // defaults to pending
	Note           string
	AttachmentURL  string
	AttachmentName string
}

// AddPerson creates a person with a zero balance and pending status.
func (l *Ledger) AddPerson(ctx context.Context, name, phone string) (models.Person, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var err error
	defer func() { l.observer.MutationDone(OpAddPerson, err) }()

	if name == "" {
		err = invalid("name", "must not be empty")
		return models.Person{}, err
	}
	if phone == "" {
		err = invalid("phone", "must not be empty")
		return models.Person{}, err
	}

	now := l.now()
	person := models.Person{
		ID:          models.NewPersonID(),
		Name:        name,
		Phone:       phone,
		Balance:     decimal.Zero,
		Status:      models.StatusPending,
		LastUpdated: now,
		CreatedAt:   now,
	}

	if err = l.commit(ctx, &storage.Change{PutPeople: []models.Person{person}}); err != nil {
		return models.Person{}, err
	}

	l.logger.Debug("Person added", "person_id", person.ID)
	return person, nil
}

// UpdatePerson merges patch into the person and bumps LastUpdated.
// An empty patch returns the person untouched.
//
// A status in the patch must agree with the balance: "paid" needs a zero
// balance, and a zero balance that came from transactions stays "paid".
func (l *Ledger) UpdatePerson(ctx context.Context, id string, patch models.PersonPatch) (models.Person, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	defer func() { l.observer.MutationDone(OpUpdatePerson, err) }()

	current, ok := l.people[id]
	if !ok {
		err = personNotFound(id)
		return models.Person{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			err = invalid("name", "must not be empty")
			return models.Person{}, err
		}
		patch.Name = &trimmed
	}
	if patch.Phone != nil {
		trimmed := strings.TrimSpace(*patch.Phone)
		if trimmed == "" {
			err = invalid("phone", "must not be empty")
			return models.Person{}, err
		}
		patch.Phone = &trimmed
	}

	next := current
	patch.Apply(&next)

	if patch.Status != nil {
		if err = l.checkPersonStatus(next); err != nil {
			return models.Person{}, err
		}
	}
	next.LastUpdated = l.now()

	if err = l.commit(ctx, &storage.Change{PutPeople: []models.Person{next}}); err != nil {
		return models.Person{}, err
	}

	l.logger.Debug("Person updated", "person_id", id)
	return next, nil
}

func (l *Ledger) checkPersonStatus(p models.Person) error {
	if !p.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", p.Status))
	}
	if p.Status == models.StatusPaid && !p.Balance.IsZero() {
		return invalid("status", "paid requires a zero balance")
	}
	if p.Status != models.StatusPaid && p.Balance.IsZero() && l.hasTransactions(p.ID) {
		return invalid("status", "a settled balance is always paid")
	}
	return nil
}

// DeletePerson removes the person and all of their transactions.
// It returns the number of transactions removed with them.
func (l *Ledger) DeletePerson(ctx context.Context, id string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	defer func() { l.observer.MutationDone(OpDeletePerson, err) }()

	if _, ok := l.people[id]; !ok {
		err = personNotFound(id)
		return 0, err
	}

	removed := 0
	for _, txnID := range l.txnOrder {
		if l.txns[txnID].PersonID == id {
			removed++
		}
	}

	if err = l.commit(ctx, &storage.Change{DeletePeople: []string{id}}); err != nil {
		return 0, err
	}

	l.logger.Debug("Person deleted", "person_id", id, "transactions_removed", removed)
	return removed, nil
}

// AddTransaction records a transaction and applies it to the person's balance.
func (l *Ledger) AddTransaction(ctx context.Context, in NewTransaction) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	defer func() { l.observer.MutationDone(OpAddTransaction, err) }()

	if in.Status == "" {
		in.Status = models.StatusPending
	}
	txn := models.Transaction{
		ID:             models.NewTransactionID(),
		PersonID:       in.PersonID,
		Type:           in.Type,
		Amount:         in.Amount,
		Description:    strings.TrimSpace(in.Description),
		Date:           calendarDay(in.Date),
		Status:         in.Status,
		Note:           in.Note,
		AttachmentURL:  in.AttachmentURL,
		AttachmentName: in.AttachmentName,
	}
	if err = validateTransaction(txn); err != nil {
		return models.Transaction{}, err
	}

	person, ok := l.people[txn.PersonID]
	if !ok {
		err = personNotFound(txn.PersonID)
		return models.Transaction{}, err
	}
	txn.PersonName = person.Name

	now := l.now()
	applyBalance(&person, calculator.Contribution(txn.Type, txn.Amount), now)

	err = l.commit(ctx, &storage.Change{
		PutPeople:       []models.Person{person},
		PutTransactions: []models.Transaction{txn},
	})
	if err != nil {
		return models.Transaction{}, err
	}

	l.logger.Debug("Transaction added",
		"transaction_id", txn.ID,
		"person_id", person.ID,
		"type", txn.Type,
		"amount", txn.Amount.String(),
		"balance", person.Balance.String(),
	)
	return txn, nil
}

// UpdateTransaction reverses the transaction's current effect, merges the
// patch, and applies the new effect. The result is the same as if the
// transaction had been entered with its new values in the first place.
//
// Moving a transaction to another person re-snapshots PersonName from the
// new person.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	defer func() { l.observer.MutationDone(OpUpdateTransaction, err) }()

	old, ok := l.txns[id]
	if !ok {
		err = transactionNotFound(id)
		return models.Transaction{}, err
	}

	next := old
	patch.Apply(&next)
	next.Description = strings.TrimSpace(next.Description)
	next.Date = calendarDay(next.Date)
	if err = validateTransaction(next); err != nil {
		return models.Transaction{}, err
	}

	now := l.now()
	change := &storage.Change{}

	from := l.people[old.PersonID]
	applyBalance(&from, calculator.Contribution(old.Type, old.Amount).Neg(), now)

	if next.PersonID == old.PersonID {
		applyBalance(&from, calculator.Contribution(next.Type, next.Amount), now)
		change.PutPeople = []models.Person{from}
	} else {
		to, ok := l.people[next.PersonID]
		if !ok {
			err = personNotFound(next.PersonID)
			return models.Transaction{}, err
		}
		applyBalance(&to, calculator.Contribution(next.Type, next.Amount), now)
		next.PersonName = to.Name
		change.PutPeople = []models.Person{from, to}
	}
	change.PutTransactions = []models.Transaction{next}

	if err = l.commit(ctx, change); err != nil {
		return models.Transaction{}, err
	}

	l.logger.Debug("Transaction updated", "transaction_id", id, "person_id", next.PersonID)
	return next, nil
}

// DeleteTransaction reverses the transaction's effect and removes it.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	defer func() { l.observer.MutationDone(OpDeleteTransaction, err) }()

	txn, ok := l.txns[id]
	if !ok {
		err = transactionNotFound(id)
		return err
	}

	person := l.people[txn.PersonID]
	applyBalance(&person, calculator.Contribution(txn.Type, txn.Amount).Neg(), l.now())

	err = l.commit(ctx, &storage.Change{
		PutPeople:          []models.Person{person},
		DeleteTransactions: []string{id},
	})
	if err != nil {
		return err
	}

	l.logger.Debug("Transaction deleted", "transaction_id", id, "person_id", person.ID)
	return nil
}

// applyBalance is the balance-update step shared by all transaction mutations.
func applyBalance(p *models.Person, contribution decimal.Decimal, now time.Time) {
	p.Balance = p.Balance.Add(contribution)
	p.LastUpdated = now
	p.Status = calculator.StatusFor(p.Balance)
}

// calendarDay keeps only the UTC date of t. Transactions are dated by day.
func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateTransaction(t models.Transaction) error {
	if t.PersonID == "" {
		return invalid("person_id", "must not be empty")
	}
	if !t.Type.Valid() {
		return invalid("type", fmt.Sprintf("must be debit or credit, got %q", t.Type))
	}
	if !t.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if !t.Amount.Equal(t.Amount.Round(2)) {
		return invalid("amount", "must not have more than two decimal places")
	}
	if t.Description == "" {
		return invalid("description", "must not be empty")
	}
	if t.Date.IsZero() {
		return invalid("date", "must be set")
	}
	if !t.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown status %q", t.Status))
	}
	return nil
}

// commit persists change and then mirrors it in memory.
// Callers must hold l.mu.
func (l *Ledger) commit(ctx context.Context, change *storage.Change) error {
	if l.closed {
		return ErrClosed
	}
	if l.journal != nil {
		if err := l.journal.Apply(ctx, change); err != nil {
			return fmt.Errorf("failed to persist ledger change: %w", err)
		}
	}

	for _, id := range change.DeleteTransactions {
		l.removeTransaction(id)
	}
	for _, id := range change.DeletePeople {
		for _, txnID := range append([]string(nil), l.txnOrder...) {
			if l.txns[txnID].PersonID == id {
				l.removeTransaction(txnID)
			}
		}
		delete(l.people, id)
		l.peopleOrder = removeID(l.peopleOrder, id)
	}
	for _, p := range change.PutPeople {
		if _, ok := l.people[p.ID]; !ok {
			l.peopleOrder = append(l.peopleOrder, p.ID)
		}
		l.people[p.ID] = p
	}
	for _, t := range change.PutTransactions {
		if _, ok := l.txns[t.ID]; !ok {
			l.txnOrder = append(l.txnOrder, t.ID)
		}
		l.txns[t.ID] = t
	}
	return nil
}

func (l *Ledger) removeTransaction(id string) {
	if _, ok := l.txns[id]; !ok {
		return
	}
	delete(l.txns, id)
	l.txnOrder = removeID(l.txnOrder, id)
}

func (l *Ledger) hasTransactions(personID string) bool {
	for _, t := range l.txns {
		if t.PersonID == personID {
			return true
		}
	}
	return false
}

// transactionsLocked returns the transactions in insertion order.
// Callers must hold l.mu or own the ledger exclusively.
func (l *Ledger) transactionsLocked() []models.Transaction {
	out := make([]models.Transaction, 0, len(l.txnOrder))
	for _, id := range l.txnOrder {
		out = append(out, l.txns[id])
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// close makes every later mutation fail with ErrClosed. Reads keep working
// on the last state.
func (l *Ledger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}
