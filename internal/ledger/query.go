package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/debty-app/debty/internal/calculator"
	"github.com/debty-app/debty/internal/models"
)

// PeopleSort names the field people are ordered by.
type PeopleSort string

const (
	SortByName        PeopleSort = "name"
	SortByPhone       PeopleSort = "phone"
	SortByBalance     PeopleSort = "balance"
	SortByLastUpdated PeopleSort = "last_updated"
	SortByCreatedAt   PeopleSort = "created_at"
)

// PeopleQuery filters and orders the people list.
type PeopleQuery struct {
	// Search matches a case-insensitive substring of the name or a
	// substring of the phone number.
	Search string
	// Status keeps only people with this status. Empty keeps everyone.
	Status models.Status
	// Sort defaults to SortByName.
	Sort       PeopleSort
	Descending bool
}

// TransactionQuery filters and orders the transaction list.
type TransactionQuery struct {
	PersonID string
	Type     models.TxnType
	Status   models.Status
	// From and To bound the transaction date, both inclusive. Only their
	// UTC calendar day counts. Zero values leave the bound open.
	From time.Time
	To   time.Time
	// Search matches a case-insensitive substring of the description
	// or the person name snapshot.
	Search string
	// OldestFirst flips the default newest-first date order.
	OldestFirst bool
	// Limit caps the result size. Zero means no limit.
	Limit int
}

// Statement is one person with all of their transactions, oldest first.
type Statement struct {
	Person       models.Person
	Direction    calculator.Direction
	Transactions []models.Transaction
}

// Person returns a copy of the person with the given ID.
func (l *Ledger) Person(id string) (models.Person, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.people[id]
	if !ok {
		return models.Person{}, personNotFound(id)
	}
	return p, nil
}

// Transaction returns a copy of the transaction with the given ID.
func (l *Ledger) Transaction(id string) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.txns[id]
	if !ok {
		return models.Transaction{}, transactionNotFound(id)
	}
	return t, nil
}

// People lists people matching q.
func (l *Ledger) People(q PeopleQuery) ([]models.Person, error) {
	if q.Sort == "" {
		q.Sort = SortByName
	}
	compare, ok := peopleComparators[q.Sort]
	if !ok {
		return nil, invalid("sort", fmt.Sprintf("unknown sort field %q", q.Sort))
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", q.Status))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Person, 0, len(l.people))
	for _, id := range l.peopleOrder {
		p := l.people[id]
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(p.Phone, search) {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b models.Person) int {
		if q.Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out, nil
}

var peopleComparators = map[PeopleSort]func(a, b models.Person) int{
	SortByName: func(a, b models.Person) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	SortByPhone:       func(a, b models.Person) int { return strings.Compare(a.Phone, b.Phone) },
	SortByBalance:     func(a, b models.Person) int { return a.Balance.Cmp(b.Balance) },
	SortByLastUpdated: func(a, b models.Person) int { return a.LastUpdated.Compare(b.LastUpdated) },
	SortByCreatedAt:   func(a, b models.Person) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// Transactions lists transactions matching q, newest first unless
// q.OldestFirst is set.
func (l *Ledger) Transactions(q TransactionQuery) ([]models.Transaction, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, invalid("type", fmt.Sprintf("must be debit or credit, got %q", q.Type))
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", q.Status))
	}
	if q.Limit < 0 {
		return nil, invalid("limit", "must not be negative")
	}
	q.From, q.To = calendarDay(q.From), calendarDay(q.To)
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, invalid("to", "must not be before from")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if q.PersonID != "" {
		if _, ok := l.people[q.PersonID]; !ok {
			return nil, personNotFound(q.PersonID)
		}
	}
	return l.queryTransactionsLocked(q), nil
}

func (l *Ledger) queryTransactionsLocked(q TransactionQuery) []models.Transaction {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var out []models.Transaction
	for _, t := range l.transactionsLocked() {
		if q.PersonID != "" && t.PersonID != q.PersonID {
			continue
		}
		if q.Type != "" && t.Type != q.Type {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if !q.From.IsZero() && t.Date.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && t.Date.After(q.To) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.PersonName), search) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		if q.OldestFirst {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Summary derives the balance summary from the current people.
func (l *Ledger) Summary() models.BalanceSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	people := make([]models.Person, 0, len(l.people))
	for _, id := range l.peopleOrder {
		people = append(people, l.people[id])
	}
	return calculator.Summarize(people)
}

// Statement returns the person and their transactions, oldest first.
func (l *Ledger) Statement(personID string) (Statement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	person, ok := l.people[personID]
	if !ok {
		return Statement{}, personNotFound(personID)
	}
	return Statement{
		Person:       person,
		Direction:    calculator.DirectionOf(person.Balance),
		Transactions: l.queryTransactionsLocked(TransactionQuery{PersonID: personID, OldestFirst: true}),
	}, nil
}
