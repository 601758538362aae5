// Package calculator holds the pure balance arithmetic of the ledger.
//
// The polarity used throughout Debty is defined here and nowhere else:
// a credit increases what the counterparty owes the user, a debit
// decreases it. Positive balances are owed to the user, negative balances
// are owed by the user.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/debty-app/debty/internal/models"
)

// Direction describes which side of the ledger a balance sits on.
type Direction string

const (
	OwesMe  Direction = "owes_me" // Counterparty owes the user
	IOwe    Direction = "i_owe"   // User owes the counterparty
	Settled Direction = "settled" // Nothing outstanding
)

// Contribution returns the signed effect of a transaction on a balance.
//
//	credit → +amount
//	debit  → -amount
func Contribution(txnType models.TxnType, amount decimal.Decimal) decimal.Decimal {
	if txnType == models.TxnDebit {
		return amount.Neg()
	}
	return amount
}

// DirectionOf classifies a balance for display.
func DirectionOf(balance decimal.Decimal) Direction {
	switch balance.Sign() {
	case 1:
		return OwesMe
	case -1:
		return IOwe
	default:
		return Settled
	}
}

// StatusFor derives a person's status after a balance change.
// Zero balances are paid, everything else goes back to pending;
// "partial" is never derived from a balance.
func StatusFor(balance decimal.Decimal) models.Status {
	if balance.IsZero() {
		return models.StatusPaid
	}
	return models.StatusPending
}

// Summarize computes the balance summary over people.
//
// Algorithm:
// - positive balance: adds to TotalOwedToMe
// - negative balance: its magnitude adds to TotalIOwe
// - NetBalance = TotalOwedToMe - TotalIOwe, which always equals the
// signed sum of all balances
func Summarize(people []models.Person) models.BalanceSummary {
	owedToMe := decimal.Zero
	iOwe := decimal.Zero

	for _, p := range people {
		switch DirectionOf(p.Balance) {
		case OwesMe:
			owedToMe = owedToMe.Add(p.Balance)
		case IOwe:
			iOwe = iOwe.Add(p.Balance.Abs())
		}
	}

	return models.BalanceSummary{
		TotalOwedToMe: owedToMe,
		TotalIOwe:     iOwe,
		NetBalance:    owedToMe.Sub(iOwe),
		PeopleCount:   len(people),
	}
}

// BalanceOf recomputes a balance from scratch out of the given
// transactions, counting only those that belong to personID.
func BalanceOf(personID string, txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.PersonID != personID {
			continue
		}
		total = total.Add(Contribution(t.Type, t.Amount))
	}
	return total
}
