// Package models defines the core domain models for Debty.
//
// # Ledger Models
//
//   - Person: someone the user owes money to or who owes the user
//   - Transaction: a debit or credit logged against one Person
//   - BalanceSummary: the derived totals across all People
//
// # Account Models
//
//   - User: a registered account; every ledger is owned by exactly one user
//
// # Design Principles
//
// 1. **Money is exact**: amounts and balances are decimal.Decimal, never float64
// 2. **Sign lives in the type**: Transaction.Amount is a positive magnitude,
// the debit/credit Type decides the direction
// 3. **IDs, not pointers**: relationships use ID strings
// 4. **Explicit patches**: partial updates go through PersonPatch and
// TransactionPatch instead of whole-struct replacement
package models
