// Package api defines the messages of the debty.v1 Connect services.
//
// Messages are plain structs encoded as JSON (see apiconnect.Codec).
// Field names follow the lowerCamelCase JSON convention used by the web
// client. Money is a decimal string, e.g. "125.50". Transaction dates are
// calendar dates ("2006-01-02"); RFC 3339 timestamps are accepted on input.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of Transaction.Date.
const DateLayout = time.DateOnly

// Person is a counterparty with a running balance.
type Person struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Balance decimal.Decimal `json:"balance"`
	// Status is pending, paid or partial.
	Status string `json:"status"`
	// Direction is owes_me, i_owe or settled.
	Direction   string    `json:"direction"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Transaction is a single debit or credit against a Person.
type Transaction struct {
	ID             string          `json:"id"`
	PersonID       string          `json:"personId"`
	PersonName     string          `json:"personName"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Status         string          `json:"status"`
	Note           string          `json:"note,omitempty"`
	AttachmentURL  string          `json:"attachmentUrl,omitempty"`
	AttachmentName string          `json:"attachmentName,omitempty"`
}

// Summary is the dashboard aggregate over all people.
type Summary struct {
	TotalOwedToMe decimal.Decimal `json:"totalOwedToMe"`
	TotalIOwe     decimal.Decimal `json:"totalIOwe"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	PeopleCount   int             `json:"peopleCount"`
}

// User is the signed-in account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LedgerService messages.

type AddPersonRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type AddPersonResponse struct {
	Person *Person `json:"person"`
}

// UpdatePersonRequest changes only the fields that are set.
type UpdatePersonRequest struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}

type UpdatePersonResponse struct {
	Person *Person `json:"person"`
}

type DeletePersonRequest struct {
	ID string `json:"id"`
}

type DeletePersonResponse struct {
	TransactionsRemoved int `json:"transactionsRemoved"`
}

type GetPersonRequest struct {
	ID string `json:"id"`
}

type GetPersonResponse struct {
	Person *Person `json:"person"`
}

type ListPeopleRequest struct {
	Search string `json:"search,omitempty"`
	Status string `json:"status,omitempty"`
	// Sort is name, phone, balance, lastUpdated or createdAt.
	Sort       string `json:"sort,omitempty"`
	Descending bool   `json:"descending,omitempty"`
}

type ListPeopleResponse struct {
	People []*Person `json:"people"`
}

type AddTransactionRequest struct {
	PersonID       string          `json:"personId"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Status         string          `json:"status,omitempty"`
	Note           string          `json:"note,omitempty"`
	AttachmentURL  string          `json:"attachmentUrl,omitempty"`
	AttachmentName string          `json:"attachmentName,omitempty"`
}

// AddTransactionResponse carries the person as well, since their balance changed.
type AddTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
	Person      *Person      `json:"person"`
}

// UpdateTransactionRequest changes only the fields that are set.
type UpdateTransactionRequest struct {
	ID             string           `json:"id"`
	PersonID       *string          `json:"personId,omitempty"`
	Type           *string          `json:"type,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Date           *string          `json:"date,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Note           *string          `json:"note,omitempty"`
	AttachmentURL  *string          `json:"attachmentUrl,omitempty"`
	AttachmentName *string          `json:"attachmentName,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	ID string `json:"id"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct {
	PersonID    string `json:"personId,omitempty"`
	Type        string `json:"type,omitempty"`
	Status      string `json:"status,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Search      string `json:"search,omitempty"`
	OldestFirst bool   `json:"oldestFirst,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}

type ExportStatementRequest struct {
	PersonID string `json:"personId"`
}

type ExportStatementResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// AuthService messages.

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
