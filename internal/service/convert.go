package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/debty-app/debty/internal/calculator"
	"github.com/debty-app/debty/internal/ledger"
	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/pkg/api"
)

func toAPIPerson(p models.Person) *api.Person {
	return &api.Person{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Balance:     p.Balance,
		Status:      string(p.Status),
		Direction:   string(calculator.DirectionOf(p.Balance)),
		LastUpdated: p.LastUpdated,
		CreatedAt:   p.CreatedAt,
	}
}

func toAPIPeople(people []models.Person) []*api.Person {
	out := make([]*api.Person, len(people))
	for i, p := range people {
		out[i] = toAPIPerson(p)
	}
	return out
}

func toAPITransaction(t models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:             t.ID,
		PersonID:       t.PersonID,
		PersonName:     t.PersonName,
		Type:           string(t.Type),
		Amount:         t.Amount,
		Description:    t.Description,
		Date:           t.Date.Format(api.DateLayout),
		Status:         string(t.Status),
		Note:           t.Note,
		AttachmentURL:  t.AttachmentURL,
		AttachmentName: t.AttachmentName,
	}
}

func toAPITransactions(txns []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Dates are
// kept at midnight UTC so they compare and sort consistently.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse(api.DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected YYYY-MM-DD or RFC 3339, got %q", value),
		}
	}
	return ts.UTC(), nil
}

// peopleSorts maps wire sort names to ledger sort fields. The ledger's own
// names are accepted too.
var peopleSorts = map[string]ledger.PeopleSort{
	"lastUpdated": ledger.SortByLastUpdated,
	"createdAt":   ledger.SortByCreatedAt,
}

func toPeopleSort(s string) ledger.PeopleSort {
	if sort, ok := peopleSorts[s]; ok {
		return sort
	}
	return ledger.PeopleSort(s)
}

func toPersonPatch(req *api.UpdatePersonRequest) models.PersonPatch {
	patch := models.PersonPatch{Name: req.Name, Phone: req.Phone}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	return patch
}

func toTransactionPatch(req *api.UpdateTransactionRequest) (models.TransactionPatch, error) {
	patch := models.TransactionPatch{
		PersonID:       req.PersonID,
		Amount:         req.Amount,
		Description:    req.Description,
		Note:           req.Note,
		AttachmentURL:  req.AttachmentURL,
		AttachmentName: req.AttachmentName,
	}
	if req.Type != nil {
		typ := models.TxnType(*req.Type)
		patch.Type = &typ
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return models.TransactionPatch{}, err
		}
		// An explicit empty date clears it, which the ledger rejects.
		patch.Date = &date
	}
	return patch, nil
}
