package service

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/export"
	"github.com/debty-app/debty/internal/ledger"
	"github.com/debty-app/debty/internal/middleware"
	"github.com/debty-app/debty/internal/models"
	"github.com/debty-app/debty/pkg/api"
	"github.com/debty-app/debty/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService on top of the
// authenticated user's ledger.
type LedgerService struct {
	books  *ledger.Books
	logger *slog.Logger
	now    func() time.Time
}

// NewLedgerService creates a LedgerService backed by books.
func NewLedgerService(books *ledger.Books, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		books:  books,
		logger: logger,
		now:    time.Now,
	}
}

// ledgerFor returns the ledger of the user set by the auth interceptor.
func (s *LedgerService) ledgerFor(ctx context.Context) (*ledger.Ledger, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	l, err := s.books.For(ctx, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to open ledger", err, "user_id", userID)
	}
	return l, nil
}

// AddPerson creates a person with a zero balance.
func (s *LedgerService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	person, err := l.AddPerson(ctx, req.Msg.Name, req.Msg.Phone)
	if err != nil {
		return nil, toConnectError(s.logger, "AddPerson failed", err)
	}

	s.logger.Info("Person added", "person_id", person.ID)
	return connect.NewResponse(&api.AddPersonResponse{Person: toAPIPerson(person)}), nil
}

// UpdatePerson edits a person's name, phone or status.
func (s *LedgerService) UpdatePerson(ctx context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	person, err := l.UpdatePerson(ctx, req.Msg.ID, toPersonPatch(req.Msg))
	if err != nil {
		return nil, toConnectError(s.logger, "UpdatePerson failed", err, "person_id", req.Msg.ID)
	}

	s.logger.Info("Person updated", "person_id", person.ID)
	return connect.NewResponse(&api.UpdatePersonResponse{Person: toAPIPerson(person)}), nil
}

// DeletePerson removes a person together with their transactions.
func (s *LedgerService) DeletePerson(ctx context.Context, req *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	removed, err := l.DeletePerson(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, "DeletePerson failed", err, "person_id", req.Msg.ID)
	}

	s.logger.Info("Person deleted", "person_id", req.Msg.ID, "transactions_removed", removed)
	return connect.NewResponse(&api.DeletePersonResponse{TransactionsRemoved: removed}), nil
}

// GetPerson returns one person.
func (s *LedgerService) GetPerson(ctx context.Context, req *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	person, err := l.Person(req.Msg.ID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetPerson failed", err, "person_id", req.Msg.ID)
	}

	return connect.NewResponse(&api.GetPersonResponse{Person: toAPIPerson(person)}), nil
}

// ListPeople searches, filters and sorts the people list.
func (s *LedgerService) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	people, err := l.People(ledger.PeopleQuery{
		Search:     req.Msg.Search,
		Status:     models.Status(req.Msg.Status),
		Sort:       toPeopleSort(req.Msg.Sort),
		Descending: req.Msg.Descending,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "ListPeople failed", err)
	}

	s.logger.Debug("ListPeople successful", "count", len(people))
	return connect.NewResponse(&api.ListPeopleResponse{People: toAPIPeople(people)}), nil
}

// AddTransaction records a debit or credit and returns the updated person.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Msg.Date)
	if err != nil {
		return nil, toConnectError(s.logger, "AddTransaction failed", err)
	}

	txn, err := l.AddTransaction(ctx, ledger.NewTransaction{
		PersonID:       req.Msg.PersonID,
		Type:           models.TxnType(req.Msg.Type),
		Amount:         req.Msg.Amount,
		Description:    req.Msg.Description,
		Date:           date,
		Status:         models.Status(req.Msg.Status),
		Note:           req.Msg.Note,
		AttachmentURL:  req.Msg.AttachmentURL,
		AttachmentName: req.Msg.AttachmentName,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "AddTransaction failed", err, "person_id", req.Msg.PersonID)
	}

	person, err := l.Person(txn.PersonID)
	if err != nil {
		return nil, toConnectError(s.logger, "AddTransaction failed", err, "person_id", txn.PersonID)
	}

	s.logger.Info("Transaction added",
		"transaction_id", txn.ID,
		"person_id", txn.PersonID,
		"type", txn.Type,
	)
	return connect.NewResponse(&api.AddTransactionResponse{
		Transaction: toAPITransaction(txn),
		Person:      toAPIPerson(person),
	}), nil
}

// UpdateTransaction edits a transaction, moving its balance effect as needed.
func (s *LedgerService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	patch, err := toTransactionPatch(req.Msg)
	if err != nil {
		return nil, toConnectError(s.logger, "UpdateTransaction failed", err, "transaction_id", req.Msg.ID)
	}

	txn, err := l.UpdateTransaction(ctx, req.Msg.ID, patch)
	if err != nil {
		return nil, toConnectError(s.logger, "UpdateTransaction failed", err, "transaction_id", req.Msg.ID)
	}

	s.logger.Info("Transaction updated", "transaction_id", txn.ID)
	return connect.NewResponse(&api.UpdateTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// DeleteTransaction removes a transaction and reverses its effect.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.DeleteTransaction(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(s.logger, "DeleteTransaction failed", err, "transaction_id", req.Msg.ID)
	}

	s.logger.Info("Transaction deleted", "transaction_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions filters the transaction history, newest first by default.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	from, err := parseDate("from", req.Msg.From)
	if err != nil {
		return nil, toConnectError(s.logger, "ListTransactions failed", err)
	}
	to, err := parseDate("to", req.Msg.To)
	if err != nil {
		return nil, toConnectError(s.logger, "ListTransactions failed", err)
	}

	txns, err := l.Transactions(ledger.TransactionQuery{
		PersonID:    req.Msg.PersonID,
		Type:        models.TxnType(req.Msg.Type),
		Status:      models.Status(req.Msg.Status),
		From:        from,
		To:          to,
		Search:      req.Msg.Search,
		OldestFirst: req.Msg.OldestFirst,
		Limit:       req.Msg.Limit,
	})
	if err != nil {
		return nil, toConnectError(s.logger, "ListTransactions failed", err)
	}

	s.logger.Debug("ListTransactions successful", "count", len(txns))
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPITransactions(txns)}), nil
}

// GetSummary returns the dashboard totals.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	summary := l.Summary()

	return connect.NewResponse(&api.GetSummaryResponse{Summary: &api.Summary{
		TotalOwedToMe: summary.TotalOwedToMe,
		TotalIOwe:     summary.TotalIOwe,
		NetBalance:    summary.NetBalance,
		PeopleCount:   summary.PeopleCount,
	}}), nil
}

// ExportStatement renders one person's statement as CSV.
func (s *LedgerService) ExportStatement(ctx context.Context, req *connect.Request[api.ExportStatementRequest]) (*connect.Response[api.ExportStatementResponse], error) {
	l, err := s.ledgerFor(ctx)
	if err != nil {
		return nil, err
	}

	st, err := l.Statement(req.Msg.PersonID)
	if err != nil {
		return nil, toConnectError(s.logger, "ExportStatement failed", err, "person_id", req.Msg.PersonID)
	}

	now := s.now()
	var buf bytes.Buffer
	if err := export.WriteStatement(&buf, st, now); err != nil {
		return nil, toConnectError(s.logger, "ExportStatement failed", err, "person_id", req.Msg.PersonID)
	}

	s.logger.Info("Statement exported", "person_id", st.Person.ID, "transactions", len(st.Transactions))
	return connect.NewResponse(&api.ExportStatementResponse{
		Filename:    export.Filename(st.Person.Name, now),
		ContentType: export.ContentType,
		Content:     buf.String(),
	}), nil
}
