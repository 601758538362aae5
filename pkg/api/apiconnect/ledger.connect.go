// Package apiconnect wires the debty.v1 services to Connect: procedure
// names, typed clients and HTTP handlers over the api message types.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/pkg/api"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "debty.v1.LedgerService"
)

// Procedure names of LedgerService, used as HTTP paths and in
// connect.Spec.Procedure.
const (
	LedgerServiceAddPersonProcedure         = "/debty.v1.LedgerService/AddPerson"
	LedgerServiceUpdatePersonProcedure      = "/debty.v1.LedgerService/UpdatePerson"
	LedgerServiceDeletePersonProcedure      = "/debty.v1.LedgerService/DeletePerson"
	LedgerServiceGetPersonProcedure         = "/debty.v1.LedgerService/GetPerson"
	LedgerServiceListPeopleProcedure        = "/debty.v1.LedgerService/ListPeople"
	LedgerServiceAddTransactionProcedure    = "/debty.v1.LedgerService/AddTransaction"
	LedgerServiceUpdateTransactionProcedure = "/debty.v1.LedgerService/UpdateTransaction"
	LedgerServiceDeleteTransactionProcedure = "/debty.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/debty.v1.LedgerService/ListTransactions"
	LedgerServiceGetSummaryProcedure        = "/debty.v1.LedgerService/GetSummary"
	LedgerServiceExportStatementProcedure   = "/debty.v1.LedgerService/ExportStatement"
)

// LedgerServiceClient is a client for the debty.v1.LedgerService service.
type LedgerServiceClient interface {
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	UpdatePerson(context.Context, *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error)
	DeletePerson(context.Context, *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error)
	GetPerson(context.Context, *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error)
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	ExportStatement(context.Context, *connect.Request[api.ExportStatementRequest]) (*connect.Response[api.ExportStatementResponse], error)
}

// NewLedgerServiceClient constructs a client for the debty.v1.LedgerService
// service. It always speaks the JSON codec; opts may add interceptors or
// switch protocols.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		addPerson:         connect.NewClient[api.AddPersonRequest, api.AddPersonResponse](httpClient, baseURL+LedgerServiceAddPersonProcedure, opts...),
		updatePerson:      connect.NewClient[api.UpdatePersonRequest, api.UpdatePersonResponse](httpClient, baseURL+LedgerServiceUpdatePersonProcedure, opts...),
		deletePerson:      connect.NewClient[api.DeletePersonRequest, api.DeletePersonResponse](httpClient, baseURL+LedgerServiceDeletePersonProcedure, opts...),
		getPerson:         connect.NewClient[api.GetPersonRequest, api.GetPersonResponse](httpClient, baseURL+LedgerServiceGetPersonProcedure, opts...),
		listPeople:        connect.NewClient[api.ListPeopleRequest, api.ListPeopleResponse](httpClient, baseURL+LedgerServiceListPeopleProcedure, opts...),
		addTransaction:    connect.NewClient[api.AddTransactionRequest, api.AddTransactionResponse](httpClient, baseURL+LedgerServiceAddTransactionProcedure, opts...),
		updateTransaction: connect.NewClient[api.UpdateTransactionRequest, api.UpdateTransactionResponse](httpClient, baseURL+LedgerServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		getSummary:        connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
		exportStatement:   connect.NewClient[api.ExportStatementRequest, api.ExportStatementResponse](httpClient, baseURL+LedgerServiceExportStatementProcedure, opts...),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	addPerson         *connect.Client[api.AddPersonRequest, api.AddPersonResponse]
	updatePerson      *connect.Client[api.UpdatePersonRequest, api.UpdatePersonResponse]
	deletePerson      *connect.Client[api.DeletePersonRequest, api.DeletePersonResponse]
	getPerson         *connect.Client[api.GetPersonRequest, api.GetPersonResponse]
	listPeople        *connect.Client[api.ListPeopleRequest, api.ListPeopleResponse]
	addTransaction    *connect.Client[api.AddTransactionRequest, api.AddTransactionResponse]
	updateTransaction *connect.Client[api.UpdateTransactionRequest, api.UpdateTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	getSummary        *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	exportStatement   *connect.Client[api.ExportStatementRequest, api.ExportStatementResponse]
}

func (c *ledgerServiceClient) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdatePerson(ctx context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	return c.updatePerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePerson(ctx context.Context, req *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	return c.deletePerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPerson(ctx context.Context, req *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error) {
	return c.getPerson.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	return c.listPeople.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ExportStatement(ctx context.Context, req *connect.Request[api.ExportStatementRequest]) (*connect.Response[api.ExportStatementResponse], error) {
	return c.exportStatement.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the debty.v1.LedgerService service.
type LedgerServiceHandler interface {
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error)
	UpdatePerson(context.Context, *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error)
	DeletePerson(context.Context, *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error)
	GetPerson(context.Context, *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error)
	ListPeople(context.Context, *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error)
	AddTransaction(context.Context, *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error)
	UpdateTransaction(context.Context, *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	ExportStatement(context.Context, *connect.Request[api.ExportStatementRequest]) (*connect.Response[api.ExportStatementResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and
// the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	readOnly := append([]connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)

	addPerson := connect.NewUnaryHandler(LedgerServiceAddPersonProcedure, svc.AddPerson, opts...)
	updatePerson := connect.NewUnaryHandler(LedgerServiceUpdatePersonProcedure, svc.UpdatePerson, opts...)
	deletePerson := connect.NewUnaryHandler(LedgerServiceDeletePersonProcedure, svc.DeletePerson, opts...)
	getPerson := connect.NewUnaryHandler(LedgerServiceGetPersonProcedure, svc.GetPerson, readOnly...)
	listPeople := connect.NewUnaryHandler(LedgerServiceListPeopleProcedure, svc.ListPeople, readOnly...)
	addTransaction := connect.NewUnaryHandler(LedgerServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	updateTransaction := connect.NewUnaryHandler(LedgerServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...)
	deleteTransaction := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	listTransactions := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, readOnly...)
	getSummary := connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, readOnly...)
	exportStatement := connect.NewUnaryHandler(LedgerServiceExportStatementProcedure, svc.ExportStatement, readOnly...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddPersonProcedure:
			addPerson.ServeHTTP(w, r)
		case LedgerServiceUpdatePersonProcedure:
			updatePerson.ServeHTTP(w, r)
		case LedgerServiceDeletePersonProcedure:
			deletePerson.ServeHTTP(w, r)
		case LedgerServiceGetPersonProcedure:
			getPerson.ServeHTTP(w, r)
		case LedgerServiceListPeopleProcedure:
			listPeople.ServeHTTP(w, r)
		case LedgerServiceAddTransactionProcedure:
			addTransaction.ServeHTTP(w, r)
		case LedgerServiceUpdateTransactionProcedure:
			updateTransaction.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransaction.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactions.ServeHTTP(w, r)
		case LedgerServiceGetSummaryProcedure:
			getSummary.ServeHTTP(w, r)
		case LedgerServiceExportStatementProcedure:
			exportStatement.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
