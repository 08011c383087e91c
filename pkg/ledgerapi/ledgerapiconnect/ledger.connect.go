// Package ledgerapiconnect wires the ledgerapi messages to Connect handlers and clients.
// Every handler and client installs ledgerapi.Codec.
package ledgerapiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "splitledger.v1.LedgerService"
)

// Fully-qualified procedure names of LedgerService RPCs, usable as HTTP paths.
const (
	LedgerServiceAddTransactionProcedure    = "/splitledger.v1.LedgerService/AddTransaction"
	LedgerServiceGetTransactionProcedure    = "/splitledger.v1.LedgerService/GetTransaction"
	LedgerServiceDeleteTransactionProcedure = "/splitledger.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/splitledger.v1.LedgerService/ListTransactions"
	LedgerServiceGetBalancesProcedure       = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementPlanProcedure = "/splitledger.v1.LedgerService/GetSettlementPlan"
	LedgerServiceRecordSettlementProcedure  = "/splitledger.v1.LedgerService/RecordSettlement"
	LedgerServiceListSettlementsProcedure   = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceGetPersonalViewProcedure   = "/splitledger.v1.LedgerService/GetPersonalView"
)

// LedgerServiceClient is a client for the splitledger.v1.LedgerService service.
type LedgerServiceClient interface {
	AddTransaction(context.Context, *connect.Request[ledgerapi.AddTransactionRequest]) (*connect.Response[ledgerapi.AddTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[ledgerapi.GetTransactionRequest]) (*connect.Response[ledgerapi.GetTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[ledgerapi.DeleteTransactionRequest]) (*connect.Response[ledgerapi.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ledgerapi.ListTransactionsRequest]) (*connect.Response[ledgerapi.ListTransactionsResponse], error)
	GetBalances(context.Context, *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[ledgerapi.GetSettlementPlanRequest]) (*connect.Response[ledgerapi.GetSettlementPlanResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error)
	GetPersonalView(context.Context, *connect.Request[ledgerapi.GetPersonalViewRequest]) (*connect.Response[ledgerapi.GetPersonalViewResponse], error)
}

// NewLedgerServiceClient constructs a client for the splitledger.v1.LedgerService service.
// The baseURL should include the scheme and host, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		addTransaction:    connect.NewClient[ledgerapi.AddTransactionRequest, ledgerapi.AddTransactionResponse](httpClient, baseURL+LedgerServiceAddTransactionProcedure, opts...),
		getTransaction:    connect.NewClient[ledgerapi.GetTransactionRequest, ledgerapi.GetTransactionResponse](httpClient, baseURL+LedgerServiceGetTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[ledgerapi.DeleteTransactionRequest, ledgerapi.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[ledgerapi.ListTransactionsRequest, ledgerapi.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		getBalances:       connect.NewClient[ledgerapi.GetBalancesRequest, ledgerapi.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlementPlan: connect.NewClient[ledgerapi.GetSettlementPlanRequest, ledgerapi.GetSettlementPlanResponse](httpClient, baseURL+LedgerServiceGetSettlementPlanProcedure, opts...),
		recordSettlement:  connect.NewClient[ledgerapi.RecordSettlementRequest, ledgerapi.RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		listSettlements:   connect.NewClient[ledgerapi.ListSettlementsRequest, ledgerapi.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getPersonalView:   connect.NewClient[ledgerapi.GetPersonalViewRequest, ledgerapi.GetPersonalViewResponse](httpClient, baseURL+LedgerServiceGetPersonalViewProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	addTransaction    *connect.Client[ledgerapi.AddTransactionRequest, ledgerapi.AddTransactionResponse]
	getTransaction    *connect.Client[ledgerapi.GetTransactionRequest, ledgerapi.GetTransactionResponse]
	deleteTransaction *connect.Client[ledgerapi.DeleteTransactionRequest, ledgerapi.DeleteTransactionResponse]
	listTransactions  *connect.Client[ledgerapi.ListTransactionsRequest, ledgerapi.ListTransactionsResponse]
	getBalances       *connect.Client[ledgerapi.GetBalancesRequest, ledgerapi.GetBalancesResponse]
	getSettlementPlan *connect.Client[ledgerapi.GetSettlementPlanRequest, ledgerapi.GetSettlementPlanResponse]
	recordSettlement  *connect.Client[ledgerapi.RecordSettlementRequest, ledgerapi.RecordSettlementResponse]
	listSettlements   *connect.Client[ledgerapi.ListSettlementsRequest, ledgerapi.ListSettlementsResponse]
	getPersonalView   *connect.Client[ledgerapi.GetPersonalViewRequest, ledgerapi.GetPersonalViewResponse]
}

func (c *ledgerServiceClient) AddTransaction(ctx context.Context, req *connect.Request[ledgerapi.AddTransactionRequest]) (*connect.Response[ledgerapi.AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetTransaction(ctx context.Context, req *connect.Request[ledgerapi.GetTransactionRequest]) (*connect.Response[ledgerapi.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[ledgerapi.DeleteTransactionRequest]) (*connect.Response[ledgerapi.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ledgerapi.ListTransactionsRequest]) (*connect.Response[ledgerapi.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[ledgerapi.GetSettlementPlanRequest]) (*connect.Response[ledgerapi.GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetPersonalView(ctx context.Context, req *connect.Request[ledgerapi.GetPersonalViewRequest]) (*connect.Response[ledgerapi.GetPersonalViewResponse], error) {
	return c.getPersonalView.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the splitledger.v1.LedgerService service.
type LedgerServiceHandler interface {
	AddTransaction(context.Context, *connect.Request[ledgerapi.AddTransactionRequest]) (*connect.Response[ledgerapi.AddTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[ledgerapi.GetTransactionRequest]) (*connect.Response[ledgerapi.GetTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[ledgerapi.DeleteTransactionRequest]) (*connect.Response[ledgerapi.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ledgerapi.ListTransactionsRequest]) (*connect.Response[ledgerapi.ListTransactionsResponse], error)
	GetBalances(context.Context, *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[ledgerapi.GetSettlementPlanRequest]) (*connect.Response[ledgerapi.GetSettlementPlanResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error)
	GetPersonalView(context.Context, *connect.Request[ledgerapi.GetPersonalViewRequest]) (*connect.Response[ledgerapi.GetPersonalViewResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	addTransaction := connect.NewUnaryHandler(LedgerServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	getTransaction := connect.NewUnaryHandler(LedgerServiceGetTransactionProcedure, svc.GetTransaction, opts...)
	deleteTransaction := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	listTransactions := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	getSettlementPlan := connect.NewUnaryHandler(LedgerServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...)
	recordSettlement := connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)
	listSettlements := connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	getPersonalView := connect.NewUnaryHandler(LedgerServiceGetPersonalViewProcedure, svc.GetPersonalView, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddTransactionProcedure:
			addTransaction.ServeHTTP(w, r)
		case LedgerServiceGetTransactionProcedure:
			getTransaction.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransaction.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactions.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceGetSettlementPlanProcedure:
			getSettlementPlan.ServeHTTP(w, r)
		case LedgerServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		case LedgerServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		case LedgerServiceGetPersonalViewProcedure:
			getPersonalView.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) AddTransaction(context.Context, *connect.Request[ledgerapi.AddTransactionRequest]) (*connect.Response[ledgerapi.AddTransactionResponse], error) {
	return nil, unimplemented("AddTransaction")
}

func (UnimplementedLedgerServiceHandler) GetTransaction(context.Context, *connect.Request[ledgerapi.GetTransactionRequest]) (*connect.Response[ledgerapi.GetTransactionResponse], error) {
	return nil, unimplemented("GetTransaction")
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[ledgerapi.DeleteTransactionRequest]) (*connect.Response[ledgerapi.DeleteTransactionResponse], error) {
	return nil, unimplemented("DeleteTransaction")
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[ledgerapi.ListTransactionsRequest]) (*connect.Response[ledgerapi.ListTransactionsResponse], error) {
	return nil, unimplemented("ListTransactions")
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error) {
	return nil, unimplemented("GetBalances")
}

func (UnimplementedLedgerServiceHandler) GetSettlementPlan(context.Context, *connect.Request[ledgerapi.GetSettlementPlanRequest]) (*connect.Response[ledgerapi.GetSettlementPlanResponse], error) {
	return nil, unimplemented("GetSettlementPlan")
}

func (UnimplementedLedgerServiceHandler) RecordSettlement(context.Context, *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	return nil, unimplemented("RecordSettlement")
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	return nil, unimplemented("ListSettlements")
}

func (UnimplementedLedgerServiceHandler) GetPersonalView(context.Context, *connect.Request[ledgerapi.GetPersonalViewRequest]) (*connect.Response[ledgerapi.GetPersonalViewResponse], error) {
	return nil, unimplemented("GetPersonalView")
}

func unimplemented(method string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(method+" is not implemented"))
}
