package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

// LedgerService implements the Connect LedgerService: transactions, balances,
// settlement plans and recorded settlements over a single shared ledger.
type LedgerService struct {
	ledgerapiconnect.UnimplementedLedgerServiceHandler
	store     storage.Store
	publisher events.Publisher
}

// NewLedgerService creates a LedgerService. A nil publisher drops events.
func NewLedgerService(store storage.Store, publisher events.Publisher) *LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LedgerService{store: store, publisher: publisher}
}

// AddTransaction validates and records an expense.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[ledgerapi.AddTransactionRequest]) (*connect.Response[ledgerapi.AddTransactionResponse], error) {
	slog.Info("AddTransaction request received",
		"payer", req.Msg.Payer,
		"amount", req.Msg.Amount,
		"participants_count", len(req.Msg.Participants),
		"split_type", req.Msg.SplitType,
		"group_name", req.Msg.GroupName,
	)

	txn, err := buildTransaction(req.Msg)
	if err != nil {
		slog.Error("AddTransaction failed - invalid request", "error", err)
		return nil, err
	}

	// Run the split once so unusable policies never reach the store.
	if _, err := calculator.Shares(*txn); err != nil {
		slog.Error("AddTransaction failed - invalid split", "error", err)
		return nil, splitError(err)
	}
	if pct, ok := txn.Split.(models.PercentageSplit); ok {
		if sum := sumOf(pct.Percentages); math.Abs(sum-100) > calculator.Tolerance {
			slog.Debug("Percentages do not sum to 100", "sum", sum, "payer", txn.Payer)
		}
	}

	var groupName string
	if name := strings.TrimSpace(req.Msg.GroupName); name != "" {
		group, err := s.ensureGroup(ctx, name, txn.Participants)
		if err != nil {
			slog.Error("AddTransaction failed - could not register group", "group_name", name, "error", err)
			return nil, storeError(err)
		}
		txn.GroupID = group.ID
		groupName = group.Name
	}

	txn.CreatedBy = middleware.GetUserID(ctx)
	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		slog.Error("AddTransaction failed - could not save", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Transaction recorded", "transaction_id", txn.ID, "group_id", txn.GroupID)

	s.publish(ctx, events.New(events.TypeTransactionCreated, txn.GroupID, events.TransactionData{
		TransactionID: txn.ID,
		Payer:         txn.Payer,
		Amount:        txn.Amount,
		Participants:  txn.Participants,
		SplitType:     models.SplitKindOf(txn.Split).String(),
	}))

	return connect.NewResponse(&ledgerapi.AddTransactionResponse{
		Transaction: toAPITransaction(txn, groupName),
	}), nil
}

// buildTransaction turns a request into a transaction: trimmed names, the payer
// appended to the participants when missing, and a parsed split.
func buildTransaction(msg *ledgerapi.AddTransactionRequest) (*models.Transaction, error) {
	payer := strings.TrimSpace(msg.Payer)
	if payer == "" {
		return nil, invalidArgument("payer is required")
	}
	if msg.Amount <= 0 || math.IsNaN(msg.Amount) || math.IsInf(msg.Amount, 0) {
		return nil, invalidArgument("amount must be a positive number, got %v", msg.Amount)
	}

	kind, err := models.ParseSplitKind(msg.SplitType)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	participants, err := normalizeParticipants(msg.Participants, payer, kind != models.SplitEqual)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	for _, v := range msg.SplitValues {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidArgument("split values must be non-negative numbers, got %v", v)
		}
	}
	split, err := models.NewSplit(kind, msg.SplitValues)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return &models.Transaction{
		Payer:        payer,
		Amount:       msg.Amount,
		Participants: participants,
		Split:        split,
		Description:  strings.TrimSpace(msg.Description),
	}, nil
}

// normalizeParticipants cleans the names with uniqueNames, then appends the payer
// if absent. Duplicates would shift the alignment of per-participant split
// values, so they are rejected when aligned is set.
func normalizeParticipants(names []string, payer string, aligned bool) ([]string, error) {
	out, err := uniqueNames(names, aligned)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(out, payer) {
		out = append(out, payer)
	}
	return out, nil
}

// uniqueNames trims names and drops blanks. Repeated names are merged, or
// reported as an error when strict is set.
func uniqueNames(names []string, strict bool) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names)+1)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if seen[name] {
			if strict {
				return nil, fmt.Errorf("participant %q is listed twice", name)
			}
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// ensureGroup returns the group called name, creating it when missing, and
// makes sure every member belongs to it.
func (s *LedgerService) ensureGroup(ctx context.Context, name string, members []string) (*models.Group, error) {
	group, err := s.store.GetGroupByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		group = &models.Group{Name: name, Members: members}
		err = s.store.CreateGroup(ctx, group)
		if err == nil {
			slog.Info("Group registered", "group_id", group.ID, "name", name)
			return group, nil
		}
		if errors.Is(err, storage.ErrDuplicate) {
			// Created concurrently; use the winner.
			group, err = s.store.GetGroupByName(ctx, name)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, members); err != nil {
		return nil, fmt.Errorf("failed to add members to group %s: %w", group.ID, err)
	}
	return group, nil
}

// GetTransaction returns one transaction.
func (s *LedgerService) GetTransaction(ctx context.Context, req *connect.Request[ledgerapi.GetTransactionRequest]) (*connect.Response[ledgerapi.GetTransactionResponse], error) {
	slog.Info("GetTransaction request received", "transaction_id", req.Msg.ID)

	txn, err := s.store.GetTransaction(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}

	var groupName string
	if txn.GroupID != "" {
		group, err := s.store.GetGroup(ctx, txn.GroupID)
		if err != nil {
			slog.Error("GetTransaction failed - could not load group", "group_id", txn.GroupID, "error", err)
			return nil, storeError(err)
		}
		groupName = group.Name
	}

	return connect.NewResponse(&ledgerapi.GetTransactionResponse{
		Transaction: toAPITransaction(txn, groupName),
	}), nil
}

// DeleteTransaction removes a transaction. Balances no longer include it.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[ledgerapi.DeleteTransactionRequest]) (*connect.Response[ledgerapi.DeleteTransactionResponse], error) {
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.ID)

	txn, err := s.store.GetTransaction(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}
	if err := s.store.DeleteTransaction(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteTransaction failed", "transaction_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Transaction deleted", "transaction_id", req.Msg.ID)

	s.publish(ctx, events.New(events.TypeTransactionDeleted, txn.GroupID, events.TransactionData{
		TransactionID: txn.ID,
	}))

	return connect.NewResponse(&ledgerapi.DeleteTransactionResponse{}), nil
}

// ListTransactions searches transactions by person, group and amount range.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[ledgerapi.ListTransactionsRequest]) (*connect.Response[ledgerapi.ListTransactionsResponse], error) {
	msg := req.Msg
	slog.Info("ListTransactions request received",
		"person", msg.Person,
		"group_id", msg.GroupID,
		"min_amount", msg.MinAmount,
		"max_amount", msg.MaxAmount,
	)

	if msg.MinAmount < 0 || msg.MaxAmount < 0 {
		return nil, invalidArgument("amount bounds must not be negative")
	}
	if msg.MinAmount != 0 && msg.MaxAmount != 0 && msg.MinAmount > msg.MaxAmount {
		return nil, invalidArgument("min_amount %.2f is greater than max_amount %.2f", msg.MinAmount, msg.MaxAmount)
	}

	txns, err := s.store.ListTransactions(ctx, storage.TransactionFilter{
		Person:    strings.TrimSpace(msg.Person),
		GroupID:   msg.GroupID,
		MinAmount: msg.MinAmount,
		MaxAmount: msg.MaxAmount,
	})
	if err != nil {
		slog.Error("ListTransactions failed", "error", err)
		return nil, storeError(err)
	}

	names, err := s.groupNames(ctx)
	if err != nil {
		slog.Error("ListTransactions failed - could not load groups", "error", err)
		return nil, storeError(err)
	}

	out := make([]*ledgerapi.Transaction, len(txns))
	for i, txn := range txns {
		out[i] = toAPITransaction(txn, names[txn.GroupID])
	}

	slog.Info("ListTransactions successful", "count", len(out))

	return connect.NewResponse(&ledgerapi.ListTransactionsResponse{Transactions: out}), nil
}

// groupNames maps group IDs to names.
func (s *LedgerService) groupNames(ctx context.Context) (map[string]string, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

// publish sends an event. Failures are logged and counted, never returned.
func (s *LedgerService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(event.Type).Inc()
		slog.Warn("Failed to publish event", "type", event.Type, "event_id", event.ID, "error", err)
	}
}

func sumOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}
