package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// memberBalances folds the current records of a group (all records when
// groupID is empty) into per-person balances.
func (s *LedgerService) memberBalances(ctx context.Context, groupID string) ([]calculator.MemberBalance, error) {
	if groupID != "" {
		if _, err := s.store.GetGroup(ctx, groupID); err != nil {
			return nil, storeError(err)
		}
	}

	snap, err := s.store.Snapshot(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}

	members, err := calculator.CalculateMemberBalances(snap.Transactions, snap.Settlements, groupID)
	if err != nil {
		// Stored transactions were validated on write.
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	metrics.BalanceCalculations.WithLabelValues(metrics.Scope(groupID)).Inc()
	return members, nil
}

func netBalances(members []calculator.MemberBalance) calculator.NetBalance {
	net := make(calculator.NetBalance, len(members))
	for _, m := range members {
		net[m.MemberName] = m.NetBalance
	}
	return net
}

// GetBalances returns every person's balance, sorted by name.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	members, err := s.memberBalances(ctx, groupID)
	if err != nil {
		slog.Error("GetBalances failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("GetBalances successful", "group_id", groupID, "members_count", len(members))

	return connect.NewResponse(&ledgerapi.GetBalancesResponse{
		Balances:   toAPIBalances(members),
		AllSettled: allSettled(members),
	}), nil
}

// GetSettlementPlan suggests payments that clear all balances.
func (s *LedgerService) GetSettlementPlan(ctx context.Context, req *connect.Request[ledgerapi.GetSettlementPlanRequest]) (*connect.Response[ledgerapi.GetSettlementPlanResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetSettlementPlan request received", "group_id", groupID)

	members, err := s.memberBalances(ctx, groupID)
	if err != nil {
		slog.Error("GetSettlementPlan failed", "group_id", groupID, "error", err)
		return nil, err
	}

	plan := calculator.MinimizeSettlements(netBalances(members))
	metrics.SettlementPlanPayments.Observe(float64(len(plan.Payments)))

	resp := &ledgerapi.GetSettlementPlanResponse{
		Payments:   make([]*ledgerapi.Payment, len(plan.Payments)),
		AllSettled: allSettled(members),
	}
	for i, p := range plan.Payments {
		resp.Payments[i] = &ledgerapi.Payment{From: p.From, To: p.To, Amount: p.Amount}
	}
	if plan.Warning != nil {
		metrics.ConsistencyWarnings.Inc()
		resp.Warning = plan.Warning.Error()
		slog.Warn("Settlement plan is incomplete",
			"group_id", groupID,
			"residual", plan.Warning.Residual(),
			"warning", resp.Warning,
		)
	}

	slog.Info("GetSettlementPlan successful", "group_id", groupID, "payments_count", len(plan.Payments))

	return connect.NewResponse(resp), nil
}

// RecordSettlement records a repayment from one person to another.
// Advisories are returned alongside the result; a settlement larger than what is
// outstanding between the two is refused unless the request confirms it.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	msg := req.Msg
	from := strings.TrimSpace(msg.From)
	to := strings.TrimSpace(msg.To)
	slog.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"from", from,
		"to", to,
		"amount", msg.Amount,
		"confirm", msg.Confirm,
	)

	switch {
	case from == "" || to == "":
		return nil, invalidArgument("both from and to are required")
	case from == to:
		return nil, invalidArgument("%s cannot settle with themselves", from)
	case msg.Amount <= 0 || math.IsNaN(msg.Amount) || math.IsInf(msg.Amount, 0):
		return nil, invalidArgument("amount must be a positive number, got %v", msg.Amount)
	}

	before, err := s.memberBalances(ctx, msg.GroupID)
	if err != nil {
		slog.Error("RecordSettlement failed - could not compute balances", "group_id", msg.GroupID, "error", err)
		return nil, err
	}

	advisories := calculator.ReviewSettlement(netBalances(before), from, to, msg.Amount)
	blocked := false
	for _, a := range advisories {
		metrics.SettlementAdvisories.WithLabelValues(string(a.Kind)).Inc()
		if a.RequiresConfirmation() {
			blocked = true
		}
	}
	if blocked && !msg.Confirm {
		slog.Warn("RecordSettlement needs confirmation", "from", from, "to", to, "amount", msg.Amount)
		return nil, advisoryError(advisories)
	}

	settlement := &models.Settlement{
		GroupID:    msg.GroupID,
		FromUserID: from,
		ToUserID:   to,
		Amount:     msg.Amount,
		Note:       strings.TrimSpace(msg.Note),
		CreatedBy:  middleware.GetUserID(ctx),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed - could not save", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"advisories_count", len(advisories),
	)

	s.publish(ctx, events.New(events.TypeSettlementRecorded, settlement.GroupID, events.SettlementData{
		SettlementID: settlement.ID,
		From:         from,
		To:           to,
		Amount:       settlement.Amount,
		Overridden:   blocked,
	}))

	after, err := s.memberBalances(ctx, msg.GroupID)
	if err != nil {
		slog.Error("RecordSettlement failed - could not recompute balances", "group_id", msg.GroupID, "error", err)
		return nil, err
	}

	resp := &ledgerapi.RecordSettlementResponse{
		Settlement: toAPISettlement(settlement),
		Balances:   toAPIBalances(after),
		AllSettled: allSettled(after),
	}
	for _, a := range advisories {
		resp.Advisories = append(resp.Advisories, &ledgerapi.Advisory{Kind: string(a.Kind), Message: a.Message})
	}

	return connect.NewResponse(resp), nil
}

// ListSettlements returns the settlement history in the order it was recorded.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	settlements, err := s.store.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*ledgerapi.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}

	slog.Info("ListSettlements successful", "count", len(out))

	return connect.NewResponse(&ledgerapi.ListSettlementsResponse{Settlements: out}), nil
}

// GetPersonalView lists a person's transactions with their share of each and
// their balance across all groups and personal expenses.
func (s *LedgerService) GetPersonalView(ctx context.Context, req *connect.Request[ledgerapi.GetPersonalViewRequest]) (*connect.Response[ledgerapi.GetPersonalViewResponse], error) {
	person := strings.TrimSpace(req.Msg.Person)
	slog.Info("GetPersonalView request received", "person", person)

	if person == "" {
		return nil, invalidArgument("person is required")
	}

	snap, err := s.store.Snapshot(ctx, "")
	if err != nil {
		slog.Error("GetPersonalView failed", "person", person, "error", err)
		return nil, storeError(err)
	}

	names, err := s.groupNames(ctx)
	if err != nil {
		slog.Error("GetPersonalView failed - could not load groups", "error", err)
		return nil, storeError(err)
	}

	var entries []*ledgerapi.PersonalEntry
	for _, txn := range snap.Transactions {
		if !txn.Involves(person) {
			continue
		}
		share, _, err := calculator.ShareOf(txn, person)
		if err != nil {
			slog.Error("GetPersonalView failed - bad stored split", "transaction_id", txn.ID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("transaction %d: %w", txn.ID, err))
		}
		entries = append(entries, &ledgerapi.PersonalEntry{
			TransactionID: txn.ID,
			Description:   txn.Description,
			Payer:         txn.Payer,
			Amount:        txn.Amount,
			Share:         share,
			Paid:          txn.Payer == person,
			GroupName:     names[txn.GroupID],
		})
	}

	net, err := calculator.CalculateNetBalances(snap.Transactions, snap.Settlements, "")
	if err != nil {
		var se *calculator.SplitError
		if errors.As(err, &se) {
			slog.Error("GetPersonalView failed - bad stored split", "transaction_id", se.TransactionID, "error", err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	metrics.BalanceCalculations.WithLabelValues(metrics.Scope("")).Inc()

	balance := net[person]

	slog.Info("GetPersonalView successful", "person", person, "entries_count", len(entries))

	return connect.NewResponse(&ledgerapi.GetPersonalViewResponse{
		Person:     person,
		NetBalance: balance,
		Status:     string(calculator.StatusOf(balance)),
		Entries:    entries,
	}), nil
}
