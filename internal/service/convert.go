package service

import (
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func toAPITransaction(txn *models.Transaction, groupName string) *ledgerapi.Transaction {
	return &ledgerapi.Transaction{
		ID:           txn.ID,
		Payer:        txn.Payer,
		Amount:       txn.Amount,
		Participants: txn.Participants,
		SplitType:    models.SplitKindOf(txn.Split).String(),
		SplitValues:  models.SplitValuesOf(txn.Split),
		Description:  txn.Description,
		GroupID:      txn.GroupID,
		GroupName:    groupName,
		Settled:      txn.Settled,
		CreatedAt:    txn.CreatedAt,
		CreatedBy:    txn.CreatedBy,
	}
}

func toAPISettlement(s *models.Settlement) *ledgerapi.Settlement {
	return &ledgerapi.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		From:      s.FromUserID,
		To:        s.ToUserID,
		Amount:    s.Amount,
		Note:      s.Note,
		CreatedAt: s.CreatedAt,
		CreatedBy: s.CreatedBy,
	}
}

func toAPIBalances(members []calculator.MemberBalance) []*ledgerapi.MemberBalance {
	out := make([]*ledgerapi.MemberBalance, len(members))
	for i, m := range members {
		out[i] = &ledgerapi.MemberBalance{
			MemberName: m.MemberName,
			NetBalance: m.NetBalance,
			TotalPaid:  m.TotalPaid,
			TotalOwed:  m.TotalOwed,
			Status:     string(m.Status()),
		}
	}
	return out
}

func toAPIGroup(g *models.Group) *ledgerapi.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &ledgerapi.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIUser(u *models.User) *ledgerapi.User {
	return &ledgerapi.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// allSettled reports whether every member is within tolerance of zero.
func allSettled(members []calculator.MemberBalance) bool {
	for _, m := range members {
		if !calculator.IsSettled(m.NetBalance) {
			return false
		}
	}
	return true
}

// storeError maps storage sentinels to Connect codes.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// splitError reports a transaction whose shares cannot be computed. The
// transaction ID and reason travel as a structured error detail.
func splitError(err error) *connect.Error {
	cerr := connect.NewError(connect.CodeInvalidArgument, err)

	var se *calculator.SplitError
	if !errors.As(err, &se) {
		return cerr
	}

	fields, ferr := structpb.NewStruct(map[string]any{
		"transaction_id": se.TransactionID,
		"reason":         se.Reason,
	})
	if ferr != nil {
		slog.Error("Failed to build split error detail", "error", ferr)
		return cerr
	}
	detail, derr := connect.NewErrorDetail(fields)
	if derr != nil {
		slog.Error("Failed to attach split error detail", "error", derr)
		return cerr
	}
	cerr.AddDetail(detail)
	return cerr
}

// advisoryError blocks a settlement until the caller confirms it.
func advisoryError(advisories []calculator.Advisory) *connect.Error {
	var blocking calculator.Advisory
	kinds := make([]any, 0, len(advisories))
	for _, a := range advisories {
		kinds = append(kinds, string(a.Kind))
		if a.RequiresConfirmation() {
			blocking = a
		}
	}

	cerr := connect.NewError(connect.CodeFailedPrecondition,
		fmt.Errorf("%s; resend with confirm to record it anyway", blocking.Message))

	fields, err := structpb.NewStruct(map[string]any{
		"advisories": kinds,
		"reason":     blocking.Message,
	})
	if err == nil {
		if detail, err := connect.NewErrorDetail(fields); err == nil {
			cerr.AddDetail(detail)
		}
	}
	return cerr
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
