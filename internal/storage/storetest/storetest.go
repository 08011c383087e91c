// Package storetest holds behaviour checks shared by every storage.Store backend.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Run exercises a backend against the storage.Store contract.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CreateAndGetTransaction", testCreateAndGetTransaction},
		{"TransactionIDsIncrease", testTransactionIDsIncrease},
		{"GetTransactionNotFound", testGetTransactionNotFound},
		{"DeleteTransaction", testDeleteTransaction},
		{"ListTransactionsFilter", testListTransactionsFilter},
		{"Settlements", testSettlements},
		{"Snapshot", testSnapshot},
		{"Groups", testGroups},
		{"DeleteGroupKeepsRecords", testDeleteGroupKeepsRecords},
		{"Users", testUsers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func testCreateAndGetTransaction(t *testing.T, s storage.Store) {
	ctx := context.Background()

	txn := &models.Transaction{
		Payer:        "Alice",
		Amount:       90,
		Participants: []string{"Alice", "Bob", "Charlie"},
		Split:        models.WeightedSplit{Weights: []float64{1, 2, 3}},
		Description:  "Groceries",
		CreatedBy:    "user-1",
	}
	if err := s.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if txn.ID == 0 {
		t.Fatal("expected transaction ID to be assigned")
	}
	if txn.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	got, err := s.GetTransaction(ctx, txn.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.Payer != "Alice" || got.Amount != 90 || got.Description != "Groceries" {
		t.Errorf("unexpected transaction: %+v", got)
	}
	if got.CreatedBy != "user-1" {
		t.Errorf("CreatedBy = %q, want user-1", got.CreatedBy)
	}
	if len(got.Participants) != 3 || got.Participants[0] != "Alice" || got.Participants[2] != "Charlie" {
		t.Errorf("participants order not preserved: %v", got.Participants)
	}
	weighted, ok := got.Split.(models.WeightedSplit)
	if !ok {
		t.Fatalf("split = %T, want models.WeightedSplit", got.Split)
	}
	if len(weighted.Weights) != 3 || weighted.Weights[2] != 3 {
		t.Errorf("weights = %v, want [1 2 3]", weighted.Weights)
	}

	// Equal splits may come back as nil or EqualSplit
	eq := &models.Transaction{Payer: "Bob", Amount: 10, Participants: []string{"Bob"}}
	if err := s.CreateTransaction(ctx, eq); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	got, err = s.GetTransaction(ctx, eq.ID)
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if models.SplitKindOf(got.Split) != models.SplitEqual {
		t.Errorf("split kind = %v, want equal", models.SplitKindOf(got.Split))
	}
}

func testTransactionIDsIncrease(t *testing.T, s storage.Store) {
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		txn := &models.Transaction{Payer: "A", Amount: float64(i + 1), Participants: []string{"A", "B"}}
		if err := s.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if txn.ID <= last {
			t.Fatalf("ID %d not greater than previous %d", txn.ID, last)
		}
		last = txn.ID
	}

	// IDs are not reused after a delete
	if err := s.DeleteTransaction(ctx, last); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	txn := &models.Transaction{Payer: "A", Amount: 1, Participants: []string{"A"}}
	if err := s.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if txn.ID <= last {
		t.Errorf("ID %d reused or decreased after delete of %d", txn.ID, last)
	}
}

func testGetTransactionNotFound(t *testing.T, s storage.Store) {
	_, err := s.GetTransaction(context.Background(), 999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testDeleteTransaction(t *testing.T, s storage.Store) {
	ctx := context.Background()

	txn := &models.Transaction{Payer: "A", Amount: 5, Participants: []string{"A", "B"}}
	if err := s.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if err := s.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := s.GetTransaction(ctx, txn.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, txn.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func testListTransactionsFilter(t *testing.T, s storage.Store) {
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"A", "B"}}
	if err := s.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	fixtures := []*models.Transaction{
		{Payer: "A", Amount: 10, Participants: []string{"A", "B"}, GroupID: group.ID},
		{Payer: "B", Amount: 50, Participants: []string{"B", "C"}},
		{Payer: "C", Amount: 200, Participants: []string{"C", "D"}},
	}
	for _, txn := range fixtures {
		if err := s.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filter  storage.TransactionFilter
		wantIDs []int64
	}{
		{"no filter", storage.TransactionFilter{}, []int64{fixtures[0].ID, fixtures[1].ID, fixtures[2].ID}},
		{"by person", storage.TransactionFilter{Person: "B"}, []int64{fixtures[0].ID, fixtures[1].ID}},
		{"by group", storage.TransactionFilter{GroupID: group.ID}, []int64{fixtures[0].ID}},
		{"min amount", storage.TransactionFilter{MinAmount: 50}, []int64{fixtures[1].ID, fixtures[2].ID}},
		{"amount range", storage.TransactionFilter{MinAmount: 20, MaxAmount: 100}, []int64{fixtures[1].ID}},
		{"no match", storage.TransactionFilter{Person: "Zed"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("transaction[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func testSettlements(t *testing.T, s storage.Store) {
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"A", "B"}}
	if err := s.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	first := &models.Settlement{GroupID: group.ID, FromUserID: "B", ToUserID: "A", Amount: 25, CreatedBy: "user-1", Note: "cash"}
	second := &models.Settlement{FromUserID: "C", ToUserID: "A", Amount: 5, CreatedBy: "user-1"}
	for _, st := range []*models.Settlement{first, second} {
		if err := s.CreateSettlement(ctx, st); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if st.ID == "" {
			t.Error("expected settlement ID to be assigned")
		}
	}

	all, err := s.ListSettlements(ctx, "")
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d settlements, want 2", len(all))
	}

	grouped, err := s.ListSettlements(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("got %d group settlements, want 1", len(grouped))
	}
	got := grouped[0]
	if got.FromUserID != "B" || got.ToUserID != "A" || got.Amount != 25 || got.Note != "cash" {
		t.Errorf("unexpected settlement: %+v", got)
	}
}

func testSnapshot(t *testing.T, s storage.Store) {
	ctx := context.Background()

	group := &models.Group{Name: "Snap", Members: []string{"A", "B"}}
	if err := s.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, txn := range []*models.Transaction{
		{Payer: "A", Amount: 10, Participants: []string{"A", "B"}, GroupID: group.ID},
		{Payer: "B", Amount: 20, Participants: []string{"B", "C"}},
	} {
		if err := s.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}
	if err := s.CreateSettlement(ctx, &models.Settlement{GroupID: group.ID, FromUserID: "B", ToUserID: "A", Amount: 5}); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	all, err := s.Snapshot(ctx, "")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(all.Transactions) != 2 || len(all.Settlements) != 1 {
		t.Errorf("snapshot has %d transactions and %d settlements, want 2 and 1",
			len(all.Transactions), len(all.Settlements))
	}
	if len(all.Transactions) == 2 && all.Transactions[0].ID > all.Transactions[1].ID {
		t.Error("snapshot transactions not in ID order")
	}

	scoped, err := s.Snapshot(ctx, group.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(scoped.Transactions) != 1 || scoped.Transactions[0].Payer != "A" {
		t.Errorf("unexpected group snapshot transactions: %+v", scoped.Transactions)
	}
	if len(scoped.Settlements) != 1 {
		t.Errorf("got %d group settlements, want 1", len(scoped.Settlements))
	}
}

func testGroups(t *testing.T, s storage.Store) {
	ctx := context.Background()

	group := &models.Group{Name: "Roommates", Members: []string{"Alice", "Bob"}}
	if err := s.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Fatal("expected group ID to be assigned")
	}

	if err := s.CreateGroup(ctx, &models.Group{Name: "Roommates"}); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a taken name, got %v", err)
	}

	if err := s.AddGroupMembers(ctx, group.ID, []string{"Bob", "Charlie"}); err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}

	got, err := s.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Members) != 3 || !got.HasMember("Charlie") {
		t.Errorf("members = %v, want Alice, Bob and Charlie", got.Members)
	}

	byName, err := s.GetGroupByName(ctx, "Roommates")
	if err != nil {
		t.Fatalf("GetGroupByName failed: %v", err)
	}
	if byName.ID != group.ID {
		t.Errorf("GetGroupByName returned %s, want %s", byName.ID, group.ID)
	}

	if err := s.CreateGroup(ctx, &models.Group{Name: "Office"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groups, err := s.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Office" || groups[1].Name != "Roommates" {
		t.Errorf("ListGroups not ordered by name: %+v", groups)
	}

	if _, err := s.GetGroup(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetGroupByName(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.AddGroupMembers(ctx, "missing", []string{"X"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testDeleteGroupKeepsRecords(t *testing.T, s storage.Store) {
	ctx := context.Background()

	group := &models.Group{Name: "Temp", Members: []string{"A", "B"}}
	if err := s.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	txn := &models.Transaction{Payer: "A", Amount: 10, Participants: []string{"A", "B"}, GroupID: group.ID}
	if err := s.CreateTransaction(ctx, txn); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := s.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := s.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	got, err := s.GetTransaction(ctx, txn.ID)
	if err != nil {
		t.Fatalf("transaction should survive group deletion: %v", err)
	}
	if got.GroupID != "" {
		t.Errorf("GroupID = %q, want empty after group deletion", got.GroupID)
	}
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := s.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash")); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a taken email, got %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.DisplayName != "Alice" || byEmail.PasswordHash != "hash" {
		t.Errorf("unexpected user: %+v", byEmail)
	}

	byID, err := s.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", byID.Email)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
