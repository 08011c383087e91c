package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		store, err := New(filepath.Join(t.TempDir(), "ledger.db"))
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		return store
	})
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	first := &models.Transaction{Payer: "A", Amount: 10, Participants: []string{"A", "B"}}
	if err := store.CreateTransaction(ctx, first); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	second := &models.Transaction{Payer: "B", Amount: 5, Participants: []string{"A", "B"}}
	if err := store.CreateTransaction(ctx, second); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("sequence restarted: first=%d second=%d", first.ID, second.ID)
	}

	txns, err := store.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txns) != 2 {
		t.Errorf("got %d transactions after reopen, want 2", len(txns))
	}
}

func TestCanceledContext(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ListGroups(ctx); err == nil {
		t.Error("expected an error for a canceled context")
	}
}

func TestItobOrdersNumerically(t *testing.T) {
	if string(itob(2)) >= string(itob(10)) {
		t.Error("itob(2) should sort before itob(10)")
	}
}
