// Package storage provides abstractions for ledger data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique key (group name, user email) is taken.
	ErrDuplicate = errors.New("record already exists")
)

// TransactionFilter narrows ListTransactions. Zero values match everything.
type TransactionFilter struct {
	// Person matches transactions where the person paid or participates.
	Person string

	// GroupID matches transactions of one group.
	GroupID string

	// MinAmount and MaxAmount bound the amount, inclusive. Zero means unbounded.
	MinAmount float64
	MaxAmount float64
}

// Match reports whether txn passes the filter.
func (f TransactionFilter) Match(txn *models.Transaction) bool {
	if f.Person != "" && !txn.Involves(f.Person) {
		return false
	}
	if f.GroupID != "" && txn.GroupID != f.GroupID {
		return false
	}
	if f.MinAmount != 0 && txn.Amount < f.MinAmount {
		return false
	}
	if f.MaxAmount != 0 && txn.Amount > f.MaxAmount {
		return false
	}
	return true
}

// Snapshot is a consistent read of the records needed for one balance calculation.
type Snapshot struct {
	Transactions []models.Transaction
	Settlements  []models.Settlement
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (memory, SQLite, bbolt)
// without changing the service layer.
type Store interface {
	// CreateTransaction persists a new transaction.
	// The store assigns txn.ID (monotonically increasing) and CreatedAt if unset.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)

	// DeleteTransaction removes a transaction. Returns ErrNotFound if absent.
	DeleteTransaction(ctx context.Context, id int64) error

	// ListTransactions returns matching transactions in ID order.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error)

	// CreateSettlement persists a new settlement, assigning ID and CreatedAt if unset.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns settlements of a group in creation order.
	// An empty groupID returns all settlements.
	ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Snapshot reads transactions and settlements of a group (all when empty)
	// as of a single point in time.
	Snapshot(ctx context.Context, groupID string) (*Snapshot, error)

	// CreateGroup persists a new group. Returns ErrDuplicate if the name is taken.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByName retrieves a group by its unique name.
	GetGroupByName(ctx context.Context, name string) (*models.Group, error)

	// ListGroups returns all groups ordered by name.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers adds members to a group, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// DeleteGroup removes a group. Its transactions and settlements become personal.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateUser persists a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
