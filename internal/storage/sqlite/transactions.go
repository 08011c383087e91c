package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const transactionColumns = `t.id, t.payer, t.amount, t.split_kind, t.split_values, t.description,
	t.group_id, t.settled, t.created_at, t.created_by`

// CreateTransaction persists a new transaction with its ordered participants.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	kind := models.SplitKindOf(txn.Split)
	var values any
	if kind != models.SplitEqual {
		encoded, err := json.Marshal(models.SplitValuesOf(txn.Split))
		if err != nil {
			return fmt.Errorf("failed to encode split values: %w", err)
		}
		values = string(encoded)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (payer, amount, split_kind, split_values, description, group_id, settled, created_at, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.Payer, txn.Amount, kind.String(), values, txn.Description,
			nullString(txn.GroupID), txn.Settled, txn.CreatedAt, txn.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read transaction ID: %w", err)
		}

		for i, name := range txn.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO transaction_participants (transaction_id, position, name) VALUES (?, ?, ?)",
				id, i, name,
			)
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}

		txn.ID = id
		return nil
	})
}

// GetTransaction retrieves a transaction by ID, including its participants.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	txns, err := queryTransactions(ctx, s.db, "WHERE t.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, storage.ErrNotFound
	}
	return txns[0], nil
}

// DeleteTransaction removes a transaction. Participants cascade.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListTransactions returns transactions matching filter in ID order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Person != "" {
		conds = append(conds, `(t.payer = ? OR EXISTS (
			SELECT 1 FROM transaction_participants p WHERE p.transaction_id = t.id AND p.name = ?))`)
		args = append(args, filter.Person, filter.Person)
	}
	if filter.GroupID != "" {
		conds = append(conds, "t.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.MinAmount != 0 {
		conds = append(conds, "t.amount >= ?")
		args = append(args, filter.MinAmount)
	}
	if filter.MaxAmount != 0 {
		conds = append(conds, "t.amount <= ?")
		args = append(args, filter.MaxAmount)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return queryTransactions(ctx, s.db, where, args...)
}

// queryTransactions loads transactions matching where, then their participants.
// Rows are fully drained before the second query so a single connection suffices.
func queryTransactions(ctx context.Context, q querier, where string, args ...any) ([]*models.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions t "+where+" ORDER BY t.id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var (
		txns []*models.Transaction
		byID = make(map[int64]*models.Transaction)
	)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		txns = append(txns, txn)
		byID[txn.ID] = txn
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	if len(txns) == 0 {
		return nil, nil
	}

	ids := make([]any, len(txns))
	for i, txn := range txns {
		ids[i] = txn.ID
	}
	prows, err := q.QueryContext(ctx,
		`SELECT transaction_id, name FROM transaction_participants
		 WHERE transaction_id IN (`+placeholders(len(ids))+`)
		 ORDER BY transaction_id, position`,
		ids...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			id   int64
			name string
		)
		if err := prows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if txn, ok := byID[id]; ok {
			txn.Participants = append(txn.Participants, name)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return txns, nil
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var (
		txn     models.Transaction
		kind    string
		values  sql.NullString
		groupID sql.NullString
	)
	if err := rows.Scan(&txn.ID, &txn.Payer, &txn.Amount, &kind, &values, &txn.Description,
		&groupID, &txn.Settled, &txn.CreatedAt, &txn.CreatedBy); err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	txn.GroupID = groupID.String

	splitKind, err := models.ParseSplitKind(kind)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", txn.ID, err)
	}
	var weights []float64
	if values.Valid {
		if err := json.Unmarshal([]byte(values.String), &weights); err != nil {
			return nil, fmt.Errorf("failed to decode split values of transaction %d: %w", txn.ID, err)
		}
	}
	if txn.Split, err = models.NewSplit(splitKind, weights); err != nil {
		return nil, fmt.Errorf("transaction %d: %w", txn.ID, err)
	}
	return &txn, nil
}

// errNoRows maps sql.ErrNoRows to storage.ErrNotFound.
func errNoRows(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
