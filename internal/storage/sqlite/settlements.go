package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, created_at, created_by, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, nullString(settlement.GroupID), settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, settlement.CreatedAt, settlement.CreatedBy, nullString(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// ListSettlements retrieves settlements in the order they were recorded.
// An empty groupID returns every settlement.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return querySettlements(ctx, s.db, groupID)
}

// Snapshot reads transactions and settlements inside one database transaction.
func (s *SQLiteStore) Snapshot(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		where, args := "", []any(nil)
		if groupID != "" {
			where, args = "WHERE t.group_id = ?", []any{groupID}
		}
		txns, err := queryTransactions(ctx, tx, where, args...)
		if err != nil {
			return err
		}
		settlements, err := querySettlements(ctx, tx, groupID)
		if err != nil {
			return err
		}

		for _, txn := range txns {
			snap.Transactions = append(snap.Transactions, *txn)
		}
		for _, st := range settlements {
			snap.Settlements = append(snap.Settlements, *st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func querySettlements(ctx context.Context, q querier, groupID string) ([]*models.Settlement, error) {
	query := `SELECT id, group_id, from_user_id, to_user_id, amount, created_at, created_by, note
		FROM settlements`
	var args []any
	if groupID != "" {
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	}
	query += " ORDER BY rowid"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var group, note sql.NullString

		if err := rows.Scan(&settlement.ID, &group, &settlement.FromUserID, &settlement.ToUserID,
			&settlement.Amount, &settlement.CreatedAt, &settlement.CreatedBy, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.GroupID = group.String
		settlement.Note = note.String

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
