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

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
			group.ID, group.Name, group.CreatedAt,
		)
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertMembers(ctx, tx, group.ID, 0, group.Members)
	})
}

// GetGroup retrieves a group by ID, including members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id = ?", groupID)
}

// GetGroupByName retrieves a group by its unique name.
func (s *SQLiteStore) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	return s.getGroup(ctx, "name = ?", name)
}

func (s *SQLiteStore) getGroup(ctx context.Context, cond string, arg any) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE "+cond,
		arg,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err != nil {
		return nil, errNoRows(err, "group")
	}

	members, err := s.groupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

// ListGroups retrieves all groups ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = s.groupMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMembers appends members not already in the group.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, members []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?",
			groupID,
		).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to read member position: %w", err)
		}

		var exists bool
		err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM groups WHERE id = ?)", groupID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check group: %w", err)
		}
		if !exists {
			return storage.ErrNotFound
		}

		return insertMembers(ctx, tx, groupID, next, members)
	})
}

// DeleteGroup removes a group. Its transactions and settlements lose their group.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, "UPDATE transactions SET group_id = NULL WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to detach transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE settlements SET group_id = NULL WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to detach settlements: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// insertMembers adds members starting at position pos, skipping ones already present.
func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, pos int, members []string) error {
	for _, name := range members {
		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, position, name) VALUES (?, ?, ?)",
			groupID, pos, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			pos++
		}
	}
	return nil
}
