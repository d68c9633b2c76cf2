package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateGroup persists a new group and its members.
// The caller decides whether this runs inside a transaction; use
// Store.WithTx to make the header and members atomic.
func (q *queries) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := q.exec(ctx,
		`INSERT INTO ledger_groups (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		group.ID, group.Name, nullable(group.Description), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return q.AddGroupMembers(ctx, group.ID, group.Members)
}

// GetGroup retrieves a group by ID, including its members.
func (q *queries) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString
	err := q.queryRow(ctx,
		`SELECT id, name, description, created_at FROM ledger_groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFoundError("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if description.Valid {
		group.Description = description.String
	}

	rows, err := q.query(ctx,
		`SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}

// AddGroupMembers adds users to a group. Existing members are left untouched.
func (q *queries) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	for _, userID := range userIDs {
		_, err := q.exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			groupID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to add group member %s: %w", userID, err)
		}
	}
	return nil
}
