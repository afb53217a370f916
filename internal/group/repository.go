package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roomieconnect/ledger/internal/database"
)

// Repository handles group and membership persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a group and its creator's membership in one transaction.
func (r *Repository) Create(ctx context.Context, name, joinCode string, creatorID int64) (*Group, error) {
	group := &Group{}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO groups (name, join_code, created_by)
			VALUES ($1, $2, $3)
			RETURNING id, name, join_code, created_by, created_at
		`
		if err := tx.QueryRowContext(ctx, query, name, joinCode, creatorID).Scan(
			&group.ID,
			&group.Name,
			&group.JoinCode,
			&group.CreatedBy,
			&group.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, role)
			VALUES ($1, $2, 'owner')
			ON CONFLICT DO NOTHING
		`, group.ID, creatorID)
		if err != nil {
			return fmt.Errorf("failed to add creator as member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT g.id, g.name, g.join_code, g.created_by, g.created_at, COALESCE(u.name, '')
		FROM groups g
		LEFT JOIN users u ON g.created_by = u.id
		WHERE g.id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.JoinCode,
		&group.CreatedBy,
		&group.CreatedAt,
		&group.OwnerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// GetByJoinCode retrieves a group by its join code
func (r *Repository) GetByJoinCode(ctx context.Context, code string) (*Group, error) {
	query := `
		SELECT id, name, join_code, created_by, created_at
		FROM groups
		WHERE join_code = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&group.ID,
		&group.Name,
		&group.JoinCode,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group by code: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves all groups where the user is a member
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.join_code, g.created_by, g.created_at, COALESCE(u.name, '')
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		LEFT JOIN users u ON g.created_by = u.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.JoinCode,
			&group.CreatedBy,
			&group.CreatedAt,
			&group.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// GetMembers retrieves all members of a group ordered by name
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT u.id, u.name, u.email, gm.role
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY u.name, u.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.UserID, &member.Name, &member.Email, &member.Role); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// AddMember inserts a membership row; adding an existing member is a no-op.
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// Delete removes a group; memberships, expenses and splits cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
