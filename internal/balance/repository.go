package balance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository fetches balance edges from Postgres. It only reads; the edge
// graph is derived from the expense and settlement tables at query time.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanEdges(rows *sql.Rows) ([]Edge, error) {
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.Debtor, &e.Creditor, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ExpenseEdges returns participant -> payer edges for every split in the
// given groups where the participant is not the payer.
func (r *Repository) ExpenseEdges(ctx context.Context, groupIDs []int64) ([]Edge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT es.user_id, e.paid_by, es.share_cents
		FROM expense_splits es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.group_id = ANY($1)
		  AND e.paid_by IS NOT NULL
		  AND es.user_id <> e.paid_by
	`, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query expense edges: %w", err)
	}
	return scanEdges(rows)
}

// SettlementEdges returns to_user -> from_user edges for every non-failed
// settlement recorded in the given groups.
func (r *Repository) SettlementEdges(ctx context.Context, groupIDs []int64) ([]Edge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_user, from_user, amount_cents
		FROM settlements
		WHERE group_id = ANY($1) AND status <> 'failed'
		  AND from_user IS NOT NULL AND to_user IS NOT NULL
	`, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement edges: %w", err)
	}
	return scanEdges(rows)
}

// GrouplessSettlementEdgesBetween returns edges from non-failed settlements
// without a group whose endpoints are exactly the two users.
func (r *Repository) GrouplessSettlementEdgesBetween(ctx context.Context, a, b int64) ([]Edge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_user, from_user, amount_cents
		FROM settlements
		WHERE group_id IS NULL AND status <> 'failed'
		  AND from_user IS NOT NULL AND to_user IS NOT NULL
		  AND ((from_user = $1 AND to_user = $2) OR (from_user = $2 AND to_user = $1))
	`, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query groupless settlement edges: %w", err)
	}
	return scanEdges(rows)
}

// GrouplessSettlementEdgesFor returns edges from non-failed settlements
// without a group that involve the user on either side.
func (r *Repository) GrouplessSettlementEdgesFor(ctx context.Context, userID int64) ([]Edge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_user, from_user, amount_cents
		FROM settlements
		WHERE group_id IS NULL AND status <> 'failed'
		  AND from_user IS NOT NULL AND to_user IS NOT NULL
		  AND (from_user = $1 OR to_user = $1)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groupless settlement edges: %w", err)
	}
	return scanEdges(rows)
}

// GroupMembers returns the group's members with display names.
func (r *Repository) GroupMembers(ctx context.Context, groupID int64) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// UserGroupIDs returns the IDs of every group the user belongs to.
func (r *Repository) UserGroupIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SharedGroupIDs returns the IDs of every group both users belong to.
func (r *Repository) SharedGroupIDs(ctx context.Context, a, b int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ga.group_id
		FROM group_members ga
		JOIN group_members gb ON gb.group_id = ga.group_id
		WHERE ga.user_id = $1 AND gb.user_id = $2
		ORDER BY ga.group_id
	`, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared groups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserNames returns display names for the given user IDs.
func (r *Repository) UserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM users WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query user names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
