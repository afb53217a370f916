package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/roomieconnect/ledger/internal/money"
)

// Repository runs the dashboard's read-only aggregate queries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new dashboard repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
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

// MonthStats returns the user's current-month spend (sum of their split
// shares) and expense count across the given groups.
func (r *Repository) MonthStats(ctx context.Context, userID int64, groupIDs []int64) (money.Cents, int, error) {
	var spent money.Cents
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(s.share_cents), 0), COALESCE(COUNT(DISTINCT e.id), 0)
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = $1
		  AND e.group_id = ANY($2)
		  AND date_trunc('month', e.created_at) = date_trunc('month', NOW())
	`, userID, pq.Array(groupIDs)).Scan(&spent, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query month stats: %w", err)
	}
	return spent, count, nil
}

// AllTimeSpent returns the sum of the user's split shares across the given
// groups.
func (r *Repository) AllTimeSpent(ctx context.Context, userID int64, groupIDs []int64) (money.Cents, error) {
	var spent money.Cents
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(s.share_cents), 0)
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = $1 AND e.group_id = ANY($2)
	`, userID, pq.Array(groupIDs)).Scan(&spent)
	if err != nil {
		return 0, fmt.Errorf("failed to query all-time spend: %w", err)
	}
	return spent, nil
}

// MonthlySpend returns the user's spend series for the last six months.
func (r *Repository) MonthlySpend(ctx context.Context, userID int64, groupIDs []int64) ([]MonthlySpend, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', e.created_at), 'YYYY-MM') AS month,
		       SUM(s.share_cents)::bigint
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = $1
		  AND e.group_id = ANY($2)
		  AND e.created_at >= (date_trunc('month', NOW()) - INTERVAL '5 months')
		GROUP BY 1
		ORDER BY 1 ASC
	`, userID, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly spend: %w", err)
	}
	defer rows.Close()

	var series []MonthlySpend
	for rows.Next() {
		var m MonthlySpend
		if err := rows.Scan(&m.Month, &m.SpentCents); err != nil {
			return nil, fmt.Errorf("failed to scan monthly spend: %w", err)
		}
		series = append(series, m)
	}
	return series, rows.Err()
}

// TopGroups ranks the user's groups by their current-month spend, top five.
func (r *Repository) TopGroups(ctx context.Context, userID int64) ([]TopGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.group_id, g.name, SUM(s.share_cents)::bigint AS spent_cents
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		JOIN groups g ON g.id = e.group_id
		WHERE s.user_id = $1
		  AND date_trunc('month', e.created_at) = date_trunc('month', NOW())
		GROUP BY e.group_id, g.name
		ORDER BY spent_cents DESC
		LIMIT 5
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top groups: %w", err)
	}
	defer rows.Close()

	var groups []TopGroup
	for rows.Next() {
		var g TopGroup
		if err := rows.Scan(&g.GroupID, &g.Name, &g.SpentCents); err != nil {
			return nil, fmt.Errorf("failed to scan top group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// RecentExpenses returns the latest ten expenses the user has a share in.
func (r *Repository) RecentExpenses(ctx context.Context, userID int64, groupIDs []int64) ([]RecentExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.group_id, g.name, e.description, e.amount_cents,
		       e.paid_by, COALESCE(pu.name, ''), s.share_cents, e.created_at
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		JOIN groups g ON g.id = e.group_id
		LEFT JOIN users pu ON pu.id = e.paid_by
		WHERE s.user_id = $1 AND e.group_id = ANY($2)
		ORDER BY e.created_at DESC
		LIMIT 10
	`, userID, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	defer rows.Close()

	var expenses []RecentExpense
	for rows.Next() {
		var e RecentExpense
		var paidBy sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.GroupName, &e.Description, &e.AmountCents,
			&paidBy, &e.PaidByName, &e.YourShareCents, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent expense: %w", err)
		}
		e.PaidBy = paidBy.Int64
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// RecentSettlements returns the latest ten settlements involving the user.
func (r *Repository) RecentSettlements(ctx context.Context, userID int64, groupIDs []int64) ([]RecentSettlement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT st.id, st.group_id, g.name,
		       st.from_user, COALESCE(fu.name, ''),
		       st.to_user, COALESCE(tu.name, ''),
		       st.amount_cents, st.status, COALESCE(st.note, ''),
		       st.external_ref, st.created_at
		FROM settlements st
		JOIN groups g ON g.id = st.group_id
		LEFT JOIN users fu ON fu.id = st.from_user
		LEFT JOIN users tu ON tu.id = st.to_user
		WHERE st.group_id = ANY($2)
		  AND (st.from_user = $1 OR st.to_user = $1)
		ORDER BY st.created_at DESC
		LIMIT 10
	`, userID, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent settlements: %w", err)
	}
	defer rows.Close()

	var settlements []RecentSettlement
	for rows.Next() {
		var s RecentSettlement
		var from, to sql.NullInt64
		var externalRef sql.NullString
		if err := rows.Scan(
			&s.ID, &s.GroupID, &s.GroupName,
			&from, &s.FromName,
			&to, &s.ToName,
			&s.AmountCents, &s.Status, &s.Note,
			&externalRef, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent settlement: %w", err)
		}
		s.FromUser = from.Int64
		s.ToUser = to.Int64
		s.Provider = "manual"
		if externalRef.Valid && externalRef.String != "" {
			s.Provider = "stripe"
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}
