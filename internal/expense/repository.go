package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roomieconnect/ledger/internal/database"
	"github.com/roomieconnect/ledger/internal/expense/split"
)

// Repository implements Store against Postgres. Every mutating method runs
// in its own transaction; a failure on any statement rolls the whole
// operation back so a reader can never observe an expense without its splits.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpenseWithSplits inserts the expense and its splits atomically.
func (r *Repository) CreateExpenseWithSplits(ctx context.Context, e *Expense, shares []split.Share) (*ExpenseWithSplits, error) {
	result := &ExpenseWithSplits{}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		expense, err := insertExpense(ctx, tx, e)
		if err != nil {
			return err
		}
		splits, err := insertSplits(ctx, tx, expense.ID, shares)
		if err != nil {
			return err
		}
		result.Expense = expense
		result.Splits = splits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceExpense updates the expense row, drops its old splits and inserts
// the regenerated set, all in one transaction.
func (r *Repository) ReplaceExpense(ctx context.Context, id int64, e *Expense, shares []split.Share) (*ExpenseWithSplits, error) {
	result := &ExpenseWithSplits{}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE expenses
			SET description = $2, amount_cents = $3, paid_by = $4
			WHERE id = $1
			RETURNING id, group_id, description, amount_cents, paid_by, created_by, created_at
		`
		expense := &Expense{}
		var createdBy sql.NullInt64
		err := tx.QueryRowContext(ctx, query, id, e.Description, e.AmountCents, e.PaidBy).Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.Description,
			&expense.AmountCents,
			&expense.PaidBy,
			&createdBy,
			&expense.CreatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrExpenseNotFound
			}
			return fmt.Errorf("failed to update expense: %w", err)
		}
		expense.CreatedBy = createdBy.Int64

		if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete old splits: %w", err)
		}

		splits, err := insertSplits(ctx, tx, id, shares)
		if err != nil {
			return err
		}
		result.Expense = expense
		result.Splits = splits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteExpense removes the expense and its splits atomically.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete splits: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrExpenseNotFound
		}
		return nil
	})
}

func insertExpense(ctx context.Context, tx *sql.Tx, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, description, amount_cents, paid_by, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, description, amount_cents, paid_by, created_by, created_at
	`

	expense := &Expense{}
	err := tx.QueryRowContext(ctx, query,
		e.GroupID,
		e.Description,
		e.AmountCents,
		e.PaidBy,
		e.CreatedBy,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&expense.AmountCents,
		&expense.PaidBy,
		&expense.CreatedBy,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, shares []split.Share) ([]*Split, error) {
	query := `
		INSERT INTO expense_splits (expense_id, user_id, share_cents)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, user_id, share_cents
	`

	splits := make([]*Split, len(shares))
	for i, share := range shares {
		s := &Split{}
		err := tx.QueryRowContext(ctx, query, expenseID, share.UserID, share.Amount).Scan(
			&s.ID,
			&s.ExpenseID,
			&s.UserID,
			&s.ShareCents,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		splits[i] = s
	}

	return splits, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.description, e.amount_cents, e.paid_by, e.created_by, e.created_at,
		       COALESCE(pu.name, ''), COALESCE(cu.name, '')
		FROM expenses e
		LEFT JOIN users pu ON pu.id = e.paid_by
		LEFT JOIN users cu ON cu.id = e.created_by
		WHERE e.id = $1
	`

	// paid_by and created_by go SET NULL when the user is deleted.
	expense := &Expense{}
	var paidBy, createdBy sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.Description,
		&expense.AmountCents,
		&paidBy,
		&createdBy,
		&expense.CreatedAt,
		&expense.PayerName,
		&expense.CreatorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.PaidBy = paidBy.Int64
	expense.CreatedBy = createdBy.Int64

	return expense, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.share_cents, COALESCE(u.name, '')
		FROM expense_splits s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.ShareCents, &s.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, nil
}

// ListExpensesByGroupID retrieves expenses for a group, newest first
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.description, e.amount_cents, e.paid_by, e.created_by, e.created_at,
		       COALESCE(pu.name, ''), COALESCE(cu.name, '')
		FROM expenses e
		LEFT JOIN users pu ON pu.id = e.paid_by
		LEFT JOIN users cu ON cu.id = e.created_by
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		var paidBy, createdBy sql.NullInt64
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.Description,
			&expense.AmountCents,
			&paidBy,
			&createdBy,
			&expense.CreatedAt,
			&expense.PayerName,
			&expense.CreatorName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.PaidBy = paidBy.Int64
		expense.CreatedBy = createdBy.Int64
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// GroupMemberIDs returns the user IDs of a group's members in ascending order.
func (r *Repository) GroupMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
