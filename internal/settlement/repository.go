package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when an insert races a
// concurrent insert of the same external_ref past the ON CONFLICT check.
const uniqueViolation = "23505"

// Repository handles settlement persistence. Duplicate provider deliveries
// are resolved entirely by the unique index on external_ref; the repository
// never sees two rows for the same reference.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settlementColumns = `id, group_id, from_user, to_user, amount_cents, status, note, external_ref, created_at`

// from_user and to_user go SET NULL when a party's account is deleted, so
// they are scanned through NullInt64; a missing party reads as zero.
func scanSettlement(row interface{ Scan(...any) error }) (*Settlement, error) {
	s := &Settlement{}
	var from, to sql.NullInt64
	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&from,
		&to,
		&s.AmountCents,
		&s.Status,
		&s.Note,
		&s.ExternalRef,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.FromUser = from.Int64
	s.ToUser = to.Int64
	return s, nil
}

// InsertManual persists a manual settlement in completed status.
func (r *Repository) InsertManual(ctx context.Context, s *Settlement) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, from_user, to_user, amount_cents, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + settlementColumns

	created, err := scanSettlement(r.db.QueryRowContext(ctx, query,
		s.GroupID, s.FromUser, s.ToUser, s.AmountCents, StatusCompleted, s.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return created, nil
}

// InsertProvider persists a provider-confirmed settlement. If a settlement
// with the same external_ref already exists the insert is skipped and the
// existing row is returned with created=false.
func (r *Repository) InsertProvider(ctx context.Context, s *Settlement) (*Settlement, bool, error) {
	query := `
		INSERT INTO settlements (group_id, from_user, to_user, amount_cents, status, note, external_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_ref) DO NOTHING
		RETURNING ` + settlementColumns

	created, err := scanSettlement(r.db.QueryRowContext(ctx, query,
		s.GroupID, s.FromUser, s.ToUser, s.AmountCents, StatusSucceeded, s.Note, s.ExternalRef,
	))
	if err == nil {
		return created, true, nil
	}

	duplicate := err == sql.ErrNoRows
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		duplicate = true
	}
	if !duplicate {
		return nil, false, fmt.Errorf("failed to create provider settlement: %w", err)
	}

	existing, err := r.GetByExternalRef(ctx, *s.ExternalRef)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// MarkFailed transitions the settlement with this external_ref to failed.
// Returns false when no row matched or the row was already failed.
func (r *Repository) MarkFailed(ctx context.Context, externalRef string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE settlements
		SET status = $2
		WHERE external_ref = $1 AND status <> $2
	`, externalRef, StatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to mark settlement failed: %w", err)
	}

	n, _ := result.RowsAffected()
	return n > 0, nil
}

// GetByExternalRef retrieves a settlement by its provider reference.
func (r *Repository) GetByExternalRef(ctx context.Context, externalRef string) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE external_ref = $1`

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement by ref: %w", err)
	}

	return s, nil
}

// ListByGroupID retrieves a group's settlements, newest first, with names.
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.from_user, s.to_user, s.amount_cents, s.status,
		       s.note, s.external_ref, s.created_at,
		       COALESCE(fu.name, ''), COALESCE(tu.name, '')
		FROM settlements s
		LEFT JOIN users fu ON fu.id = s.from_user
		LEFT JOIN users tu ON tu.id = s.to_user
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		var from, to sql.NullInt64
		if err := rows.Scan(
			&s.ID,
			&s.GroupID,
			&from,
			&to,
			&s.AmountCents,
			&s.Status,
			&s.Note,
			&s.ExternalRef,
			&s.CreatedAt,
			&s.FromName,
			&s.ToName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.FromUser = from.Int64
		s.ToUser = to.Int64
		settlements = append(settlements, s)
	}

	return settlements, nil
}
