package settlement

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/roomieconnect/ledger/internal/money"
)

// nullableRow feeds scanSettlement a fixed set of column values, applying
// the same NULL rules the sql driver does: NULL into a plain int64 is an
// error, NULL into a NullInt64 clears Valid.
type nullableRow struct {
	values []any
}

func (r nullableRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		if err := assignColumn(dest[i], v); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

func assignColumn(dest, src any) error {
	switch d := dest.(type) {
	case *int64:
		if src == nil {
			return fmt.Errorf("converting NULL to int64 is unsupported")
		}
		*d = src.(int64)
	case *sql.NullInt64:
		if src == nil {
			*d = sql.NullInt64{}
			return nil
		}
		*d = sql.NullInt64{Int64: src.(int64), Valid: true}
	case **int64:
		if src == nil {
			*d = nil
			return nil
		}
		v := src.(int64)
		*d = &v
	case *money.Cents:
		*d = money.Cents(src.(int64))
	case *Status:
		*d = Status(src.(string))
	case **string:
		if src == nil {
			*d = nil
			return nil
		}
		v := src.(string)
		*d = &v
	case *time.Time:
		*d = src.(time.Time)
	default:
		return fmt.Errorf("unsupported destination %T", dest)
	}
	return nil
}

// Deleting a user sets from_user and to_user to NULL on their settlements.
// Scanning such a row must not fail; the missing party reads as zero.
func TestScanSettlementNullParties(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := nullableRow{values: []any{
		int64(42),     // id
		int64(7),      // group_id
		nil,           // from_user, account deleted
		nil,           // to_user, account deleted
		int64(2500),   // amount_cents
		"succeeded",   // status
		nil,           // note
		"pi_123",      // external_ref
		created,       // created_at
	}}

	s, err := scanSettlement(row)
	if err != nil {
		t.Fatalf("scanSettlement() error = %v, want nil", err)
	}
	if s.FromUser != 0 {
		t.Errorf("FromUser = %d, want 0 for deleted party", s.FromUser)
	}
	if s.ToUser != 0 {
		t.Errorf("ToUser = %d, want 0 for deleted party", s.ToUser)
	}
	if s.AmountCents != 2500 {
		t.Errorf("AmountCents = %d, want 2500", s.AmountCents)
	}
	if s.Status != StatusSucceeded {
		t.Errorf("Status = %q, want %q", s.Status, StatusSucceeded)
	}
	if s.ExternalRef == nil || *s.ExternalRef != "pi_123" {
		t.Errorf("ExternalRef = %v, want pi_123", s.ExternalRef)
	}
}

func TestScanSettlementBothParties(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := nullableRow{values: []any{
		int64(43), nil, int64(1), int64(2), int64(900), "completed", nil, nil, created,
	}}

	s, err := scanSettlement(row)
	if err != nil {
		t.Fatalf("scanSettlement() error = %v, want nil", err)
	}
	if s.FromUser != 1 || s.ToUser != 2 {
		t.Errorf("parties = (%d, %d), want (1, 2)", s.FromUser, s.ToUser)
	}
	if s.GroupID != nil {
		t.Errorf("GroupID = %v, want nil", s.GroupID)
	}
}
