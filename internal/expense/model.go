package expense

import (
	"time"

	"github.com/roomieconnect/ledger/internal/money"
)

// Expense represents a cost paid by one member on behalf of a group.
// AmountCents always equals the sum of its splits' shares; the two are
// written together in one transaction so no other state is observable.
type Expense struct {
	ID          int64       `json:"id"`
	GroupID     int64       `json:"group_id"`
	Description string      `json:"description"`
	AmountCents money.Cents `json:"amount_cents"`
	PaidBy      int64       `json:"paid_by"`
	CreatedBy   int64       `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated via JOIN
	PayerName   string `json:"paid_by_name,omitempty"`
	CreatorName string `json:"created_by_name,omitempty"`
}

// Split is one participant's share of an expense. Splits are owned by
// their expense: they are regenerated on update and removed on delete.
type Split struct {
	ID         int64       `json:"id"`
	ExpenseID  int64       `json:"expense_id"`
	UserID     int64       `json:"user_id"`
	ShareCents money.Cents `json:"share_cents"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// ExpenseWithSplits combines an expense with its splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}
