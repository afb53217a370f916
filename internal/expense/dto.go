package expense

import (
	"time"

	"github.com/roomieconnect/ledger/internal/expense/split"
	"github.com/roomieconnect/ledger/internal/money"
)

// CreateExpenseRequest represents the request body for creating an expense.
// Amounts arrive either as integer cents (preferred) or as a legacy dollar
// value; Cents() collapses the two into the canonical form before anything
// else sees the request.
type CreateExpenseRequest struct {
	GroupID      int64         `json:"group_id"`
	Description  string        `json:"description"`
	AmountCents  *money.Cents  `json:"amount_cents,omitempty"`
	Amount       *float64      `json:"amount,omitempty"` // legacy dollars
	PaidBy       int64         `json:"paid_by"`
	SplitType    string        `json:"split_type"`
	Participants []split.Input `json:"participants,omitempty"`
}

// UpdateExpenseRequest represents the request body for updating an expense.
// Splits are fully regenerated from the supplied policy and participants.
type UpdateExpenseRequest struct {
	Description  string        `json:"description"`
	AmountCents  *money.Cents  `json:"amount_cents,omitempty"`
	Amount       *float64      `json:"amount,omitempty"` // legacy dollars
	PaidBy       int64         `json:"paid_by"`
	SplitType    string        `json:"split_type"`
	Participants []split.Input `json:"participants,omitempty"`
}

// Cents returns the canonical amount in cents, preferring the cents field.
func (r *CreateExpenseRequest) Cents() money.Cents {
	return resolveCents(r.AmountCents, r.Amount)
}

// Cents returns the canonical amount in cents, preferring the cents field.
func (r *UpdateExpenseRequest) Cents() money.Cents {
	return resolveCents(r.AmountCents, r.Amount)
}

func resolveCents(cents *money.Cents, dollars *float64) money.Cents {
	if cents != nil {
		return *cents
	}
	if dollars != nil {
		return money.FromDollars(*dollars)
	}
	return 0
}

// SplitResponse represents one split in API responses
type SplitResponse struct {
	ID         int64       `json:"id"`
	ExpenseID  int64       `json:"expense_id"`
	UserID     int64       `json:"user_id"`
	UserName   string      `json:"user_name,omitempty"`
	ShareCents money.Cents `json:"share_cents"`
	Share      string      `json:"share"` // dollars, for display
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	GroupID     int64            `json:"group_id"`
	Description string           `json:"description"`
	AmountCents money.Cents      `json:"amount_cents"`
	Amount      string           `json:"amount"` // dollars, for display
	PaidBy      int64            `json:"paid_by"`
	PayerName   string           `json:"paid_by_name,omitempty"`
	CreatedBy   int64            `json:"created_by"`
	CreatorName string           `json:"created_by_name,omitempty"`
	SplitType   string           `json:"split_type,omitempty"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		AmountCents: e.AmountCents,
		Amount:      e.AmountCents.String(),
		PaidBy:      e.PaidBy,
		PayerName:   e.PayerName,
		CreatedBy:   e.CreatedBy,
		CreatorName: e.CreatorName,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:         s.ID,
		ExpenseID:  s.ExpenseID,
		UserID:     s.UserID,
		UserName:   s.UserName,
		ShareCents: s.ShareCents,
		Share:      s.ShareCents.String(),
	}
}
