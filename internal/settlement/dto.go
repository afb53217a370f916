package settlement

import (
	"time"

	"github.com/roomieconnect/ledger/internal/money"
)

// RecordSettlementRequest represents the request body for a manual
// settlement. Legacy clients send from_user_id/to_user_id and a dollar
// amount; the accessor methods collapse the aliases into canonical fields
// before the ledger sees them.
type RecordSettlementRequest struct {
	GroupID     *int64       `json:"group_id,omitempty"`
	FromUser    int64        `json:"from_user,omitempty"`
	ToUser      int64        `json:"to_user,omitempty"`
	FromUserID  int64        `json:"from_user_id,omitempty"` // legacy alias
	ToUserID    int64        `json:"to_user_id,omitempty"`   // legacy alias
	AmountCents *money.Cents `json:"amount_cents,omitempty"`
	Amount      *float64     `json:"amount,omitempty"` // legacy dollars
	Note        *string      `json:"note,omitempty"`
}

// From returns the canonical debtor ID.
func (r *RecordSettlementRequest) From() int64 {
	if r.FromUser != 0 {
		return r.FromUser
	}
	return r.FromUserID
}

// To returns the canonical creditor ID.
func (r *RecordSettlementRequest) To() int64 {
	if r.ToUser != 0 {
		return r.ToUser
	}
	return r.ToUserID
}

// Cents returns the canonical amount in cents, preferring the cents field.
func (r *RecordSettlementRequest) Cents() money.Cents {
	if r.AmountCents != nil {
		return *r.AmountCents
	}
	if r.Amount != nil {
		return money.FromDollars(*r.Amount)
	}
	return 0
}

// ProviderEventRequest is the payment provider webhook payload. Events are
// delivered at least once; ExternalRef deduplicates retries.
type ProviderEventRequest struct {
	Type        string      `json:"type"` // "confirmed" or "failed"
	ExternalRef string      `json:"external_ref"`
	GroupID     *int64      `json:"group_id,omitempty"`
	FromUser    int64       `json:"from_user,omitempty"`
	ToUser      int64       `json:"to_user,omitempty"`
	AmountCents money.Cents `json:"amount_cents,omitempty"`
	Note        *string     `json:"note,omitempty"`
}

// SettlementResponse represents a settlement in API responses
type SettlementResponse struct {
	ID          int64       `json:"id"`
	GroupID     *int64      `json:"group_id,omitempty"`
	FromUser    int64       `json:"from_user"`
	FromName    string      `json:"from_name,omitempty"`
	ToUser      int64       `json:"to_user"`
	ToName      string      `json:"to_name,omitempty"`
	AmountCents money.Cents `json:"amount_cents"`
	Amount      string      `json:"amount"` // dollars, for display
	Status      Status      `json:"status"`
	Provider    string      `json:"provider"`
	Note        string      `json:"note"`
	CreatedAt   string      `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	note := ""
	if s.Note != nil {
		note = *s.Note
	}
	return &SettlementResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		FromUser:    s.FromUser,
		FromName:    s.FromName,
		ToUser:      s.ToUser,
		ToName:      s.ToName,
		AmountCents: s.AmountCents,
		Amount:      s.AmountCents.String(),
		Status:      s.Status,
		Provider:    s.Provider(),
		Note:        note,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}
