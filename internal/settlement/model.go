package settlement

import (
	"time"

	"github.com/roomieconnect/ledger/internal/money"
)

// Status of a settlement. Values match what lands in the database.
// completed and succeeded are terminal-success states, failed is
// terminal-failure; no transition leaves a terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed" // manual settlements
	StatusSucceeded Status = "succeeded" // provider-confirmed
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further status transition is accepted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSucceeded || s == StatusFailed
}

// Settlement records a transfer from one member to another, reducing the
// net balance between them. GroupID is nil for cross-group settlements.
// ExternalRef carries the payment provider's identifier and is unique when
// present; it is the sole deduplication key for webhook retries.
type Settlement struct {
	ID          int64       `json:"id"`
	GroupID     *int64      `json:"group_id,omitempty"`
	FromUser    int64       `json:"from_user"`
	ToUser      int64       `json:"to_user"`
	AmountCents money.Cents `json:"amount_cents"`
	Status      Status      `json:"status"`
	Note        *string     `json:"note,omitempty"`
	ExternalRef *string     `json:"external_ref,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated via JOIN
	FromName string `json:"from_name,omitempty"`
	ToName   string `json:"to_name,omitempty"`
}

// Provider returns the origin tag for transaction views.
func (s *Settlement) Provider() string {
	if s.ExternalRef != nil && *s.ExternalRef != "" {
		return "stripe"
	}
	return "manual"
}
