package split

import (
	"errors"
	"fmt"

	"github.com/roomieconnect/ledger/internal/money"
)

// Type identifies a split policy.
type Type string

const (
	TypeEqual      Type = "EQUAL"
	TypePercentage Type = "PERCENTAGE"
	TypeShares     Type = "SHARES"
	TypeExact      Type = "EXACT"
)

// Input represents one participant in a split with the policy-specific
// value attached. Exactly one of Percentage, Weight or Amount is meaningful
// depending on the chosen policy.
type Input struct {
	UserID     int64        `json:"user_id"`
	Percentage *float64     `json:"percentage,omitempty"`   // PERCENTAGE
	Weight     *int64       `json:"weight,omitempty"`       // SHARES
	Amount     *money.Cents `json:"amount_cents,omitempty"` // EXACT
}

// Share is one participant's computed portion of the total.
type Share struct {
	UserID int64       `json:"user_id"`
	Amount money.Cents `json:"share_cents"`
}

// Strategy is implemented by every split policy. Allocate returns one Share
// per participant, in input order, summing exactly to total.
type Strategy interface {
	Allocate(total money.Cents, participants []Input) ([]Share, error)
	Type() Type
	Validate(total money.Cents, participants []Input) error
}

// Factory creates split strategies by policy type.
type Factory struct{}

// NewFactory returns a strategy factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for the given policy type.
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	case TypeShares:
		return &SharesStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, t)
	}
}

// CreateFromString creates a strategy from an API-supplied string.
func (f *Factory) CreateFromString(t string) (Strategy, error) {
	return f.Create(Type(t))
}

// ErrInvalidSplit is the root of every allocation failure; the specific
// causes below wrap it so callers can match either with errors.Is.
var ErrInvalidSplit = errors.New("invalid split")

var (
	ErrNoParticipants    = fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	ErrNonPositiveTotal  = fmt.Errorf("%w: total must be greater than zero", ErrInvalidSplit)
	ErrNegativeShare     = fmt.Errorf("%w: shares cannot be negative", ErrInvalidSplit)
	ErrSumMismatch       = fmt.Errorf("%w: shares must sum to the total", ErrInvalidSplit)
	ErrMissingPercentage = fmt.Errorf("%w: percentage required for every participant", ErrInvalidSplit)
	ErrMissingWeight     = fmt.Errorf("%w: weight required for every participant", ErrInvalidSplit)
	ErrMissingAmount     = fmt.Errorf("%w: exact amount required for every participant", ErrInvalidSplit)
	ErrZeroWeights       = fmt.Errorf("%w: weights must sum to more than zero", ErrInvalidSplit)
	ErrWeightTooLarge    = fmt.Errorf("%w: weights too large", ErrInvalidSplit)
)

// validateCommon covers the checks shared by every policy.
func validateCommon(total money.Cents, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total <= 0 {
		return ErrNonPositiveTotal
	}
	return nil
}
