package split

import (
	"math"

	"github.com/roomieconnect/ledger/internal/money"
)

// PercentageStrategy divides the total according to caller-supplied
// percentages. Each share is total*pct/100 rounded half-up; there is no
// automatic true-up, so percentages that round to anything other than the
// total are rejected. The caller is responsible for supplying percentages
// that sum to 100.
type PercentageStrategy struct{}

// Type returns the split type identifier.
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Validate checks the inputs for a percentage split.
func (s *PercentageStrategy) Validate(total money.Cents, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 {
			return ErrNegativeShare
		}
	}
	return nil
}

// Allocate rounds each participant's percentage of the total to whole cents
// and verifies the shares cover the total exactly.
func (s *PercentageStrategy) Allocate(total money.Cents, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	var sum money.Cents
	for i, p := range participants {
		amount := money.Cents(math.Round(float64(total) * *p.Percentage / 100))
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		sum += amount
	}

	if sum != total {
		return nil, ErrSumMismatch
	}

	return shares, nil
}
