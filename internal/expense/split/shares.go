package split

import (
	"math"

	"github.com/roomieconnect/ledger/internal/money"
)

// SharesStrategy divides the total proportionally to integer weights.
// Each participant gets floor(total*weight/sumWeights); the leftover cents
// are handed out one each in input order, the same remainder rule as the
// equal split.
type SharesStrategy struct{}

// Type returns the split type identifier.
func (s *SharesStrategy) Type() Type {
	return TypeShares
}

// Validate checks the inputs for a weighted split.
func (s *SharesStrategy) Validate(total money.Cents, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}
	var sumWeights int64
	for _, p := range participants {
		if p.Weight == nil {
			return ErrMissingWeight
		}
		if *p.Weight < 0 {
			return ErrNegativeShare
		}
		// total*weight must stay within int64 for the proportional math.
		if *p.Weight > 0 && int64(total) > math.MaxInt64 / *p.Weight {
			return ErrWeightTooLarge
		}
		if sumWeights > math.MaxInt64-*p.Weight {
			return ErrWeightTooLarge
		}
		sumWeights += *p.Weight
	}
	if sumWeights <= 0 {
		return ErrZeroWeights
	}
	return nil
}

// Allocate floors each weighted share and distributes the leftover cents in
// input order until exhausted.
func (s *SharesStrategy) Allocate(total money.Cents, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	var sumWeights int64
	for _, p := range participants {
		sumWeights += *p.Weight
	}

	shares := make([]Share, len(participants))
	var used money.Cents
	for i, p := range participants {
		amount := money.Cents(int64(total) * *p.Weight / sumWeights)
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		used += amount
	}

	for i := range shares {
		if used >= total {
			break
		}
		shares[i].Amount++
		used++
	}

	return shares, nil
}
