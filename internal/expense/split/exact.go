package split

import "github.com/roomieconnect/ledger/internal/money"

// ExactStrategy uses caller-supplied cent amounts verbatim. No computation
// is performed; amounts must be non-negative and sum exactly to the total.
type ExactStrategy struct{}

// Type returns the split type identifier.
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks the inputs for an exact split.
func (s *ExactStrategy) Validate(total money.Cents, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}
	var sum money.Cents
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeShare
		}
		sum += *p.Amount
	}
	if sum != total {
		return ErrSumMismatch
	}
	return nil
}

// Allocate copies the supplied amounts through in input order.
func (s *ExactStrategy) Allocate(total money.Cents, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Amount: *p.Amount}
	}

	return shares, nil
}
