package split

import "github.com/roomieconnect/ledger/internal/money"

// EqualStrategy divides the total evenly among all participants. Leftover
// cents after integer division go one each to the first participants in
// input order, so the spread between any two shares is at most one cent.
type EqualStrategy struct{}

// Type returns the split type identifier.
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks the inputs for an equal split.
func (s *EqualStrategy) Validate(total money.Cents, participants []Input) error {
	return validateCommon(total, participants)
}

// Allocate computes base = floor(total/n) per participant and hands the
// remaining total-base*n cents out one at a time in input order.
func (s *EqualStrategy) Allocate(total money.Cents, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	n := money.Cents(len(participants))
	base := total / n
	remainder := total - base*n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if money.Cents(i) < remainder {
			amount++
		}
		shares[i] = Share{UserID: p.UserID, Amount: amount}
	}

	return shares, nil
}
