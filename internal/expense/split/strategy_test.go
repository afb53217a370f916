package split

import (
	"errors"
	"math"
	"testing"

	"github.com/roomieconnect/ledger/internal/money"
)

func inputs(userIDs ...int64) []Input {
	ins := make([]Input, len(userIDs))
	for i, id := range userIDs {
		ins[i] = Input{UserID: id}
	}
	return ins
}

func pctPtr(v float64) *float64 { return &v }
func weightPtr(v int64) *int64  { return &v }
func centsPtr(v money.Cents) *money.Cents { return &v }

func sumShares(shares []Share) money.Cents {
	var sum money.Cents
	for _, s := range shares {
		sum += s.Amount
	}
	return sum
}

func TestEqualAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Cents
		users   []int64
		want    []money.Cents
		wantErr error
	}{
		{
			name:  "divides evenly",
			total: 900,
			users: []int64{1, 2, 3},
			want:  []money.Cents{300, 300, 300},
		},
		{
			name:  "remainder goes to first participants in order",
			total: 100,
			users: []int64{1, 2, 3},
			want:  []money.Cents{34, 33, 33},
		},
		{
			name:  "two-way ten dollar split",
			total: 1000,
			users: []int64{1, 2},
			want:  []money.Cents{500, 500},
		},
		{
			name:  "single participant takes everything",
			total: 777,
			users: []int64{9},
			want:  []money.Cents{777},
		},
		{
			name:  "total smaller than participant count",
			total: 2,
			users: []int64{1, 2, 3},
			want:  []money.Cents{1, 1, 0},
		},
		{
			name:    "zero total rejected",
			total:   0,
			users:   []int64{1, 2},
			wantErr: ErrNonPositiveTotal,
		},
		{
			name:    "no participants rejected",
			total:   100,
			users:   nil,
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := (&EqualStrategy{}).Allocate(tt.total, inputs(tt.users...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidSplit) {
					t.Errorf("error %v should wrap ErrInvalidSplit", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if sumShares(shares) != tt.total {
				t.Errorf("shares sum to %d, want %d", sumShares(shares), tt.total)
			}
			for i, want := range tt.want {
				if shares[i].Amount != want {
					t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want)
				}
			}
		})
	}
}

// The equal policy promises a max spread of one cent for any valid input.
func TestEqualSpreadProperty(t *testing.T) {
	users := []int64{1, 2, 3, 4, 5, 6, 7}
	for total := money.Cents(1); total <= 1000; total++ {
		shares, err := (&EqualStrategy{}).Allocate(total, inputs(users...))
		if err != nil {
			t.Fatalf("total=%d: %v", total, err)
		}
		if sumShares(shares) != total {
			t.Fatalf("total=%d: shares sum to %d", total, sumShares(shares))
		}
		min, max := shares[0].Amount, shares[0].Amount
		for _, s := range shares {
			if s.Amount < min {
				min = s.Amount
			}
			if s.Amount > max {
				max = s.Amount
			}
		}
		if max-min > 1 {
			t.Fatalf("total=%d: spread %d exceeds one cent", total, max-min)
		}
	}
}

func TestSharesAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Cents
		parts   []Input
		want    []money.Cents
		wantErr error
	}{
		{
			name:  "equal weights distribute remainder in input order",
			total: 100,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(1)},
				{UserID: 2, Weight: weightPtr(1)},
				{UserID: 3, Weight: weightPtr(1)},
			},
			want: []money.Cents{34, 33, 33},
		},
		{
			name:  "proportional weights",
			total: 1000,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(2)},
				{UserID: 2, Weight: weightPtr(1)},
				{UserID: 3, Weight: weightPtr(1)},
			},
			want: []money.Cents{500, 250, 250},
		},
		{
			name:  "zero weight participant gets nothing",
			total: 300,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(3)},
				{UserID: 2, Weight: weightPtr(0)},
			},
			want: []money.Cents{300, 0},
		},
		{
			name:  "missing weight rejected",
			total: 100,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(1)},
				{UserID: 2},
			},
			wantErr: ErrMissingWeight,
		},
		{
			name:  "negative weight rejected",
			total: 100,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(-1)},
				{UserID: 2, Weight: weightPtr(2)},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:  "all-zero weights rejected",
			total: 100,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(0)},
				{UserID: 2, Weight: weightPtr(0)},
			},
			wantErr: ErrZeroWeights,
		},
		{
			name:  "weight overflowing the proportional math rejected",
			total: 100,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(1 << 60)},
				{UserID: 2, Weight: weightPtr(1)},
			},
			wantErr: ErrWeightTooLarge,
		},
		{
			name:  "weight sum overflow rejected",
			total: 1,
			parts: []Input{
				{UserID: 1, Weight: weightPtr(math.MaxInt64 - 1)},
				{UserID: 2, Weight: weightPtr(2)},
			},
			wantErr: ErrWeightTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := (&SharesStrategy{}).Allocate(tt.total, tt.parts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if sumShares(shares) != tt.total {
				t.Errorf("shares sum to %d, want %d", sumShares(shares), tt.total)
			}
			for i, want := range tt.want {
				if shares[i].Amount != want {
					t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want)
				}
			}
		})
	}
}

func TestPercentageAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Cents
		parts   []Input
		want    []money.Cents
		wantErr error
	}{
		{
			name:  "fifty fifty",
			total: 1000,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(50)},
				{UserID: 2, Percentage: pctPtr(50)},
			},
			want: []money.Cents{500, 500},
		},
		{
			name:  "uneven percentages that cover the total",
			total: 1000,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(70)},
				{UserID: 2, Percentage: pctPtr(30)},
			},
			want: []money.Cents{700, 300},
		},
		{
			name:  "thirds that round short are rejected, no true-up",
			total: 100,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(33.33)},
				{UserID: 2, Percentage: pctPtr(33.33)},
				{UserID: 3, Percentage: pctPtr(33.33)},
			},
			wantErr: ErrSumMismatch,
		},
		{
			name:  "percentages summing past 100 rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(60)},
				{UserID: 2, Percentage: pctPtr(60)},
			},
			wantErr: ErrSumMismatch,
		},
		{
			name:  "missing percentage rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(100)},
				{UserID: 2},
			},
			wantErr: ErrMissingPercentage,
		},
		{
			name:  "negative percentage rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Percentage: pctPtr(-10)},
				{UserID: 2, Percentage: pctPtr(110)},
			},
			wantErr: ErrNegativeShare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := (&PercentageStrategy{}).Allocate(tt.total, tt.parts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			for i, want := range tt.want {
				if shares[i].Amount != want {
					t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want)
				}
			}
		})
	}
}

func TestExactAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Cents
		parts   []Input
		want    []money.Cents
		wantErr error
	}{
		{
			name:  "amounts pass through in order",
			total: 1000,
			parts: []Input{
				{UserID: 1, Amount: centsPtr(750)},
				{UserID: 2, Amount: centsPtr(250)},
			},
			want: []money.Cents{750, 250},
		},
		{
			name:  "sum mismatch rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Amount: centsPtr(600)},
				{UserID: 2, Amount: centsPtr(300)},
			},
			wantErr: ErrSumMismatch,
		},
		{
			name:  "negative amount rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Amount: centsPtr(1100)},
				{UserID: 2, Amount: centsPtr(-100)},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:  "missing amount rejected",
			total: 1000,
			parts: []Input{
				{UserID: 1, Amount: centsPtr(1000)},
				{UserID: 2},
			},
			wantErr: ErrMissingAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := (&ExactStrategy{}).Allocate(tt.total, tt.parts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Allocate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			for i, want := range tt.want {
				if shares[i].Amount != want {
					t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want)
				}
			}
		})
	}
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()
	for _, typ := range []Type{TypeEqual, TypePercentage, TypeShares, TypeExact} {
		s, err := f.Create(typ)
		if err != nil {
			t.Fatalf("Create(%s): %v", typ, err)
		}
		if s.Type() != typ {
			t.Errorf("Create(%s).Type() = %s", typ, s.Type())
		}
	}

	if _, err := f.CreateFromString("HALVERSIES"); !errors.Is(err, ErrInvalidSplit) {
		t.Errorf("unknown type error = %v, want ErrInvalidSplit", err)
	}
}
