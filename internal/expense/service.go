package expense

import (
	"context"
	"errors"
	"strings"

	"github.com/roomieconnect/ledger/internal/expense/split"
	"github.com/roomieconnect/ledger/internal/money"
	"github.com/roomieconnect/ledger/pkg/metrics"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrEmptyGroup      = errors.New("group has no members to split with")
	ErrMissingFields   = errors.New("description and a positive amount are required")

	// ErrInvalidSplit re-exports the allocator's root error so callers can
	// match allocation failures without importing the split package.
	ErrInvalidSplit = split.ErrInvalidSplit
)

// Store is the persistence port the expense ledger depends on. Mutating
// methods are atomic: the expense and its splits land together or not at all.
type Store interface {
	CreateExpenseWithSplits(ctx context.Context, e *Expense, shares []split.Share) (*ExpenseWithSplits, error)
	ReplaceExpense(ctx context.Context, id int64, e *Expense, shares []split.Share) (*ExpenseWithSplits, error)
	DeleteExpense(ctx context.Context, id int64) error
	GetExpenseByID(ctx context.Context, id int64) (*Expense, error)
	GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error)
	ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error)
	GroupMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// Service handles expense business logic
type Service struct {
	store        Store
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected
func NewService(store Store, splitFactory *split.Factory) *Service {
	return &Service{store: store, splitFactory: splitFactory}
}

// allocate resolves the participant set and runs the split policy. When no
// participants are supplied the group's current membership is used.
func (s *Service) allocate(ctx context.Context, groupID int64, total money.Cents, splitType string, participants []split.Input) ([]split.Share, error) {
	strategy, err := s.splitFactory.CreateFromString(splitType)
	if err != nil {
		return nil, err
	}

	if len(participants) == 0 {
		memberIDs, err := s.store.GroupMemberIDs(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if len(memberIDs) == 0 {
			return nil, ErrEmptyGroup
		}
		participants = make([]split.Input, len(memberIDs))
		for i, id := range memberIDs {
			participants[i] = split.Input{UserID: id}
		}
	}

	shares, err := strategy.Allocate(total, participants)
	if err != nil {
		return nil, err
	}

	// The strategies already guarantee this, but the ledger invariant is
	// checked once more before anything is written.
	var sum money.Cents
	for _, sh := range shares {
		if sh.Amount < 0 {
			return nil, split.ErrNegativeShare
		}
		sum += sh.Amount
	}
	if sum != total {
		return nil, split.ErrSumMismatch
	}

	return shares, nil
}

// CreateExpense validates the request, allocates the splits and persists
// expense plus splits as one atomic unit.
func (s *Service) CreateExpense(ctx context.Context, creatorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	description := strings.TrimSpace(req.Description)
	total := req.Cents()
	if description == "" || total <= 0 {
		return nil, ErrMissingFields
	}

	payerID := req.PaidBy
	if payerID == 0 {
		payerID = creatorID
	}

	shares, err := s.allocate(ctx, req.GroupID, total, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	result, err := s.store.CreateExpenseWithSplits(ctx, &Expense{
		GroupID:     req.GroupID,
		Description: description,
		AmountCents: total,
		PaidBy:      payerID,
		CreatedBy:   creatorID,
	}, shares)
	if err != nil {
		return nil, err
	}

	metrics.ExpensesCreated.Inc()
	return result, nil
}

// UpdateExpense re-derives the splits from the new fields and atomically
// replaces the expense's prior splits with the regenerated set.
func (s *Service) UpdateExpense(ctx context.Context, id int64, req *UpdateExpenseRequest) (*ExpenseWithSplits, error) {
	existing, err := s.store.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}

	description := strings.TrimSpace(req.Description)
	total := req.Cents()
	if description == "" || total <= 0 {
		return nil, ErrMissingFields
	}

	payerID := req.PaidBy
	if payerID == 0 {
		payerID = existing.PaidBy
	}

	shares, err := s.allocate(ctx, existing.GroupID, total, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	return s.store.ReplaceExpense(ctx, id, &Expense{
		GroupID:     existing.GroupID,
		Description: description,
		AmountCents: total,
		PaidBy:      payerID,
		CreatedBy:   existing.CreatedBy,
	}, shares)
}

// GetExpenseByID retrieves an expense with its splits
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	exp, err := s.store.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.store.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

// GetSplits retrieves the splits of an expense
func (s *Service) GetSplits(ctx context.Context, expenseID int64) ([]*Split, error) {
	exp, err := s.store.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}
	return s.store.GetSplitsByExpenseID(ctx, expenseID)
}

// ListExpensesByGroupID retrieves expenses for a group
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// DeleteExpense removes an expense and all of its splits atomically.
func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	existing, err := s.store.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrExpenseNotFound
	}

	return s.store.DeleteExpense(ctx, id)
}
