package dashboard

import (
	"context"

	"github.com/roomieconnect/ledger/internal/money"
)

// Store is the read-only persistence port behind the dashboard.
type Store interface {
	UserGroupIDs(ctx context.Context, userID int64) ([]int64, error)
	MonthStats(ctx context.Context, userID int64, groupIDs []int64) (money.Cents, int, error)
	AllTimeSpent(ctx context.Context, userID int64, groupIDs []int64) (money.Cents, error)
	MonthlySpend(ctx context.Context, userID int64, groupIDs []int64) ([]MonthlySpend, error)
	TopGroups(ctx context.Context, userID int64) ([]TopGroup, error)
	RecentExpenses(ctx context.Context, userID int64, groupIDs []int64) ([]RecentExpense, error)
	RecentSettlements(ctx context.Context, userID int64, groupIDs []int64) ([]RecentSettlement, error)
}

// Service assembles the per-user dashboard summary
type Service struct {
	store Store
}

// NewService creates a new dashboard service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// UserSummary builds the dashboard for one user. A user with no groups gets
// an empty summary, not an error.
func (s *Service) UserSummary(ctx context.Context, userID int64) (*Summary, error) {
	groupIDs, err := s.store.UserGroupIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		MonthlySpend:      []MonthlySpend{},
		TopGroups:         []TopGroup{},
		RecentExpenses:    []RecentExpense{},
		RecentSettlements: []RecentSettlement{},
	}
	if len(groupIDs) == 0 {
		return summary, nil
	}

	summary.MonthSpentCents, summary.MonthExpenseCount, err = s.store.MonthStats(ctx, userID, groupIDs)
	if err != nil {
		return nil, err
	}
	summary.AllTimeSpentCents, err = s.store.AllTimeSpent(ctx, userID, groupIDs)
	if err != nil {
		return nil, err
	}
	if monthly, err := s.store.MonthlySpend(ctx, userID, groupIDs); err != nil {
		return nil, err
	} else if monthly != nil {
		summary.MonthlySpend = monthly
	}
	if top, err := s.store.TopGroups(ctx, userID); err != nil {
		return nil, err
	} else if top != nil {
		summary.TopGroups = top
	}
	if expenses, err := s.store.RecentExpenses(ctx, userID, groupIDs); err != nil {
		return nil, err
	} else if expenses != nil {
		summary.RecentExpenses = expenses
	}
	if settlements, err := s.store.RecentSettlements(ctx, userID, groupIDs); err != nil {
		return nil, err
	} else if settlements != nil {
		summary.RecentSettlements = settlements
	}

	return summary, nil
}
