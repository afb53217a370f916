package balance

import (
	"context"
	"errors"

	"github.com/roomieconnect/ledger/internal/money"
)

// ErrSameUser is returned when a pairwise balance names one user twice.
var ErrSameUser = errors.New("users must be different")

// Member identifies a group member for balance views.
type Member struct {
	UserID int64
	Name   string
}

// Store fetches edges and membership; all aggregation happens here in pure
// functions over the fetched edges.
type Store interface {
	ExpenseEdges(ctx context.Context, groupIDs []int64) ([]Edge, error)
	SettlementEdges(ctx context.Context, groupIDs []int64) ([]Edge, error)
	GrouplessSettlementEdgesBetween(ctx context.Context, a, b int64) ([]Edge, error)
	GrouplessSettlementEdgesFor(ctx context.Context, userID int64) ([]Edge, error)
	GroupMembers(ctx context.Context, groupID int64) ([]Member, error)
	UserGroupIDs(ctx context.Context, userID int64) ([]int64, error)
	SharedGroupIDs(ctx context.Context, a, b int64) ([]int64, error)
	UserNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Service resolves balances on demand. It holds no state of its own; every
// answer is derived from the ledgers as of the moment of the read.
type Service struct {
	store Store
}

// NewService creates a new balance service
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) edges(ctx context.Context, groupIDs []int64) ([]Edge, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	expense, err := s.store.ExpenseEdges(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	settlement, err := s.store.SettlementEdges(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return append(expense, settlement...), nil
}

// NetBalance returns the signed net between two users over the given groups
// plus their groupless settlements. Positive means b owes a. An empty
// groupIDs slice means every group the two users share.
func (s *Service) NetBalance(ctx context.Context, groupIDs []int64, a, b int64) (money.Cents, error) {
	if a == b {
		return 0, ErrSameUser
	}

	if len(groupIDs) == 0 {
		shared, err := s.store.SharedGroupIDs(ctx, a, b)
		if err != nil {
			return 0, err
		}
		groupIDs = shared
	}

	edges, err := s.edges(ctx, groupIDs)
	if err != nil {
		return 0, err
	}
	groupless, err := s.store.GrouplessSettlementEdgesBetween(ctx, a, b)
	if err != nil {
		return 0, err
	}
	edges = append(edges, groupless...)

	return NetBetween(edges, a, b), nil
}

// GroupNetBalances returns every member's net position within a group,
// including members with a zero balance.
func (s *Service) GroupNetBalances(ctx context.Context, groupID int64) ([]MemberBalance, error) {
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	edges, err := s.edges(ctx, []int64{groupID})
	if err != nil {
		return nil, err
	}
	nets := NetPerUser(edges)

	balances := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		balances = append(balances, MemberBalance{
			UserID: m.UserID,
			Name:   m.Name,
			Net:    nets[m.UserID],
		})
	}
	sortMemberBalances(balances)

	return balances, nil
}

// FriendBalances aggregates the user's net position per counterparty across
// every group they belong to plus their groupless settlements. Counterparties
// that net to zero are dropped.
func (s *Service) FriendBalances(ctx context.Context, userID int64) ([]FriendBalance, error) {
	groupIDs, err := s.store.UserGroupIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	edges, err := s.edges(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	groupless, err := s.store.GrouplessSettlementEdgesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	edges = append(edges, groupless...)

	nets := NetPerCounterparty(edges, userID)

	ids := make([]int64, 0, len(nets))
	for id, net := range nets {
		if net != 0 {
			ids = append(ids, id)
		}
	}
	names, err := s.store.UserNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	balances := make([]FriendBalance, 0, len(ids))
	for _, id := range ids {
		balances = append(balances, FriendBalance{
			UserID: id,
			Name:   names[id],
			Net:    nets[id],
		})
	}
	sortFriendBalances(balances)

	return balances, nil
}
