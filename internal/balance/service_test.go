package balance

import (
	"context"
	"testing"

	"github.com/roomieconnect/ledger/internal/money"
)

// fakeStore serves edges from fixed slices keyed by group.
type fakeStore struct {
	expenseEdges    map[int64][]Edge // groupID -> edges
	settlementEdges map[int64][]Edge
	grouplessEdges  []Edge
	members         map[int64][]Member
	names           map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenseEdges:    make(map[int64][]Edge),
		settlementEdges: make(map[int64][]Edge),
		members:         make(map[int64][]Member),
		names:           make(map[int64]string),
	}
}

func (f *fakeStore) ExpenseEdges(_ context.Context, groupIDs []int64) ([]Edge, error) {
	var out []Edge
	for _, id := range groupIDs {
		out = append(out, f.expenseEdges[id]...)
	}
	return out, nil
}

func (f *fakeStore) SettlementEdges(_ context.Context, groupIDs []int64) ([]Edge, error) {
	var out []Edge
	for _, id := range groupIDs {
		out = append(out, f.settlementEdges[id]...)
	}
	return out, nil
}

func (f *fakeStore) GrouplessSettlementEdgesBetween(_ context.Context, a, b int64) ([]Edge, error) {
	var out []Edge
	for _, e := range f.grouplessEdges {
		if (e.Debtor == a && e.Creditor == b) || (e.Debtor == b && e.Creditor == a) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GrouplessSettlementEdgesFor(_ context.Context, userID int64) ([]Edge, error) {
	var out []Edge
	for _, e := range f.grouplessEdges {
		if e.Debtor == userID || e.Creditor == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GroupMembers(_ context.Context, groupID int64) ([]Member, error) {
	return f.members[groupID], nil
}

func (f *fakeStore) UserGroupIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for id, members := range f.members {
		for _, m := range members {
			if m.UserID == userID {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (f *fakeStore) SharedGroupIDs(_ context.Context, a, b int64) ([]int64, error) {
	var ids []int64
	for id, members := range f.members {
		var hasA, hasB bool
		for _, m := range members {
			hasA = hasA || m.UserID == a
			hasB = hasB || m.UserID == b
		}
		if hasA && hasB {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) UserNames(_ context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		names[id] = f.names[id]
	}
	return names, nil
}

func TestNetBalanceSettlementClearsDebt(t *testing.T) {
	// A (1) paid a 1000-cent expense split equally with B (2), then B
	// settled the 500 back.
	store := newFakeStore()
	store.members[10] = []Member{{UserID: 1, Name: "Alice"}, {UserID: 2, Name: "Bob"}}
	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 500}}

	svc := NewService(store)

	net, err := svc.NetBalance(context.Background(), []int64{10}, 1, 2)
	if err != nil {
		t.Fatalf("NetBalance() error = %v", err)
	}
	if net != 500 {
		t.Errorf("net before settlement = %d, want 500", net)
	}

	store.settlementEdges[10] = []Edge{{Debtor: 1, Creditor: 2, Amount: 500}}

	net, err = svc.NetBalance(context.Background(), []int64{10}, 1, 2)
	if err != nil {
		t.Fatalf("NetBalance() error = %v", err)
	}
	if net != 0 {
		t.Errorf("net after settlement = %d, want 0", net)
	}
}

func TestNetBalanceDefaultsToSharedGroups(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []Member{{UserID: 1}, {UserID: 2}}
	store.members[20] = []Member{{UserID: 1}, {UserID: 3}} // not shared with 2
	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 400}}
	store.expenseEdges[20] = []Edge{{Debtor: 3, Creditor: 1, Amount: 9999}}

	svc := NewService(store)

	net, err := svc.NetBalance(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("NetBalance() error = %v", err)
	}
	if net != 400 {
		t.Errorf("net = %d, want 400", net)
	}
}

func TestNetBalanceIncludesGrouplessSettlements(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []Member{{UserID: 1}, {UserID: 2}}
	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 800}}
	store.grouplessEdges = []Edge{{Debtor: 1, Creditor: 2, Amount: 300}} // B settled 300 outside any group

	svc := NewService(store)

	net, err := svc.NetBalance(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("NetBalance() error = %v", err)
	}
	if net != 500 {
		t.Errorf("net = %d, want 500", net)
	}
}

func TestNetBalanceSameUser(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.NetBalance(context.Background(), nil, 1, 1); err != ErrSameUser {
		t.Errorf("NetBalance() error = %v, want %v", err, ErrSameUser)
	}
}

func TestGroupNetBalancesIncludesZeroBalances(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []Member{
		{UserID: 1, Name: "Alice"},
		{UserID: 2, Name: "Bob"},
		{UserID: 3, Name: "Cara"}, // no expenses or settlements yet
	}
	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 500}}

	svc := NewService(store)

	balances, err := svc.GroupNetBalances(context.Background(), 10)
	if err != nil {
		t.Fatalf("GroupNetBalances() error = %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("members = %d, want 3", len(balances))
	}

	want := []struct {
		userID int64
		net    money.Cents
	}{
		{1, 500},
		{3, 0},
		{2, -500},
	}
	for i, w := range want {
		if balances[i].UserID != w.userID || balances[i].Net != w.net {
			t.Errorf("balances[%d] = {%d %d}, want {%d %d}",
				i, balances[i].UserID, balances[i].Net, w.userID, w.net)
		}
	}

	var total money.Cents
	for _, b := range balances {
		total += b.Net
	}
	if total != 0 {
		t.Errorf("balances sum to %d, want 0", total)
	}
}

func TestFriendBalancesAggregatesAcrossGroups(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []Member{{UserID: 1}, {UserID: 2}}
	store.members[20] = []Member{{UserID: 1}, {UserID: 2}, {UserID: 3}}
	store.names = map[int64]string{2: "Bob", 3: "Cara"}

	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 500}}
	store.expenseEdges[20] = []Edge{
		{Debtor: 2, Creditor: 1, Amount: 250},
		{Debtor: 1, Creditor: 3, Amount: 100},
	}
	store.grouplessEdges = []Edge{{Debtor: 1, Creditor: 2, Amount: 50}} // B settled 50 outside groups

	svc := NewService(store)

	balances, err := svc.FriendBalances(context.Background(), 1)
	if err != nil {
		t.Fatalf("FriendBalances() error = %v", err)
	}

	if len(balances) != 2 {
		t.Fatalf("friends = %d, want 2", len(balances))
	}
	if balances[0].UserID != 2 || balances[0].Net != 700 || balances[0].Name != "Bob" {
		t.Errorf("balances[0] = %+v, want Bob owing 700", balances[0])
	}
	if balances[1].UserID != 3 || balances[1].Net != -100 {
		t.Errorf("balances[1] = %+v, want owing Cara 100", balances[1])
	}
}

func TestFriendBalancesDropsSettledCounterparties(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []Member{{UserID: 1}, {UserID: 2}}
	store.expenseEdges[10] = []Edge{{Debtor: 2, Creditor: 1, Amount: 500}}
	store.settlementEdges[10] = []Edge{{Debtor: 1, Creditor: 2, Amount: 500}}

	svc := NewService(store)

	balances, err := svc.FriendBalances(context.Background(), 1)
	if err != nil {
		t.Fatalf("FriendBalances() error = %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("friends = %d, want 0 after full settlement", len(balances))
	}
}
