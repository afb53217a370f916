package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roomieconnect/ledger/internal/expense/split"
	"github.com/roomieconnect/ledger/internal/money"
)

// fakeStore is an in-memory Store that mimics the transactional behavior of
// the Postgres repository: an expense and its splits appear together.
type fakeStore struct {
	nextExpenseID int64
	nextSplitID   int64
	expenses      map[int64]*Expense
	splits        map[int64][]*Split // expenseID -> splits
	members       map[int64][]int64  // groupID -> user IDs
	failWrites    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		expenses: make(map[int64]*Expense),
		splits:   make(map[int64][]*Split),
		members:  make(map[int64][]int64),
	}
}

var errStorageDown = errors.New("storage down")

func (f *fakeStore) CreateExpenseWithSplits(_ context.Context, e *Expense, shares []split.Share) (*ExpenseWithSplits, error) {
	if f.failWrites {
		return nil, errStorageDown
	}
	f.nextExpenseID++
	expense := *e
	expense.ID = f.nextExpenseID
	expense.CreatedAt = time.Now()
	f.expenses[expense.ID] = &expense

	var splits []*Split
	for _, sh := range shares {
		f.nextSplitID++
		splits = append(splits, &Split{
			ID:         f.nextSplitID,
			ExpenseID:  expense.ID,
			UserID:     sh.UserID,
			ShareCents: sh.Amount,
		})
	}
	f.splits[expense.ID] = splits
	return &ExpenseWithSplits{Expense: &expense, Splits: splits}, nil
}

func (f *fakeStore) ReplaceExpense(_ context.Context, id int64, e *Expense, shares []split.Share) (*ExpenseWithSplits, error) {
	if f.failWrites {
		return nil, errStorageDown
	}
	existing, ok := f.expenses[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	existing.Description = e.Description
	existing.AmountCents = e.AmountCents
	existing.PaidBy = e.PaidBy

	var splits []*Split
	for _, sh := range shares {
		f.nextSplitID++
		splits = append(splits, &Split{
			ID:         f.nextSplitID,
			ExpenseID:  id,
			UserID:     sh.UserID,
			ShareCents: sh.Amount,
		})
	}
	f.splits[id] = splits
	return &ExpenseWithSplits{Expense: existing, Splits: splits}, nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id int64) error {
	if _, ok := f.expenses[id]; !ok {
		return ErrExpenseNotFound
	}
	delete(f.expenses, id)
	delete(f.splits, id)
	return nil
}

func (f *fakeStore) GetExpenseByID(_ context.Context, id int64) (*Expense, error) {
	return f.expenses[id], nil
}

func (f *fakeStore) GetSplitsByExpenseID(_ context.Context, expenseID int64) ([]*Split, error) {
	return f.splits[expenseID], nil
}

func (f *fakeStore) ListExpensesByGroupID(_ context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var out []*Expense
	for _, e := range f.expenses {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GroupMemberIDs(_ context.Context, groupID int64) ([]int64, error) {
	return f.members[groupID], nil
}

func newTestService(store Store) *Service {
	return NewService(store, split.NewFactory())
}

func centsReq(c money.Cents) *money.Cents { return &c }

func TestCreateExpenseEqualSplit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Groceries",
		AmountCents: centsReq(1000),
		PaidBy:      1,
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
			{UserID: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if result.Expense.AmountCents != 1000 {
		t.Errorf("amount = %d, want 1000", result.Expense.AmountCents)
	}
	if len(result.Splits) != 2 {
		t.Fatalf("got %d splits, want 2", len(result.Splits))
	}
	var sum money.Cents
	for _, s := range result.Splits {
		sum += s.ShareCents
	}
	if sum != 1000 {
		t.Errorf("splits sum to %d, want 1000", sum)
	}
	// B's share of the ten dollar expense is exactly five dollars.
	if result.Splits[1].UserID != 2 || result.Splits[1].ShareCents != 500 {
		t.Errorf("split[1] = user %d share %d, want user 2 share 500",
			result.Splits[1].UserID, result.Splits[1].ShareCents)
	}
}

func TestCreateExpenseDefaultsToGroupMembers(t *testing.T) {
	store := newFakeStore()
	store.members[10] = []int64{1, 2, 3}
	svc := newTestService(store)

	result, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Utilities",
		AmountCents: centsReq(300),
		SplitType:   "EQUAL",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if len(result.Splits) != 3 {
		t.Fatalf("got %d splits, want 3 (one per member)", len(result.Splits))
	}
	// Payer defaults to the creator when the request leaves it blank.
	if result.Expense.PaidBy != 1 {
		t.Errorf("paid_by = %d, want creator 1", result.Expense.PaidBy)
	}
}

func TestCreateExpenseEmptyGroup(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     99,
		Description: "Nothing to split",
		AmountCents: centsReq(100),
		SplitType:   "EQUAL",
	})
	if !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("err = %v, want ErrEmptyGroup", err)
	}
	if len(store.expenses) != 0 {
		t.Error("expense persisted despite validation failure")
	}
}

func TestCreateExpenseInvalidSplitNotPersisted(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	tests := []struct {
		name string
		req  *CreateExpenseRequest
	}{
		{
			name: "exact amounts not covering total",
			req: &CreateExpenseRequest{
				GroupID:     10,
				Description: "Dinner",
				AmountCents: centsReq(1000),
				SplitType:   "EXACT",
				Participants: []split.Input{
					{UserID: 1, Amount: centsReq(400)},
					{UserID: 2, Amount: centsReq(400)},
				},
			},
		},
		{
			name: "percentages rounding away from total",
			req: &CreateExpenseRequest{
				GroupID:     10,
				Description: "Rent",
				AmountCents: centsReq(100),
				SplitType:   "PERCENTAGE",
				Participants: []split.Input{
					{UserID: 1, Percentage: floatPtr(33.33)},
					{UserID: 2, Percentage: floatPtr(33.33)},
					{UserID: 3, Percentage: floatPtr(33.33)},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), 1, tt.req)
			if !errors.Is(err, ErrInvalidSplit) {
				t.Fatalf("err = %v, want ErrInvalidSplit", err)
			}
			if len(store.expenses) != 0 {
				t.Error("expense persisted despite invalid split")
			}
		})
	}
}

func TestThreeWaySharesScenario(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	one := int64(1)
	result, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Coffee",
		AmountCents: centsReq(100),
		PaidBy:      1,
		SplitType:   "SHARES",
		Participants: []split.Input{
			{UserID: 1, Weight: &one},
			{UserID: 2, Weight: &one},
			{UserID: 3, Weight: &one},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	want := []money.Cents{34, 33, 33}
	for i, s := range result.Splits {
		if s.ShareCents != want[i] {
			t.Errorf("split[%d] = %d, want %d", i, s.ShareCents, want[i])
		}
	}

	if err := svc.DeleteExpense(context.Background(), result.Expense.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if got := store.splits[result.Expense.ID]; len(got) != 0 {
		t.Errorf("%d splits survived expense deletion", len(got))
	}
}

func TestUpdateExpenseRegeneratesSplits(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Dinner",
		AmountCents: centsReq(1000),
		PaidBy:      1,
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
			{UserID: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	updated, err := svc.UpdateExpense(context.Background(), created.Expense.ID, &UpdateExpenseRequest{
		Description: "Dinner and drinks",
		AmountCents: centsReq(1500),
		PaidBy:      2,
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
			{UserID: 2},
			{UserID: 3},
		},
	})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}

	if updated.Expense.AmountCents != 1500 {
		t.Errorf("amount = %d, want 1500", updated.Expense.AmountCents)
	}
	if updated.Expense.PaidBy != 2 {
		t.Errorf("paid_by = %d, want 2", updated.Expense.PaidBy)
	}
	if len(updated.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(updated.Splits))
	}
	var sum money.Cents
	for _, s := range updated.Splits {
		sum += s.ShareCents
	}
	if sum != 1500 {
		t.Errorf("splits sum to %d, want 1500", sum)
	}
	// Old split set is fully replaced, not appended to.
	if got := len(store.splits[created.Expense.ID]); got != 3 {
		t.Errorf("store holds %d splits, want 3", got)
	}
}

func TestUpdateUnknownExpense(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.UpdateExpense(context.Background(), 42, &UpdateExpenseRequest{
		Description: "Ghost",
		AmountCents: centsReq(100),
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
		},
	})
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("err = %v, want ErrExpenseNotFound", err)
	}
}

func TestCreateExpenseStorageFaultPropagates(t *testing.T) {
	store := newFakeStore()
	store.failWrites = true
	svc := newTestService(store)

	_, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Doomed",
		AmountCents: centsReq(100),
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
		},
	})
	if !errors.Is(err, errStorageDown) {
		t.Fatalf("err = %v, want storage fault passed through", err)
	}
}

func TestLegacyDollarAmountAdapter(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	dollars := 12.50
	result, err := svc.CreateExpense(context.Background(), 1, &CreateExpenseRequest{
		GroupID:     10,
		Description: "Takeout",
		Amount:      &dollars,
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1},
			{UserID: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if result.Expense.AmountCents != 1250 {
		t.Errorf("amount = %d cents, want 1250", result.Expense.AmountCents)
	}
}

func floatPtr(v float64) *float64 { return &v }
