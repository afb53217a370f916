package dashboard

import (
	"time"

	"github.com/roomieconnect/ledger/internal/money"
)

// MonthlySpend is one month of the user's spend series, keyed "YYYY-MM".
type MonthlySpend struct {
	Month      string      `json:"month"`
	SpentCents money.Cents `json:"spent_cents"`
}

// TopGroup ranks a group by the user's spend there this month.
type TopGroup struct {
	GroupID    int64       `json:"group_id"`
	Name       string      `json:"name"`
	SpentCents money.Cents `json:"spent_cents"`
}

// RecentExpense is one of the latest expenses the user has a share in.
type RecentExpense struct {
	ID             int64       `json:"id"`
	GroupID        int64       `json:"group_id"`
	GroupName      string      `json:"group_name"`
	Description    string      `json:"description"`
	AmountCents    money.Cents `json:"amount_cents"`
	PaidBy         int64       `json:"paid_by"`
	PaidByName     string      `json:"paid_by_name"`
	YourShareCents money.Cents `json:"your_share_cents"`
	CreatedAt      time.Time   `json:"created_at"`
}

// RecentSettlement is one of the latest settlements involving the user.
type RecentSettlement struct {
	ID          int64       `json:"id"`
	GroupID     int64       `json:"group_id"`
	GroupName   string      `json:"group_name"`
	FromUser    int64       `json:"from_user"`
	FromName    string      `json:"from_name"`
	ToUser      int64       `json:"to_user"`
	ToName      string      `json:"to_name"`
	AmountCents money.Cents `json:"amount_cents"`
	Status      string      `json:"status"`
	Provider    string      `json:"provider"`
	Note        string      `json:"note"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Summary is the per-user dashboard: spend is the user's own split shares,
// not the full amounts of expenses they appear in.
type Summary struct {
	MonthSpentCents   money.Cents        `json:"month_spent_cents"`
	MonthExpenseCount int                `json:"month_expense_count"`
	AllTimeSpentCents money.Cents        `json:"all_time_spent_cents"`
	MonthlySpend      []MonthlySpend     `json:"monthly_spend"`
	TopGroups         []TopGroup         `json:"top_groups"`
	RecentExpenses    []RecentExpense    `json:"recent_expenses"`
	RecentSettlements []RecentSettlement `json:"recent_settlements"`
}
