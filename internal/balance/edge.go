package balance

import (
	"sort"

	"github.com/roomieconnect/ledger/internal/money"
)

// Edge is a directed obligation: Debtor owes Creditor Amount cents.
//
// Expense splits contribute participant -> payer for every participant other
// than the payer. Non-failed settlements contribute to_user -> from_user:
// paying a debt down flips the obligation, which cancels against the expense
// edges it covers.
type Edge struct {
	Debtor   int64
	Creditor int64
	Amount   money.Cents
}

// NetBetween sums the edges running between a and b. Positive means b owes a.
func NetBetween(edges []Edge, a, b int64) money.Cents {
	var net money.Cents
	for _, e := range edges {
		switch {
		case e.Debtor == b && e.Creditor == a:
			net += e.Amount
		case e.Debtor == a && e.Creditor == b:
			net -= e.Amount
		}
	}
	return net
}

// NetPerUser returns each user's net position over the edge set: incoming
// minus outgoing. Positive means the user is owed money overall.
func NetPerUser(edges []Edge) map[int64]money.Cents {
	nets := make(map[int64]money.Cents)
	for _, e := range edges {
		nets[e.Creditor] += e.Amount
		nets[e.Debtor] -= e.Amount
	}
	return nets
}

// NetPerCounterparty aggregates the edges touching userID by the user on the
// other end. Positive means that counterparty owes userID.
func NetPerCounterparty(edges []Edge, userID int64) map[int64]money.Cents {
	nets := make(map[int64]money.Cents)
	for _, e := range edges {
		switch userID {
		case e.Creditor:
			nets[e.Debtor] += e.Amount
		case e.Debtor:
			nets[e.Creditor] -= e.Amount
		}
	}
	return nets
}

// MemberBalance is one member's net position within a group.
type MemberBalance struct {
	UserID int64
	Name   string
	Net    money.Cents
}

// FriendBalance is the net position against one counterparty across every
// shared group plus groupless settlements.
type FriendBalance struct {
	UserID int64
	Name   string
	Net    money.Cents
}

// sortMemberBalances orders by net descending, then name, then user ID, so
// output is stable for a fixed ledger state.
func sortMemberBalances(balances []MemberBalance) {
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Net != balances[j].Net {
			return balances[i].Net > balances[j].Net
		}
		if balances[i].Name != balances[j].Name {
			return balances[i].Name < balances[j].Name
		}
		return balances[i].UserID < balances[j].UserID
	})
}

// sortFriendBalances orders by absolute net descending, then name, then
// user ID.
func sortFriendBalances(balances []FriendBalance) {
	sort.Slice(balances, func(i, j int) bool {
		ai, aj := balances[i].Net.Abs(), balances[j].Net.Abs()
		if ai != aj {
			return ai > aj
		}
		if balances[i].Name != balances[j].Name {
			return balances[i].Name < balances[j].Name
		}
		return balances[i].UserID < balances[j].UserID
	})
}
