package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the amount below which a balance counts as settled.
const Tolerance = 0.01

// NetBalance maps a person to their signed balance.
// Positive = is owed money, negative = owes money. Absent keys are zero.
type NetBalance map[string]float64

// People returns the persons in the mapping in lexicographic order.
func (b NetBalance) People() []string {
	people := make([]string, 0, len(b))
	for p := range b {
		people = append(people, p)
	}
	sort.Strings(people)
	return people
}

// Total returns the sum of all balances. It is zero (up to rounding) for any
// consistent set of transactions and settlements.
func (b NetBalance) Total() float64 {
	var sum float64
	for _, p := range b.People() {
		sum += b[p]
	}
	return sum
}

// AllSettled reports whether every balance is within Tolerance of zero.
func (b NetBalance) AllSettled() bool {
	for _, v := range b {
		if !IsSettled(v) {
			return false
		}
	}
	return true
}

// IsSettled reports whether v is within Tolerance of zero. A balance of exactly
// ±Tolerance is settled.
func IsSettled(v float64) bool {
	return math.Abs(v) <= Tolerance
}

// Status describes a balance for display.
type Status string

const (
	StatusGets    Status = "gets"
	StatusOwes    Status = "owes"
	StatusSettled Status = "settled"
)

// StatusOf classifies a balance using Tolerance.
func StatusOf(v float64) Status {
	switch {
	case v > Tolerance:
		return StatusGets
	case v < -Tolerance:
		return StatusOwes
	default:
		return StatusSettled
	}
}

// MemberBalance represents the balance information for one person.
type MemberBalance struct {
	MemberName string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total advanced as payer across transactions
	TotalOwed  float64 // Total of this person's shares across transactions
	SettledOut float64 // Total paid to others through settlements
	SettledIn  float64 // Total received from others through settlements
}

// Status classifies the member's net balance.
func (m MemberBalance) Status() Status {
	return StatusOf(m.NetBalance)
}

// inGroup reports whether a record with recordGroup passes the filter.
// An empty filter matches everything.
func inGroup(filter, recordGroup string) bool {
	return filter == "" || filter == recordGroup
}

// CalculateMemberBalances folds transactions and settlements into per-person
// balances, restricted to groupID when it is non-empty. The result is sorted by
// member name.
//
// Algorithm:
//   - For each transaction: every participant's share is subtracted from their
//     balance, and the full amount is added to the payer's balance
//   - For each settlement: the debtor's balance rises by the amount and the
//     creditor's falls by the same amount
//
// Inputs are never modified. Settled transactions are skipped.
func CalculateMemberBalances(txns []models.Transaction, settlements []models.Settlement, groupID string) ([]MemberBalance, error) {
	balances := make(map[string]*MemberBalance)
	get := func(name string) *MemberBalance {
		b, ok := balances[name]
		if !ok {
			b = &MemberBalance{MemberName: name}
			balances[name] = b
		}
		return b
	}

	for _, txn := range txns {
		if txn.Settled || !inGroup(groupID, txn.GroupID) {
			continue
		}

		shares, err := Shares(txn)
		if err != nil {
			return nil, err
		}

		for i, participant := range txn.Participants {
			b := get(participant)
			b.TotalOwed += shares[i]
			b.NetBalance -= shares[i]
		}

		payer := get(txn.Payer)
		payer.TotalPaid += txn.Amount
		payer.NetBalance += txn.Amount
	}

	for _, s := range settlements {
		if !inGroup(groupID, s.GroupID) {
			continue
		}

		from := get(s.FromUserID)
		from.SettledOut += s.Amount
		from.NetBalance += s.Amount

		to := get(s.ToUserID)
		to.SettledIn += s.Amount
		to.NetBalance -= s.Amount
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MemberName < result[j].MemberName
	})

	return result, nil
}

// CalculateNetBalances returns each person's net balance over the transactions
// and settlements in scope. An empty groupID means all groups and personal
// records combined.
func CalculateNetBalances(txns []models.Transaction, settlements []models.Settlement, groupID string) (NetBalance, error) {
	members, err := CalculateMemberBalances(txns, settlements, groupID)
	if err != nil {
		return nil, err
	}

	net := make(NetBalance, len(members))
	for _, m := range members {
		net[m.MemberName] = m.NetBalance
	}
	return net, nil
}
