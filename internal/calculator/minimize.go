package calculator

import (
	"fmt"
	"strings"
)

// Payment is one suggested transfer in a settlement plan.
type Payment struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// Outstanding is an unsettled magnitude left for one person.
type Outstanding struct {
	Person string
	Amount float64
}

// ConsistencyWarning is reported when the minimizer runs out of one side
// (creditors or debtors) while the other side still has money outstanding.
// This only happens when the balances did not sum to zero.
type ConsistencyWarning struct {
	Creditors []Outstanding // creditors still owed money
	Debtors   []Outstanding // debtors still owing money
}

// Residual returns the total left unmatched on both sides.
func (w *ConsistencyWarning) Residual() float64 {
	var sum float64
	for _, o := range w.Creditors {
		sum += o.Amount
	}
	for _, o := range w.Debtors {
		sum += o.Amount
	}
	return sum
}

func (w *ConsistencyWarning) Error() string {
	var parts []string
	for _, o := range w.Creditors {
		parts = append(parts, fmt.Sprintf("%s is still owed %.2f", o.Person, o.Amount))
	}
	for _, o := range w.Debtors {
		parts = append(parts, fmt.Sprintf("%s still owes %.2f", o.Person, o.Amount))
	}
	return "balances do not sum to zero: " + strings.Join(parts, ", ")
}

// Plan is the result of MinimizeSettlements.
type Plan struct {
	Payments []Payment
	// Warning is non-nil when the balances were inconsistent. Payments then
	// holds the best-effort partial plan.
	Warning *ConsistencyWarning
}

// MinimizeSettlements turns net balances into a short list of payments that
// clears them.
//
// Creditors (balance > Tolerance) and debtors (balance < -Tolerance) are each
// taken in lexicographic order of person. Two cursors walk the lists: every step
// pays min(creditor remaining, debtor remaining) from the current debtor to the
// current creditor, and a cursor advances once its remaining amount drops below
// Tolerance. This greedy matching emits at most creditors+debtors-1 payments; it
// is not guaranteed to find the fewest possible payments.
func MinimizeSettlements(balances NetBalance) Plan {
	var creditors, debtors []Outstanding
	for _, person := range balances.People() {
		v := balances[person]
		switch {
		case v > Tolerance:
			creditors = append(creditors, Outstanding{Person: person, Amount: v})
		case v < -Tolerance:
			debtors = append(debtors, Outstanding{Person: person, Amount: -v})
		}
	}

	var plan Plan
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := min(creditor.Amount, debtor.Amount)
		plan.Payments = append(plan.Payments, Payment{
			From:   debtor.Person,
			To:     creditor.Person,
			Amount: amount,
		})

		creditor.Amount -= amount
		debtor.Amount -= amount

		if creditor.Amount < Tolerance {
			i++
		}
		if debtor.Amount < Tolerance {
			j++
		}
	}

	if i < len(creditors) || j < len(debtors) {
		plan.Warning = &ConsistencyWarning{
			Creditors: append([]Outstanding(nil), creditors[i:]...),
			Debtors:   append([]Outstanding(nil), debtors[j:]...),
		}
	}

	return plan
}
