package calculator

import (
	"fmt"
	"math"
)

// AdvisoryKind names a concern about a proposed settlement.
type AdvisoryKind string

const (
	// AdvisoryDebtorNotOwing: the payer does not currently owe money.
	AdvisoryDebtorNotOwing AdvisoryKind = "debtor_not_owing"
	// AdvisoryCreditorNotOwed: the receiver is not currently owed money.
	AdvisoryCreditorNotOwed AdvisoryKind = "creditor_not_owed"
	// AdvisoryExceedsOutstanding: the amount is more than can be settled between the two.
	AdvisoryExceedsOutstanding AdvisoryKind = "exceeds_outstanding"
)

// Advisory is a warning to show before a settlement is recorded.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
}

// RequiresConfirmation reports whether the advisory should block the settlement
// until the caller explicitly confirms it.
func (a Advisory) RequiresConfirmation() bool {
	return a.Kind == AdvisoryExceedsOutstanding
}

// MaxSettleable returns the most that from can pay to to without either side
// flipping sign: min(what from owes, what to is owed).
func MaxSettleable(balances NetBalance, from, to string) float64 {
	owes := math.Abs(math.Min(0, balances[from]))
	owed := math.Max(0, balances[to])
	return math.Min(owes, owed)
}

// ReviewSettlement checks a proposed settlement against current balances.
// It never rejects anything itself; callers decide what to do with advisories.
func ReviewSettlement(balances NetBalance, from, to string, amount float64) []Advisory {
	var advisories []Advisory

	if balances[from] >= -Tolerance {
		advisories = append(advisories, Advisory{
			Kind:    AdvisoryDebtorNotOwing,
			Message: fmt.Sprintf("%s doesn't owe money", from),
		})
	}

	if balances[to] <= Tolerance {
		advisories = append(advisories, Advisory{
			Kind:    AdvisoryCreditorNotOwed,
			Message: fmt.Sprintf("%s is not owed money", to),
		})
	}

	if limit := MaxSettleable(balances, from, to); amount > limit+Tolerance {
		advisories = append(advisories, Advisory{
			Kind:    AdvisoryExceedsOutstanding,
			Message: fmt.Sprintf("settlement amount %.2f is more than the outstanding debt %.2f", amount, limit),
		})
	}

	return advisories
}
