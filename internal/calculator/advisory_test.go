package calculator

import (
	"math"
	"testing"
)

func TestReviewSettlement(t *testing.T) {
	balances := NetBalance{"A": 200, "B": -100, "C": -100}

	tests := []struct {
		name     string
		from, to string
		amount   float64
		want     []AdvisoryKind
	}{
		{name: "valid settlement", from: "B", to: "A", amount: 100},
		{name: "partial settlement", from: "C", to: "A", amount: 40},
		{name: "within tolerance of the limit", from: "B", to: "A", amount: 100.005},
		{name: "exceeds outstanding", from: "B", to: "A", amount: 150, want: []AdvisoryKind{AdvisoryExceedsOutstanding}},
		{
			name: "creditor paying debtor",
			from: "A", to: "B", amount: 10,
			want: []AdvisoryKind{AdvisoryDebtorNotOwing, AdvisoryCreditorNotOwed, AdvisoryExceedsOutstanding},
		},
		{
			name: "between two debtors",
			from: "B", to: "C", amount: 5,
			want: []AdvisoryKind{AdvisoryCreditorNotOwed, AdvisoryExceedsOutstanding},
		},
		{
			name: "unknown people",
			from: "X", to: "Y", amount: 1,
			want: []AdvisoryKind{AdvisoryDebtorNotOwing, AdvisoryCreditorNotOwed, AdvisoryExceedsOutstanding},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewSettlement(balances, tt.from, tt.to, tt.amount)
			if len(got) != len(tt.want) {
				t.Fatalf("got advisories %+v, want kinds %v", got, tt.want)
			}
			for i, kind := range tt.want {
				if got[i].Kind != kind {
					t.Errorf("advisory[%d] = %s, want %s", i, got[i].Kind, kind)
				}
				if got[i].Message == "" {
					t.Errorf("advisory[%d] has no message", i)
				}
			}
		})
	}

	if _, ok := balances["X"]; ok {
		t.Error("ReviewSettlement must not add entries to the balances")
	}
}

func TestMaxSettleable(t *testing.T) {
	balances := NetBalance{"A": 30, "B": -100}
	if got := MaxSettleable(balances, "B", "A"); math.Abs(got-30) > 1e-9 {
		t.Errorf("MaxSettleable(B, A) = %v, want 30", got)
	}
	if got := MaxSettleable(balances, "A", "B"); got != 0 {
		t.Errorf("MaxSettleable(A, B) = %v, want 0", got)
	}
}

func TestAdvisoryRequiresConfirmation(t *testing.T) {
	if !(Advisory{Kind: AdvisoryExceedsOutstanding}).RequiresConfirmation() {
		t.Error("exceeding the outstanding debt should require confirmation")
	}
	if (Advisory{Kind: AdvisoryDebtorNotOwing}).RequiresConfirmation() {
		t.Error("debtor-not-owing is informational only")
	}
}
