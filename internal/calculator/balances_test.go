package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func assertBalances(t *testing.T, got NetBalance, want map[string]float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d balances %v, want %d %v", len(got), got, len(want), want)
	}
	for person, w := range want {
		g, ok := got[person]
		if !ok {
			t.Errorf("missing balance for %s", person)
			continue
		}
		if math.Abs(g-w) > 1e-9 {
			t.Errorf("%s balance = %v, want %v", person, g, w)
		}
	}
}

func TestCalculateNetBalances(t *testing.T) {
	equalTxn := models.Transaction{
		ID: 1, Payer: "A", Amount: 300,
		Participants: []string{"A", "B", "C"},
		Split:        models.EqualSplit{},
	}

	tests := []struct {
		name        string
		txns        []models.Transaction
		settlements []models.Settlement
		groupID     string
		want        map[string]float64
	}{
		{
			name: "equal split",
			txns: []models.Transaction{equalTxn},
			want: map[string]float64{"A": 200, "B": -100, "C": -100},
		},
		{
			name: "percentage split",
			txns: []models.Transaction{{
				ID: 1, Payer: "A", Amount: 100,
				Participants: []string{"A", "B"},
				Split:        models.PercentageSplit{Percentages: []float64{60, 40}},
			}},
			want: map[string]float64{"A": 40, "B": -40},
		},
		{
			name: "weighted split",
			txns: []models.Transaction{{
				ID: 1, Payer: "A", Amount: 90,
				Participants: []string{"A", "B", "C"},
				Split:        models.WeightedSplit{Weights: []float64{1, 2, 3}},
			}},
			want: map[string]float64{"A": 75, "B": -30, "C": -45},
		},
		{
			name:        "settlement adjusts both sides",
			txns:        []models.Transaction{equalTxn},
			settlements: []models.Settlement{{FromUserID: "B", ToUserID: "A", Amount: 100}},
			want:        map[string]float64{"A": 100, "B": 0, "C": -100},
		},
		{
			name: "payer not among participants",
			txns: []models.Transaction{{
				ID: 1, Payer: "A", Amount: 60,
				Participants: []string{"B", "C"},
			}},
			want: map[string]float64{"A": 60, "B": -30, "C": -30},
		},
		{
			name: "group filter keeps only matching records",
			txns: []models.Transaction{
				{ID: 1, Payer: "A", Amount: 100, Participants: []string{"A", "B"}, GroupID: "trip"},
				{ID: 2, Payer: "B", Amount: 40, Participants: []string{"A", "B"}},
				{ID: 3, Payer: "C", Amount: 90, Participants: []string{"A", "C"}, GroupID: "flat"},
			},
			settlements: []models.Settlement{
				{FromUserID: "B", ToUserID: "A", Amount: 20, GroupID: "trip"},
				{FromUserID: "A", ToUserID: "C", Amount: 45, GroupID: "flat"},
			},
			groupID: "trip",
			want:    map[string]float64{"A": 30, "B": -30},
		},
		{
			name: "empty filter combines groups and personal records",
			txns: []models.Transaction{
				{ID: 1, Payer: "A", Amount: 100, Participants: []string{"A", "B"}, GroupID: "trip"},
				{ID: 2, Payer: "B", Amount: 40, Participants: []string{"A", "B"}},
			},
			want: map[string]float64{"A": 30, "B": -30},
		},
		{
			name: "settled transactions are skipped",
			txns: []models.Transaction{
				{ID: 1, Payer: "A", Amount: 100, Participants: []string{"A", "B"}, Settled: true},
				{ID: 2, Payer: "B", Amount: 40, Participants: []string{"A", "B"}},
			},
			want: map[string]float64{"A": -20, "B": 20},
		},
		{
			name: "no records",
			want: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateNetBalances(tt.txns, tt.settlements, tt.groupID)
			if err != nil {
				t.Fatalf("CalculateNetBalances() error = %v", err)
			}
			assertBalances(t, got, tt.want)
		})
	}
}

func TestCalculateNetBalances_InvalidSplitAborts(t *testing.T) {
	txns := []models.Transaction{
		{ID: 1, Payer: "A", Amount: 100, Participants: []string{"A", "B"}},
		{ID: 2, Payer: "B", Amount: 50, Participants: []string{"A", "B"}, Split: models.WeightedSplit{Weights: []float64{0, 0}}},
	}

	balances, err := CalculateNetBalances(txns, nil, "")
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("error = %v, want ErrInvalidSplit", err)
	}
	if balances != nil {
		t.Errorf("expected no balances on error, got %v", balances)
	}
}

func TestCalculateNetBalances_NonFiniteWeightRejected(t *testing.T) {
	txns := []models.Transaction{
		{ID: 1, Payer: "A", Amount: 90, Participants: []string{"B", "A"}, Split: models.WeightedSplit{Weights: []float64{math.Inf(1), 1}}},
	}

	balances, err := CalculateNetBalances(txns, nil, "")
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("error = %v, want ErrInvalidSplit", err)
	}
	for person, v := range balances {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s has non-finite balance %v", person, v)
		}
	}
}

func TestCalculateNetBalances_InvalidSplitOutsideScopeIgnored(t *testing.T) {
	txns := []models.Transaction{
		{ID: 1, Payer: "A", Amount: 100, Participants: []string{"A", "B"}, GroupID: "ok"},
		{ID: 2, Payer: "B", Amount: 50, Participants: []string{"A", "B"}, GroupID: "bad", Split: models.WeightedSplit{}},
	}

	if _, err := CalculateNetBalances(txns, nil, "ok"); err != nil {
		t.Fatalf("unexpected error for scoped calculation: %v", err)
	}
}

func TestCalculateNetBalances_DoesNotMutateInputs(t *testing.T) {
	txns := []models.Transaction{{
		ID: 1, Payer: "A", Amount: 90,
		Participants: []string{"A", "B", "C"},
		Split:        models.WeightedSplit{Weights: []float64{1, 2, 3}},
	}}
	settlements := []models.Settlement{{FromUserID: "B", ToUserID: "A", Amount: 10}}

	txnsCopy := []models.Transaction{{
		ID: 1, Payer: "A", Amount: 90,
		Participants: []string{"A", "B", "C"},
		Split:        models.WeightedSplit{Weights: []float64{1, 2, 3}},
	}}
	settlementsCopy := []models.Settlement{{FromUserID: "B", ToUserID: "A", Amount: 10}}

	first, err := CalculateNetBalances(txns, settlements, "")
	if err != nil {
		t.Fatalf("CalculateNetBalances failed: %v", err)
	}
	second, err := CalculateNetBalances(txns, settlements, "")
	if err != nil {
		t.Fatalf("CalculateNetBalances failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(txns, txnsCopy) {
		t.Error("transactions were modified")
	}
	if !reflect.DeepEqual(settlements, settlementsCopy) {
		t.Error("settlements were modified")
	}
}

func TestCalculateNetBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	people := []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}
	groups := []string{"", "trip", "flat"}

	var txns []models.Transaction
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(len(people))
		perm := rng.Perm(len(people))[:n]
		participants := make([]string, n)
		for k, idx := range perm {
			participants[k] = people[idx]
		}

		var split models.Split
		switch rng.Intn(3) {
		case 0:
			split = models.EqualSplit{}
		case 1:
			// Percentages must cover 100% for the total to be conserved.
			pcts := make([]float64, n)
			remaining := 100.0
			for k := 0; k < n-1; k++ {
				pcts[k] = remaining * rng.Float64() / 2
				remaining -= pcts[k]
			}
			pcts[n-1] = remaining
			split = models.PercentageSplit{Percentages: pcts}
		default:
			weights := make([]float64, n)
			for k := range weights {
				weights[k] = 1 + float64(rng.Intn(5))
			}
			split = models.WeightedSplit{Weights: weights}
		}

		txns = append(txns, models.Transaction{
			ID:           int64(i + 1),
			Payer:        participants[0],
			Amount:       math.Round(rng.Float64()*50000) / 100,
			Participants: participants,
			Split:        split,
			GroupID:      groups[rng.Intn(len(groups))],
		})
	}

	var settlements []models.Settlement
	for i := 0; i < 40; i++ {
		from := people[rng.Intn(len(people))]
		to := people[rng.Intn(len(people))]
		settlements = append(settlements, models.Settlement{
			ID:         fmt.Sprintf("s-%d", i),
			FromUserID: from,
			ToUserID:   to,
			Amount:     math.Round(rng.Float64()*10000) / 100,
			GroupID:    groups[rng.Intn(len(groups))],
		})
	}

	for _, group := range groups {
		t.Run("group="+group, func(t *testing.T) {
			balances, err := CalculateNetBalances(txns, settlements, group)
			if err != nil {
				t.Fatalf("CalculateNetBalances failed: %v", err)
			}
			if total := balances.Total(); math.Abs(total) > 1e-6 {
				t.Errorf("balances sum to %v, want 0", total)
			}
		})
	}
}

func TestCalculateMemberBalances(t *testing.T) {
	txns := []models.Transaction{
		{ID: 1, Payer: "Alice", Amount: 300, Participants: []string{"Alice", "Bob", "Charlie"}},
		{ID: 2, Payer: "Bob", Amount: 60, Participants: []string{"Alice", "Bob"}},
	}
	settlements := []models.Settlement{{FromUserID: "Charlie", ToUserID: "Alice", Amount: 50}}

	members, err := CalculateMemberBalances(txns, settlements, "")
	if err != nil {
		t.Fatalf("CalculateMemberBalances failed: %v", err)
	}

	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}

	// Sorted by name
	wantNames := []string{"Alice", "Bob", "Charlie"}
	for i, m := range members {
		if m.MemberName != wantNames[i] {
			t.Errorf("member[%d] = %s, want %s", i, m.MemberName, wantNames[i])
		}
	}

	alice := members[0]
	// Paid 300, owes 100 + 30, received 50
	if math.Abs(alice.TotalPaid-300) > 0.01 {
		t.Errorf("Alice TotalPaid = %v, want 300", alice.TotalPaid)
	}
	if math.Abs(alice.TotalOwed-130) > 0.01 {
		t.Errorf("Alice TotalOwed = %v, want 130", alice.TotalOwed)
	}
	if math.Abs(alice.SettledIn-50) > 0.01 {
		t.Errorf("Alice SettledIn = %v, want 50", alice.SettledIn)
	}
	if math.Abs(alice.NetBalance-120) > 0.01 {
		t.Errorf("Alice NetBalance = %v, want 120", alice.NetBalance)
	}
	if alice.Status() != StatusGets {
		t.Errorf("Alice status = %s, want gets", alice.Status())
	}

	bob := members[1]
	// Paid 60, owes 100 + 30
	if math.Abs(bob.NetBalance-(-70)) > 0.01 {
		t.Errorf("Bob NetBalance = %v, want -70", bob.NetBalance)
	}
	if bob.Status() != StatusOwes {
		t.Errorf("Bob status = %s, want owes", bob.Status())
	}

	charlie := members[2]
	if math.Abs(charlie.NetBalance-(-50)) > 0.01 {
		t.Errorf("Charlie NetBalance = %v, want -50", charlie.NetBalance)
	}
	if math.Abs(charlie.SettledOut-50) > 0.01 {
		t.Errorf("Charlie SettledOut = %v, want 50", charlie.SettledOut)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		value float64
		want  Status
	}{
		{0, StatusSettled},
		{0.01, StatusSettled},
		{-0.01, StatusSettled},
		{0.011, StatusGets},
		{-0.011, StatusOwes},
		{250, StatusGets},
		{-3, StatusOwes},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			if got := StatusOf(tt.value); got != tt.want {
				t.Errorf("StatusOf(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestNetBalanceHelpers(t *testing.T) {
	b := NetBalance{"Charlie": -0.005, "Alice": 0.01, "Bob": -0.01}
	if got := b.People(); !reflect.DeepEqual(got, []string{"Alice", "Bob", "Charlie"}) {
		t.Errorf("People() = %v", got)
	}
	if !b.AllSettled() {
		t.Error("expected all balances within tolerance to be settled")
	}
	b["Dave"] = 0.02
	if b.AllSettled() {
		t.Error("expected Dave to be unsettled")
	}
}
