package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tripLedger = `
transactions:
  - payer: Alice
    amount: 90
    participants: [Bob, Carol]
    description: Dinner
    group: Trip
  - payer: Bob
    amount: 40
    participants: [Alice]
settlements:
  - from: Carol
    to: Alice
    amount: 30
    group: Trip
`

func writeLedger(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBalancesCommand(t *testing.T) {
	path := writeLedger(t, tripLedger)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "all groups",
			args: []string{"balances", "-f", path},
			want: []string{"=== Net Balances ===", "Alice: Gets Rs.10.00", "Bob: Owes Rs.10.00", "Carol: Settled"},
		},
		{
			name: "one group",
			args: []string{"balances", "-f", path, "--group", "Trip"},
			want: []string{"=== Net Balances (Trip) ===", "Alice: Gets Rs.30.00", "Bob: Owes Rs.30.00", "Carol: Settled"},
		},
		{
			name: "unknown group",
			args: []string{"balances", "-f", path, "--group", "Nope"},
			want: []string{"No transactions found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("balances failed: %v", err)
			}
			for _, line := range tt.want {
				if !strings.Contains(out, line) {
					t.Errorf("output missing %q:\n%s", line, out)
				}
			}
		})
	}
}

func TestBalancesAllSettled(t *testing.T) {
	path := writeLedger(t, `
transactions:
  - payer: Alice
    amount: 20
    participants: [Bob]
settlements:
  - from: Bob
    to: Alice
    amount: 10
`)

	out, err := run(t, "balances", "-f", path)
	if err != nil {
		t.Fatalf("balances failed: %v", err)
	}
	if !strings.Contains(out, "All debts settled!") {
		t.Errorf("expected settled message:\n%s", out)
	}
}

func TestPlanCommand(t *testing.T) {
	path := writeLedger(t, tripLedger)

	out, err := run(t, "plan", "-f", path)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !strings.Contains(out, "Bob ---> Alice: Rs.10.00") {
		t.Errorf("expected a single payment:\n%s", out)
	}
	if strings.Contains(out, "Carol --->") {
		t.Errorf("settled person must not pay:\n%s", out)
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("unexpected warning:\n%s", out)
	}
}

func TestPlanCommandWarning(t *testing.T) {
	path := writeLedger(t, `
transactions:
  - payer: Alice
    amount: 100
    participants: [Bob]
    split: percentage
    values: [50, 30]
`)

	out, err := run(t, "plan", "-f", path)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !strings.Contains(out, "Bob ---> Alice: Rs.50.00") {
		t.Errorf("expected partial plan:\n%s", out)
	}
	if !strings.Contains(out, "Warning: balances do not sum to zero: Alice is still owed 20.00") {
		t.Errorf("expected consistency warning:\n%s", out)
	}
}

func TestPlanCommandSettled(t *testing.T) {
	path := writeLedger(t, "transactions: []\n")

	out, err := run(t, "plan", "-f", path)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if !strings.Contains(out, "All settlements are complete!") {
		t.Errorf("expected completion message:\n%s", out)
	}
}

func TestPersonCommand(t *testing.T) {
	path := writeLedger(t, tripLedger)

	tests := []struct {
		person string
		want   []string
	}{
		{"Alice", []string{"#1 You paid Rs.90.00 (Your share: Rs.30.00) [Group: Trip]", "Description: Dinner", "#2 Bob paid Rs.40.00 (Your share: Rs.20.00) [Personal]", "You get Rs.10.00"}},
		{"Carol", []string{"#1 Alice paid Rs.90.00 (Your share: Rs.30.00) [Group: Trip]", "Your overall balance: Settled"}},
		{"Dave", []string{"No transactions found for Dave.", "Your overall balance: Settled"}},
	}

	for _, tt := range tests {
		t.Run(tt.person, func(t *testing.T) {
			out, err := run(t, "person", tt.person, "-f", path)
			if err != nil {
				t.Fatalf("person failed: %v", err)
			}
			for _, line := range tt.want {
				if !strings.Contains(out, line) {
					t.Errorf("output missing %q:\n%s", line, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	bad := writeLedger(t, "transactions:\n  - payer: A\n    amount: -1\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"balances", "-f", filepath.Join(t.TempDir(), "none.yaml")}},
		{"invalid ledger", []string{"plan", "-f", bad}},
		{"person without name", []string{"person", "-f", bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
