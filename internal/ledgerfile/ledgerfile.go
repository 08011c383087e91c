// Package ledgerfile reads an offline ledger from YAML.
//
// Example:
//
//	transactions:
//	  - payer: Alice
//	    amount: 90
//	    participants: [Bob, Carol]
//	    description: Dinner
//	    group: Trip
//	  - payer: Bob
//	    amount: 100
//	    participants: [Alice]
//	    split: percentage
//	    values: [60, 40]
//	settlements:
//	  - from: Bob
//	    to: Alice
//	    amount: 30
//	    group: Trip
//
// Groups are referenced by name. The payer is appended to the participants when
// missing, so values cover the listed participants followed by the payer.
package ledgerfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// TransactionEntry is one expense in the file.
type TransactionEntry struct {
	Payer        string    `yaml:"payer"`
	Amount       float64   `yaml:"amount"`
	Participants []string  `yaml:"participants"`
	Split        string    `yaml:"split"`
	Values       []float64 `yaml:"values"`
	Description  string    `yaml:"description"`
	Group        string    `yaml:"group"`
}

// SettlementEntry is one recorded payment in the file.
type SettlementEntry struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Amount float64 `yaml:"amount"`
	Note   string  `yaml:"note"`
	Group  string  `yaml:"group"`
}

// File mirrors the YAML document.
type File struct {
	Transactions []TransactionEntry `yaml:"transactions"`
	Settlements  []SettlementEntry  `yaml:"settlements"`
}

// Ledger is the validated content of a file.
type Ledger struct {
	Transactions []models.Transaction
	Settlements  []models.Settlement
}

// Load reads and validates the ledger at path.
func Load(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	ledger, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ledger, nil
}

// Parse decodes a YAML ledger. Unknown keys are rejected.
func Parse(r io.Reader) (*Ledger, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return file.Ledger()
}

// Ledger converts the entries into models. Transactions get IDs 1..n in file
// order.
func (f *File) Ledger() (*Ledger, error) {
	ledger := &Ledger{
		Transactions: make([]models.Transaction, 0, len(f.Transactions)),
		Settlements:  make([]models.Settlement, 0, len(f.Settlements)),
	}

	for i, entry := range f.Transactions {
		txn, err := entry.transaction(int64(i + 1))
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		ledger.Transactions = append(ledger.Transactions, txn)
	}

	for i, entry := range f.Settlements {
		s, err := entry.settlement(i + 1)
		if err != nil {
			return nil, fmt.Errorf("settlement %d: %w", i+1, err)
		}
		ledger.Settlements = append(ledger.Settlements, s)
	}

	return ledger, nil
}

func (e TransactionEntry) transaction(id int64) (models.Transaction, error) {
	payer := strings.TrimSpace(e.Payer)
	if payer == "" {
		return models.Transaction{}, errors.New("payer is required")
	}
	if !positive(e.Amount) {
		return models.Transaction{}, fmt.Errorf("amount must be positive, got %v", e.Amount)
	}

	kind, err := models.ParseSplitKind(e.Split)
	if err != nil {
		return models.Transaction{}, err
	}

	participants := make([]string, 0, len(e.Participants)+1)
	hasPayer := false
	for _, p := range e.Participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == payer {
			hasPayer = true
		}
		participants = append(participants, p)
	}
	if !hasPayer {
		participants = append(participants, payer)
	}

	for i, v := range e.Values {
		if v < 0 || !finite(v) {
			return models.Transaction{}, fmt.Errorf("value %d must be a non-negative number, got %v", i+1, v)
		}
	}

	split, err := models.NewSplit(kind, e.Values)
	if err != nil {
		return models.Transaction{}, err
	}

	txn := models.Transaction{
		ID:           id,
		Payer:        payer,
		Amount:       e.Amount,
		Participants: participants,
		Split:        split,
		Description:  e.Description,
		GroupID:      strings.TrimSpace(e.Group),
	}
	if _, err := calculator.Shares(txn); err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

func (e SettlementEntry) settlement(n int) (models.Settlement, error) {
	from, to := strings.TrimSpace(e.From), strings.TrimSpace(e.To)
	switch {
	case from == "" || to == "":
		return models.Settlement{}, errors.New("from and to are required")
	case from == to:
		return models.Settlement{}, fmt.Errorf("%s cannot settle with themselves", from)
	case !positive(e.Amount):
		return models.Settlement{}, fmt.Errorf("amount must be positive, got %v", e.Amount)
	}

	return models.Settlement{
		ID:         fmt.Sprintf("s%d", n),
		GroupID:    strings.TrimSpace(e.Group),
		FromUserID: from,
		ToUserID:   to,
		Amount:     e.Amount,
		Note:       e.Note,
	}, nil
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
