package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/splitledger/internal/models"
)

// Shares computes how much each participant owes for txn, aligned by position
// with txn.Participants.
//
//   - Equal:      amount / len(participants)
//   - Percentage: amount * p[i] / 100 (percentages need not sum to 100)
//   - Weighted:   amount * w[i] / sum(w)
//
// A non-finite amount, split value or weight total is an ErrInvalidSplit, so no
// NaN or Inf reaches a balance.
func Shares(txn models.Transaction) ([]float64, error) {
	n := len(txn.Participants)
	if n == 0 {
		return nil, &SplitError{TransactionID: txn.ID, Reason: "no participants", Err: ErrMalformedTransaction}
	}
	if !finite(txn.Amount) {
		return nil, &SplitError{TransactionID: txn.ID, Reason: fmt.Sprintf("amount %v is not finite", txn.Amount), Err: ErrInvalidSplit}
	}
	for i, v := range models.SplitValuesOf(txn.Split) {
		if !finite(v) {
			return nil, &SplitError{TransactionID: txn.ID, Reason: fmt.Sprintf("value %d is not finite", i+1), Err: ErrInvalidSplit}
		}
	}

	shares := make([]float64, n)

	switch s := txn.Split.(type) {
	case nil, models.EqualSplit:
		perPerson := txn.Amount / float64(n)
		for i := range shares {
			shares[i] = perPerson
		}

	case models.PercentageSplit:
		if err := checkAligned(txn, len(s.Percentages)); err != nil {
			return nil, err
		}
		for i := range shares {
			shares[i] = txn.Amount * s.Percentages[i] / 100.0
		}

	case models.WeightedSplit:
		if err := checkAligned(txn, len(s.Weights)); err != nil {
			return nil, err
		}
		var total float64
		for _, w := range s.Weights {
			total += w
		}
		if total == 0 {
			return nil, &SplitError{TransactionID: txn.ID, Reason: "total weight is zero", Err: ErrInvalidSplit}
		}
		if !finite(total) {
			return nil, &SplitError{TransactionID: txn.ID, Reason: "total weight is not finite", Err: ErrInvalidSplit}
		}
		for i := range shares {
			shares[i] = txn.Amount * s.Weights[i] / total
		}

	default:
		return nil, &SplitError{
			TransactionID: txn.ID,
			Reason:        fmt.Sprintf("unsupported split %T", s),
			Err:           ErrInvalidSplit,
		}
	}

	return shares, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkAligned requires exactly one value per participant.
func checkAligned(txn models.Transaction, values int) error {
	if values == len(txn.Participants) {
		return nil
	}
	return &SplitError{
		TransactionID: txn.ID,
		Reason:        fmt.Sprintf("%d values for %d participants", values, len(txn.Participants)),
		Err:           fmt.Errorf("%w: %w", ErrInvalidSplit, ErrMalformedTransaction),
	}
}

// ShareOf returns person's share of txn. ok is false when person is not a participant.
func ShareOf(txn models.Transaction, person string) (share float64, ok bool, err error) {
	shares, err := Shares(txn)
	if err != nil {
		return 0, false, err
	}
	for i, p := range txn.Participants {
		if p == person {
			return shares[i], true, nil
		}
	}
	return 0, false, nil
}
