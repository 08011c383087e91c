package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSplit means the split policy cannot divide the amount
	// (zero total weight, or weights not aligned with participants).
	ErrInvalidSplit = errors.New("invalid split")

	// ErrMalformedTransaction means the transaction itself is unusable
	// (no participants, or fewer weights than participants).
	ErrMalformedTransaction = errors.New("malformed transaction")
)

// SplitError reports a transaction whose shares could not be computed.
type SplitError struct {
	TransactionID int64
	Reason        string
	Err           error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("transaction %d: %s: %v", e.TransactionID, e.Reason, e.Err)
}

func (e *SplitError) Unwrap() error {
	return e.Err
}
