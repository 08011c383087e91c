package models

// Transaction represents one expense event.
// The payer advanced Amount for everyone in Participants; Split decides how much
// each participant owes.
type Transaction struct {
	// ID is assigned by the store and increases monotonically.
	ID int64

	// Payer is the person who paid the full amount.
	Payer string

	// Amount is the total paid. Always positive.
	Amount float64

	// Participants is the ordered list of people sharing the expense.
	// The payer appears exactly once.
	Participants []string

	// Split is the cost-splitting policy. Percentage and weighted splits carry
	// one value per participant, aligned by position. Nil means equal.
	Split Split

	// Description is a free-form note (e.g., "Dinner at Luigi's").
	Description string

	// GroupID is the group this transaction belongs to.
	// Empty for personal transactions.
	GroupID string

	// Settled marks a transaction as closed. Settled transactions are left out of
	// balance calculations. Nothing in the application sets it today.
	Settled bool

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this transaction.
	CreatedBy string
}

// Involves reports whether person paid for or takes part in the transaction.
func (t *Transaction) Involves(person string) bool {
	if t.Payer == person {
		return true
	}
	for _, p := range t.Participants {
		if p == person {
			return true
		}
	}
	return false
}
