package ledgerapi

// Transaction is one recorded expense.
type Transaction struct {
	ID           int64     `json:"id"`
	Payer        string    `json:"payer"`
	Amount       float64   `json:"amount"`
	Participants []string  `json:"participants"`
	SplitType    string    `json:"split_type"`
	SplitValues  []float64 `json:"split_values,omitempty"`
	Description  string    `json:"description,omitempty"`
	GroupID      string    `json:"group_id,omitempty"`
	GroupName    string    `json:"group_name,omitempty"`
	Settled      bool      `json:"settled,omitempty"`
	CreatedAt    int64     `json:"created_at"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

// AddTransactionRequest records an expense.
// SplitType is "equal" (default), "percentage" or "weighted"; SplitValues align with
// Participants after the payer has been appended when missing.
// A non-empty GroupName files the transaction under that group, creating it if needed.
type AddTransactionRequest struct {
	Payer        string    `json:"payer"`
	Amount       float64   `json:"amount"`
	Participants []string  `json:"participants"`
	SplitType    string    `json:"split_type,omitempty"`
	SplitValues  []float64 `json:"split_values,omitempty"`
	Description  string    `json:"description,omitempty"`
	GroupName    string    `json:"group_name,omitempty"`
}

type AddTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type GetTransactionRequest struct {
	ID int64 `json:"id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	ID int64 `json:"id"`
}

type DeleteTransactionResponse struct{}

// ListTransactionsRequest filters transactions. Empty fields match everything.
type ListTransactionsRequest struct {
	Person    string  `json:"person,omitempty"`
	GroupID   string  `json:"group_id,omitempty"`
	MinAmount float64 `json:"min_amount,omitempty"`
	MaxAmount float64 `json:"max_amount,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// MemberBalance is one person's position. Status is "gets", "owes" or "settled".
type MemberBalance struct {
	MemberName string  `json:"member_name"`
	NetBalance float64 `json:"net_balance"`
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
	Status     string  `json:"status"`
}

// GetBalancesRequest scopes the calculation to a group; empty means all records.
type GetBalancesRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type GetBalancesResponse struct {
	Balances   []*MemberBalance `json:"balances"`
	AllSettled bool             `json:"all_settled"`
}

// Payment is a suggested transfer that clears debt.
type Payment struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

// GetSettlementPlanResponse carries the payments and, when the balances did not
// net to zero, a warning describing what was left unmatched.
type GetSettlementPlanResponse struct {
	Payments   []*Payment `json:"payments"`
	AllSettled bool       `json:"all_settled"`
	Warning    string     `json:"warning,omitempty"`
}

// Settlement is a recorded repayment.
type Settlement struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"group_id,omitempty"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
	CreatedBy string  `json:"created_by,omitempty"`
}

// Advisory flags a settlement that does not match the current balances.
type Advisory struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RecordSettlementRequest records that From paid To. Settlements exceeding what
// is outstanding between the two are rejected unless Confirm is set.
type RecordSettlementRequest struct {
	GroupID string  `json:"group_id,omitempty"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
	Confirm bool    `json:"confirm,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement      `json:"settlement"`
	Advisories []*Advisory      `json:"advisories,omitempty"`
	Balances   []*MemberBalance `json:"balances"`
	AllSettled bool             `json:"all_settled"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// PersonalEntry is one transaction seen from a single person's side.
type PersonalEntry struct {
	TransactionID int64   `json:"transaction_id"`
	Description   string  `json:"description,omitempty"`
	Payer         string  `json:"payer"`
	Amount        float64 `json:"amount"`
	Share         float64 `json:"share"`
	Paid          bool    `json:"paid"`
	GroupName     string  `json:"group_name,omitempty"`
}

type GetPersonalViewRequest struct {
	Person string `json:"person"`
}

// GetPersonalViewResponse lists the person's transactions and their balance
// across every group and personal expense.
type GetPersonalViewResponse struct {
	Person     string           `json:"person"`
	NetBalance float64          `json:"net_balance"`
	Status     string           `json:"status"`
	Entries    []*PersonalEntry `json:"entries"`
}
