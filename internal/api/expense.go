package api

import "github.com/shopspring/decimal"

// Split modes accepted by CreateExpense and UpdateExpense.
const (
	SplitEqual    = "equal"
	SplitExact    = "exact"
	SplitWeighted = "weighted"
)

// Expense is the wire form of models.SharedExpense.
type Expense struct {
	ID             string                     `json:"id"`
	TripID         string                     `json:"trip_id"`
	Title          string                     `json:"title"`
	Amount         decimal.Decimal            `json:"amount"`
	PayerID        string                     `json:"payer_id"`
	ParticipantIDs []string                   `json:"participant_ids"`
	Splits         map[string]decimal.Decimal `json:"splits"`
	Date           string                     `json:"date"`
	Category       string                     `json:"category,omitempty"`
	CreatedAt      int64                      `json:"created_at"`
}

// Balance is one member's position. Net > 0 means the member is owed money.
type Balance struct {
	MemberID     string          `json:"member_id"`
	Name         string          `json:"name"`
	Paid         decimal.Decimal `json:"paid"`
	Owed         decimal.Decimal `json:"owed"`
	Net          decimal.Decimal `json:"net"`
	NetFormatted string          `json:"net_formatted"`
}

// Settlement is one suggested transfer.
type Settlement struct {
	FromID          string          `json:"from_id"`
	FromName        string          `json:"from_name"`
	ToID            string          `json:"to_id"`
	ToName          string          `json:"to_name"`
	Amount          decimal.Decimal `json:"amount"`
	AmountFormatted string          `json:"amount_formatted"`
}

// RejectedExpense is an expense left out of the balances because its data
// is inconsistent.
type RejectedExpense struct {
	ExpenseID string `json:"expense_id"`
	Reason    string `json:"reason"`
}

// BalanceSummary is recomputed from scratch on every request.
type BalanceSummary struct {
	Currency    string             `json:"currency"`
	Balances    []*Balance         `json:"balances"`
	Settlements []*Settlement      `json:"settlements"`
	Rejected    []*RejectedExpense `json:"rejected,omitempty"`
}

type CreateExpenseRequest struct {
	TripID         string          `json:"trip_id"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	PayerID        string          `json:"payer_id"`
	ParticipantIDs []string        `json:"participant_ids"`

	// SplitMode is one of SplitEqual (default), SplitExact or SplitWeighted.
	SplitMode string `json:"split_mode"`

	// Splits holds the exact shares for SplitExact.
	Splits map[string]decimal.Decimal `json:"splits,omitempty"`

	// Weights holds the relative weights for SplitWeighted.
	Weights map[string]decimal.Decimal `json:"weights,omitempty"`

	Date     string `json:"date"`
	Category string `json:"category"`
	Locale   string `json:"locale,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense        `json:"expense"`
	Summary *BalanceSummary `json:"summary"`
}

type UpdateExpenseRequest struct {
	ExpenseID      string                     `json:"expense_id"`
	Title          string                     `json:"title"`
	Amount         decimal.Decimal            `json:"amount"`
	PayerID        string                     `json:"payer_id"`
	ParticipantIDs []string                   `json:"participant_ids"`
	SplitMode      string                     `json:"split_mode"`
	Splits         map[string]decimal.Decimal `json:"splits,omitempty"`
	Weights        map[string]decimal.Decimal `json:"weights,omitempty"`
	Date           string                     `json:"date"`
	Category       string                     `json:"category"`
	Locale         string                     `json:"locale,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense        `json:"expense"`
	Summary *BalanceSummary `json:"summary"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
	Locale    string `json:"locale,omitempty"`
}

type DeleteExpenseResponse struct {
	Summary *BalanceSummary `json:"summary"`
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`

	// Locale is a BCP 47 tag used for the formatted amounts (default "en").
	Locale string `json:"locale,omitempty"`
}

type GetBalancesResponse struct {
	Summary *BalanceSummary `json:"summary"`
}

// Payment is a recorded settle-up transfer.
type Payment struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	FromID    string          `json:"from_id"`
	ToID      string          `json:"to_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt int64           `json:"created_at"`
}

type RecordPaymentRequest struct {
	TripID string          `json:"trip_id"`
	FromID string          `json:"from_id"`
	ToID   string          `json:"to_id"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
	Locale string          `json:"locale,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment        `json:"payment"`
	Summary *BalanceSummary `json:"summary"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
	Locale    string `json:"locale,omitempty"`
}

type DeletePaymentResponse struct {
	Summary *BalanceSummary `json:"summary"`
}

type ListPaymentsRequest struct {
	TripID string `json:"trip_id"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
