package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharedExpense represents one shared cost event within a trip.
type SharedExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Title describes the expense (e.g., "Dinner at Time Out Market").
	Title string

	// Amount is the total paid, in the trip currency.
	Amount decimal.Decimal

	// PayerID is the member who fronted the money.
	PayerID string

	// ParticipantIDs are the members sharing the cost, in display order.
	ParticipantIDs []string

	// Splits maps each participant to the amount they owe for this expense.
	// The values sum to Amount within one minor currency unit.
	Splits map[string]decimal.Decimal

	// Date is when the expense happened. Display only.
	Date time.Time

	// Category groups the expense for budget tracking (e.g., "food").
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
