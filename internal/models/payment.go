package models

import "github.com/shopspring/decimal"

// Payment represents a transfer between trip members to clear debts.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// TripID is the trip this payment belongs to.
	TripID string

	// FromID is the member who paid (debtor settling up).
	FromID string

	// ToID is the member who received the payment (creditor being paid).
	ToID string

	// Amount is the payment amount in the trip currency.
	Amount decimal.Decimal

	// Note is an optional description for the payment.
	Note string

	// CreatedBy is the auth subject who recorded this payment.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
