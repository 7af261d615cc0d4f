package models

import "github.com/shopspring/decimal"

// Activity is one entry of a trip's itinerary.
type Activity struct {
	ID     string
	TripID string

	// Day is the 1-based itinerary day.
	Day int

	// Position orders activities within a day, starting at 0.
	Position int

	Title    string
	Location string

	// StartTime is an optional "HH:MM" local time.
	StartTime string

	// Cost is the planned cost in Currency. Zero for free activities.
	Cost     decimal.Decimal
	Currency string

	Category string
	Notes    string

	CreatedAt int64
}
