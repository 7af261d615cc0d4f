package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for trip and expense dates.
const DateLayout = "2006-01-02"

// Trip represents a planned journey.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID is the auth subject of the user who created the trip.
	OwnerID string

	// Name is the display name (e.g., "Lisbon long weekend").
	Name string

	// Destination is free text describing where the trip goes.
	Destination string

	// StartDate and EndDate are inclusive calendar dates.
	StartDate time.Time
	EndDate   time.Time

	// Currency is the ISO 4217 code all shared expenses are recorded in.
	Currency string

	// Budget is the overall spending target in Currency. Zero means unset.
	Budget decimal.Decimal

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Days returns the number of itinerary days, counting both ends.
func (t *Trip) Days() int {
	if t.EndDate.Before(t.StartDate) {
		return 0
	}
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// DateOfDay returns the calendar date of a 1-based itinerary day.
func (t *Trip) DateOfDay(day int) time.Time {
	return t.StartDate.AddDate(0, 0, day-1)
}
