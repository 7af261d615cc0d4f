package api

import "github.com/shopspring/decimal"

// Activity is one itinerary entry.
type Activity struct {
	ID        string          `json:"id"`
	TripID    string          `json:"trip_id"`
	Day       int             `json:"day"`
	Position  int             `json:"position"`
	Title     string          `json:"title"`
	Location  string          `json:"location,omitempty"`
	StartTime string          `json:"start_time,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
	Currency  string          `json:"currency"`
	Category  string          `json:"category,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Day groups the activities of one itinerary day in display order.
type Day struct {
	Day        int         `json:"day"`
	Date       string      `json:"date"`
	Activities []*Activity `json:"activities"`
}

type AddActivityRequest struct {
	TripID    string          `json:"trip_id"`
	Day       int             `json:"day"`
	Title     string          `json:"title"`
	Location  string          `json:"location"`
	StartTime string          `json:"start_time"`
	Cost      decimal.Decimal `json:"cost"`

	// Currency defaults to the trip currency.
	Currency string `json:"currency"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type AddActivityResponse struct {
	Activity *Activity `json:"activity"`
}

type UpdateActivityRequest struct {
	ActivityID string          `json:"activity_id"`
	Day        int             `json:"day"`
	Title      string          `json:"title"`
	Location   string          `json:"location"`
	StartTime  string          `json:"start_time"`
	Cost       decimal.Decimal `json:"cost"`
	Currency   string          `json:"currency"`
	Category   string          `json:"category"`
	Notes      string          `json:"notes"`
}

type UpdateActivityResponse struct {
	Activity *Activity `json:"activity"`
}

type DeleteActivityRequest struct {
	ActivityID string `json:"activity_id"`
}

type DeleteActivityResponse struct{}

type ListItineraryRequest struct {
	TripID string `json:"trip_id"`
}

type ListItineraryResponse struct {
	Days []*Day `json:"days"`
}

// ReorderActivitiesRequest sets the final order of a day. IDs from other
// days of the same trip are moved onto the day.
type ReorderActivitiesRequest struct {
	TripID      string   `json:"trip_id"`
	Day         int      `json:"day"`
	ActivityIDs []string `json:"activity_ids"`
}

type ReorderActivitiesResponse struct {
	Days []*Day `json:"days"`
}
