package api

type SuggestActivitiesRequest struct {
	TripID string `json:"trip_id"`

	// Day narrows the suggestions to one itinerary day. Zero means any day.
	Day       int      `json:"day"`
	Interests []string `json:"interests"`

	// Count is the number of suggestions wanted (default 5, at most 10).
	Count int `json:"count"`
}

type SuggestActivitiesResponse struct {
	Suggestions []string `json:"suggestions"`
}
