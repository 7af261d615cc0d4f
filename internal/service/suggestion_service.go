package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/storage"
	"github.com/mmynk/wanderplan/internal/suggest"
)

// SuggestionService implements the Connect SuggestionService
type SuggestionService struct {
	apiconnect.UnimplementedSuggestionServiceHandler
	store     storage.Store
	suggester *suggest.Suggester
}

// NewSuggestionService creates a new SuggestionService. A nil or disabled
// suggester makes every call fail with Unavailable.
func NewSuggestionService(store storage.Store, suggester *suggest.Suggester) *SuggestionService {
	return &SuggestionService{store: store, suggester: suggester}
}

// SuggestActivities asks the language model for activities that are not
// already planned.
func (s *SuggestionService) SuggestActivities(ctx context.Context, req *connect.Request[api.SuggestActivitiesRequest]) (*connect.Response[api.SuggestActivitiesResponse], error) {
	slog.Info("SuggestActivities request received",
		"trip_id", req.Msg.TripID,
		"day", req.Msg.Day,
		"count", req.Msg.Count,
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if !s.suggester.Enabled() {
		return nil, toConnectError(suggest.ErrDisabled)
	}
	trip := access.trip
	if req.Msg.Day < 0 || req.Msg.Day > trip.Days() {
		return nil, invalidArgument("day must be between 0 and %d", trip.Days())
	}
	if req.Msg.Count < 0 || req.Msg.Count > suggest.MaxCount {
		return nil, invalidArgument("count must be between 0 and %d", suggest.MaxCount)
	}

	activities, err := s.store.ListActivities(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	existing := make([]string, len(activities))
	for i, a := range activities {
		existing[i] = a.Title
	}

	interests := make([]string, 0, len(req.Msg.Interests))
	for _, in := range req.Msg.Interests {
		if in = strings.TrimSpace(in); in != "" {
			interests = append(interests, in)
		}
	}

	sreq := suggest.Request{
		Destination: trip.Destination,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Day:         req.Msg.Day,
		Interests:   interests,
		Existing:    existing,
		Count:       req.Msg.Count,
	}
	if req.Msg.Day > 0 {
		sreq.Date = trip.DateOfDay(req.Msg.Day)
	}

	suggestions, err := s.suggester.Suggest(ctx, sreq)
	if err != nil {
		slog.Error("SuggestActivities failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("SuggestActivities successful", "trip_id", trip.ID, "count", len(suggestions))
	return connect.NewResponse(&api.SuggestActivitiesResponse{Suggestions: suggestions}), nil
}
