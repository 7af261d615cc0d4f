package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/currency"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

// ItineraryService implements the Connect ItineraryService
type ItineraryService struct {
	apiconnect.UnimplementedItineraryServiceHandler
	store storage.Store
}

// NewItineraryService creates a new ItineraryService with the given storage backend.
func NewItineraryService(store storage.Store) *ItineraryService {
	return &ItineraryService{store: store}
}

// activityInput is the part shared by add and update requests.
type activityInput struct {
	day       int
	title     string
	location  string
	startTime string
	cost      decimal.Decimal
	currency  string
	category  string
	notes     string
}

// fillActivity validates in against trip and writes it onto a.
func fillActivity(a *models.Activity, in activityInput, trip *models.Trip) error {
	if in.day < 1 || in.day > trip.Days() {
		return invalidArgument("day must be between 1 and %d", trip.Days())
	}
	title := strings.TrimSpace(in.title)
	if title == "" {
		return invalidArgument("title required")
	}
	startTime := strings.TrimSpace(in.startTime)
	if startTime != "" {
		if _, err := time.Parse("15:04", startTime); err != nil {
			return invalidArgument("start_time must look like 09:30, got %q", in.startTime)
		}
	}
	if in.cost.IsNegative() {
		return invalidArgument("cost must not be negative")
	}
	code := strings.ToUpper(strings.TrimSpace(in.currency))
	if code == "" {
		code = trip.Currency
	}
	if !currency.Supported(code) {
		return invalidArgument("unsupported currency %q", code)
	}

	a.TripID = trip.ID
	a.Day = in.day
	a.Title = title
	a.Location = strings.TrimSpace(in.location)
	a.StartTime = startTime
	a.Cost = in.cost
	a.Currency = code
	a.Category = normalizeCategory(in.category)
	a.Notes = strings.TrimSpace(in.notes)
	return nil
}

// AddActivity appends an activity to the end of a day.
func (s *ItineraryService) AddActivity(ctx context.Context, req *connect.Request[api.AddActivityRequest]) (*connect.Response[api.AddActivityResponse], error) {
	slog.Info("AddActivity request received",
		"trip_id", req.Msg.TripID,
		"day", req.Msg.Day,
		"title", req.Msg.Title,
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{}
	err = fillActivity(activity, activityInput{
		day:       req.Msg.Day,
		title:     req.Msg.Title,
		location:  req.Msg.Location,
		startTime: req.Msg.StartTime,
		cost:      req.Msg.Cost,
		currency:  req.Msg.Currency,
		category:  req.Msg.Category,
		notes:     req.Msg.Notes,
	}, access.trip)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateActivity(ctx, activity); err != nil {
		slog.Error("AddActivity failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Activity added", "activity_id", activity.ID, "day", activity.Day, "position", activity.Position)
	return connect.NewResponse(&api.AddActivityResponse{Activity: activityToAPI(activity)}), nil
}

// loadActivity fetches an activity and authorizes the caller against its trip.
func (s *ItineraryService) loadActivity(ctx context.Context, activityID string) (*models.Activity, *tripAccess, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, nil, err
	}
	if activityID == "" {
		return nil, nil, invalidArgument("activity_id required")
	}
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	access, err := authorizeTrip(ctx, s.store, activity.TripID)
	if err != nil {
		return nil, nil, err
	}
	return activity, access, nil
}

// UpdateActivity replaces an activity's fields. Changing Day moves it to the
// end of the new day.
func (s *ItineraryService) UpdateActivity(ctx context.Context, req *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error) {
	slog.Info("UpdateActivity request received", "activity_id", req.Msg.ActivityID)

	existing, access, err := s.loadActivity(ctx, req.Msg.ActivityID)
	if err != nil {
		return nil, err
	}

	activity := *existing
	err = fillActivity(&activity, activityInput{
		day:       req.Msg.Day,
		title:     req.Msg.Title,
		location:  req.Msg.Location,
		startTime: req.Msg.StartTime,
		cost:      req.Msg.Cost,
		currency:  req.Msg.Currency,
		category:  req.Msg.Category,
		notes:     req.Msg.Notes,
	}, access.trip)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateActivity(ctx, &activity); err != nil {
		slog.Error("UpdateActivity failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Activity updated", "activity_id", activity.ID)
	return connect.NewResponse(&api.UpdateActivityResponse{Activity: activityToAPI(&activity)}), nil
}

// DeleteActivity removes an activity and closes the gap it leaves.
func (s *ItineraryService) DeleteActivity(ctx context.Context, req *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error) {
	slog.Info("DeleteActivity request received", "activity_id", req.Msg.ActivityID)

	activity, _, err := s.loadActivity(ctx, req.Msg.ActivityID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteActivity(ctx, activity.ID); err != nil {
		slog.Error("DeleteActivity failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Activity deleted", "activity_id", activity.ID)
	return connect.NewResponse(&api.DeleteActivityResponse{}), nil
}

// ListItinerary returns every day of the trip, including empty ones.
func (s *ItineraryService) ListItinerary(ctx context.Context, req *connect.Request[api.ListItineraryRequest]) (*connect.Response[api.ListItineraryResponse], error) {
	slog.Info("ListItinerary request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	days, err := s.itinerary(ctx, access.trip)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListItineraryResponse{Days: days}), nil
}

// ReorderActivities sets the order of one day. Activities listed from other
// days of the trip move onto it.
func (s *ItineraryService) ReorderActivities(ctx context.Context, req *connect.Request[api.ReorderActivitiesRequest]) (*connect.Response[api.ReorderActivitiesResponse], error) {
	slog.Info("ReorderActivities request received",
		"trip_id", req.Msg.TripID,
		"day", req.Msg.Day,
		"count", len(req.Msg.ActivityIDs),
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if req.Msg.Day < 1 || req.Msg.Day > access.trip.Days() {
		return nil, invalidArgument("day must be between 1 and %d", access.trip.Days())
	}
	seen := make(map[string]bool, len(req.Msg.ActivityIDs))
	for _, id := range req.Msg.ActivityIDs {
		if seen[id] {
			return nil, invalidArgument("activity %s listed twice", id)
		}
		seen[id] = true
	}

	err = s.store.ReorderDay(ctx, access.trip.ID, req.Msg.Day, req.Msg.ActivityIDs)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err != nil {
		slog.Error("ReorderActivities failed", "error", err)
		return nil, toConnectError(err)
	}

	days, err := s.itinerary(ctx, access.trip)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ReorderActivitiesResponse{Days: days}), nil
}

// itinerary groups the trip's activities into days 1..N.
func (s *ItineraryService) itinerary(ctx context.Context, trip *models.Trip) ([]*api.Day, error) {
	activities, err := s.store.ListActivities(ctx, trip.ID)
	if err != nil {
		slog.Error("Failed to list activities", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	days := make([]*api.Day, trip.Days())
	for i := range days {
		days[i] = &api.Day{
			Day:        i + 1,
			Date:       formatDate(trip.DateOfDay(i + 1)),
			Activities: []*api.Activity{},
		}
	}
	// Store order is (day, position), so appending keeps each day sorted.
	for i := range activities {
		a := &activities[i]
		if a.Day < 1 || a.Day > len(days) {
			slog.Warn("Activity outside trip dates", "activity_id", a.ID, "day", a.Day)
			continue
		}
		days[a.Day-1].Activities = append(days[a.Day-1].Activities, activityToAPI(a))
	}
	return days, nil
}
