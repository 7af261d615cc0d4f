package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/auth"
	"github.com/mmynk/wanderplan/internal/currency"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/middleware"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

// maxTripDays bounds itinerary length.
const maxTripDays = 366

// TripService implements the Connect TripService
type TripService struct {
	apiconnect.UnimplementedTripServiceHandler
	store     storage.Store
	publisher events.Publisher
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, publisher events.Publisher) *TripService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &TripService{store: store, publisher: publisher}
}

// tripFields are the editable fields shared by create and update.
type tripFields struct {
	name, destination, start, end, currency string
}

// applyTripFields validates fields and writes them onto trip.
func applyTripFields(trip *models.Trip, f tripFields) error {
	start, err := parseDate("start_date", f.start)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", f.end)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return invalidArgument("end_date must not be before start_date")
	}

	code := strings.ToUpper(strings.TrimSpace(f.currency))
	if code == "" {
		code = "USD"
	}
	if !currency.Supported(code) {
		return invalidArgument("unsupported currency %q (supported: %s)", code, strings.Join(currency.Codes(), ", "))
	}

	trip.Name = strings.TrimSpace(f.name)
	trip.Destination = strings.TrimSpace(f.destination)
	trip.StartDate = start
	trip.EndDate = end
	trip.Currency = code
	if trip.Days() > maxTripDays {
		return invalidArgument("trips are limited to %d days", maxTripDays)
	}
	return nil
}

// CreateTrip creates a new trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"destination", req.Msg.Destination,
		"start_date", req.Msg.StartDate,
		"end_date", req.Msg.EndDate,
	)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{OwnerID: userID, Budget: req.Msg.Budget}
	err = applyTripFields(trip, tripFields{
		name:        req.Msg.Name,
		destination: req.Msg.Destination,
		start:       req.Msg.StartDate,
		end:         req.Msg.EndDate,
		currency:    req.Msg.Currency,
	})
	if err != nil {
		return nil, err
	}
	if trip.Budget.IsNegative() {
		return nil, invalidArgument("budget must not be negative")
	}

	email := middleware.GetEmail(ctx)
	ownerName := strings.TrimSpace(req.Msg.OwnerName)
	if ownerName == "" {
		ownerName = displayNameFromEmail(email)
	}
	owner := &models.Member{UserID: userID, Name: ownerName, Email: email}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateTrip(ctx, trip, owner); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name)

	return connect.NewResponse(&api.CreateTripResponse{
		Trip:    tripToAPI(trip),
		Members: []*api.Member{memberToAPI(owner)},
	}), nil
}

// GetTrip retrieves a trip and its members.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, access.trip.ID)
	if err != nil {
		slog.Error("GetTrip failed to list members", "trip_id", access.trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetTripResponse{
		Trip:    tripToAPI(access.trip),
		Members: membersToAPI(members),
	}), nil
}

// ListTrips retrieves the trips the caller belongs to.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListTrips request received", "user_id", userID)

	trips, err := s.store.ListTripsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListTrips failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Trip, len(trips))
	for i, trip := range trips {
		out[i] = tripToAPI(trip)
	}

	slog.Info("ListTrips successful", "count", len(trips))
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// UpdateTrip updates name, destination, dates and currency.
//
// Shortening the trip below an activity's day is refused, as is changing the
// currency once expenses are recorded in it.
func (s *TripService) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	slog.Info("UpdateTrip request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	trip := *access.trip
	err = applyTripFields(&trip, tripFields{
		name:        req.Msg.Name,
		destination: req.Msg.Destination,
		start:       req.Msg.StartDate,
		end:         req.Msg.EndDate,
		currency:    req.Msg.Currency,
	})
	if err != nil {
		return nil, err
	}
	if trip.Name == "" {
		trip.Name = access.trip.Name
	}

	activities, err := s.store.ListActivities(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, a := range activities {
		if a.Day > trip.Days() {
			return nil, failedPrecondition("activity %q is planned for day %d; move it before shortening the trip", a.Title, a.Day)
		}
	}

	if trip.Currency != access.trip.Currency {
		expenses, err := s.store.ListExpenses(ctx, trip.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if len(expenses) > 0 {
			return nil, failedPrecondition("cannot change currency of a trip with recorded expenses")
		}
	}

	if err := s.store.UpdateTrip(ctx, &trip); err != nil {
		slog.Error("UpdateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip updated", "trip_id", trip.ID)
	return connect.NewResponse(&api.UpdateTripResponse{Trip: tripToAPI(&trip)}), nil
}

// DeleteTrip removes a trip and everything in it. Only the owner may do this.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	slog.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	access, err := authorizeOwner(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteTrip(ctx, access.trip.ID); err != nil {
		slog.Error("DeleteTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip deleted", "trip_id", access.trip.ID)
	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// InviteCollaborator creates a single-use invitation. The raw token is only
// returned here.
func (s *TripService) InviteCollaborator(ctx context.Context, req *connect.Request[api.InviteCollaboratorRequest]) (*connect.Response[api.InviteCollaboratorResponse], error) {
	slog.Info("InviteCollaborator request received", "trip_id", req.Msg.TripID)

	access, err := authorizeOwner(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	email := strings.TrimSpace(req.Msg.Email)
	if name == "" {
		name = displayNameFromEmail(email)
	}
	if name == "" {
		return nil, invalidArgument("name or email required")
	}

	token, hash, err := auth.NewInvitationToken()
	if err != nil {
		return nil, toConnectError(err)
	}
	inv := &models.Invitation{
		TripID:    access.trip.ID,
		Email:     email,
		Name:      name,
		TokenHash: hash,
		CreatedBy: access.userID,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		slog.Error("InviteCollaborator failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Invitation created", "trip_id", inv.TripID, "invitation_id", inv.ID)
	return connect.NewResponse(&api.InviteCollaboratorResponse{
		InvitationID: inv.ID,
		Token:        token,
	}), nil
}

// AcceptInvitation joins the caller to the invitation's trip as a collaborator.
func (s *TripService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	slog.Info("AcceptInvitation request received", "invitation_id", req.Msg.InvitationID)

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.InvitationID == "" {
		return nil, invalidArgument("invitation_id required")
	}

	inv, err := s.store.GetInvitation(ctx, req.Msg.InvitationID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := auth.VerifyInvitationToken(inv.TokenHash, req.Msg.Token); err != nil {
		slog.Warn("AcceptInvitation token mismatch", "invitation_id", inv.ID)
		return nil, connect.NewError(connect.CodePermissionDenied, err)
	}
	if !inv.Pending() {
		return nil, failedPrecondition("invitation already used")
	}

	if _, err := s.store.GetMemberByUser(ctx, inv.TripID, userID); err == nil {
		return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("you are already a member of this trip"))
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		name = inv.Name
	}
	email := middleware.GetEmail(ctx)
	if email == "" {
		email = inv.Email
	}
	member := &models.Member{TripID: inv.TripID, UserID: userID, Name: name, Email: email}
	if err := s.store.AcceptInvitation(ctx, inv.ID, member); err != nil {
		slog.Error("AcceptInvitation failed", "error", err)
		return nil, toConnectError(err)
	}

	trip, err := s.store.GetTrip(ctx, inv.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Invitation accepted", "trip_id", trip.ID, "member_id", member.ID)
	return connect.NewResponse(&api.AcceptInvitationResponse{
		Trip:   tripToAPI(trip),
		Member: memberToAPI(member),
	}), nil
}

// AddMember adds a traveller who has no account. They can pay for and share
// expenses but cannot sign in to the trip.
func (s *TripService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "trip_id", req.Msg.TripID, "name", req.Msg.Name)

	access, err := authorizeOwner(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	members, err := s.store.ListMembers(ctx, access.trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	for _, m := range members {
		// Balances are shown by name, so names must tell members apart
		if strings.EqualFold(m.Name, name) {
			return nil, connect.NewError(connect.CodeAlreadyExists, fmt.Errorf("a member named %q already exists", m.Name))
		}
	}

	member := &models.Member{
		TripID: access.trip.ID,
		Name:   name,
		Email:  strings.TrimSpace(req.Msg.Email),
		Role:   models.RoleCollaborator,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "trip_id", member.TripID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: memberToAPI(member)}), nil
}

// RemoveMember removes a collaborator. Members that appear in any expense or
// payment stay, since dropping them would understate what others owe.
func (s *TripService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "trip_id", req.Msg.TripID, "member_id", req.Msg.MemberID)

	access, err := authorizeOwner(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if req.Msg.MemberID == access.member.ID {
		return nil, failedPrecondition("the owner cannot be removed")
	}

	used, err := s.store.MemberHasLedgerEntries(ctx, access.trip.ID, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if used {
		return nil, failedPrecondition("member has expenses or payments; delete those first")
	}

	if err := s.store.RemoveMember(ctx, access.trip.ID, req.Msg.MemberID); err != nil {
		slog.Error("RemoveMember failed", "error", err)
		return nil, toConnectError(err)
	}
	if err := s.publisher.Publish(ctx, events.New(access.trip.ID, events.MemberRemoved, req.Msg.MemberID)); err != nil {
		slog.Warn("Failed to publish event", "trip_id", access.trip.ID, "error", err)
	}

	slog.Info("Member removed", "trip_id", access.trip.ID, "member_id", req.Msg.MemberID)
	return connect.NewResponse(&api.RemoveMemberResponse{}), nil
}

// displayNameFromEmail derives "alice" from "alice@example.com".
func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
