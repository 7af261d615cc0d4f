package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/middleware"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

// requireUser returns the authenticated user ID from the context.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// tripAccess is what a caller may see of a trip: the trip itself and the
// caller's own member record.
type tripAccess struct {
	userID string
	trip   *models.Trip
	member *models.Member
}

func (a *tripAccess) isOwner() bool {
	return a.member.Role == models.RoleOwner
}

// authorizeTrip loads the trip and checks that the caller is one of its
// members.
func authorizeTrip(ctx context.Context, store storage.Store, tripID string) (*tripAccess, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if tripID == "" {
		return nil, invalidArgument("trip_id required")
	}

	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}

	member, err := store.GetMemberByUser(ctx, tripID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, permissionDenied("you must be a member of this trip")
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	return &tripAccess{userID: userID, trip: trip, member: member}, nil
}

// authorizeOwner is authorizeTrip restricted to the trip owner.
func authorizeOwner(ctx context.Context, store storage.Store, tripID string) (*tripAccess, error) {
	access, err := authorizeTrip(ctx, store, tripID)
	if err != nil {
		return nil, err
	}
	if !access.isOwner() {
		return nil, permissionDenied("only the trip owner can do this")
	}
	return access, nil
}
