package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/events"
)

func TestCreateTrip(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")

	resp, err := alice.trips.CreateTrip(context.Background(), connect.NewRequest(lisbonTrip()))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	trip := resp.Msg.Trip
	if trip.ID == "" {
		t.Error("expected non-empty trip ID")
	}
	if trip.OwnerID != "alice" {
		t.Errorf("owner: expected 'alice', got '%s'", trip.OwnerID)
	}
	if trip.Days != 3 {
		t.Errorf("days: expected 3, got %d", trip.Days)
	}
	if trip.Currency != "EUR" {
		t.Errorf("currency: expected 'EUR', got '%s'", trip.Currency)
	}
	if trip.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}

	if len(resp.Msg.Members) != 1 {
		t.Fatalf("members: expected 1, got %d", len(resp.Msg.Members))
	}
	owner := resp.Msg.Members[0]
	if owner.Name != "Alice" || owner.Role != "owner" || owner.UserID != "alice" {
		t.Errorf("unexpected owner member: %+v", owner)
	}
}

func TestCreateTrip_Defaults(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")

	trip, owner := createTrip(t, alice, &api.CreateTripRequest{
		Destination: "Kyoto",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-01",
		Currency:    "jpy",
	})

	if trip.Name != "Trip to Kyoto" {
		t.Errorf("name: expected 'Trip to Kyoto', got '%s'", trip.Name)
	}
	if trip.Currency != "JPY" {
		t.Errorf("currency: expected 'JPY', got '%s'", trip.Currency)
	}
	if trip.Days != 1 {
		t.Errorf("days: expected 1, got %d", trip.Days)
	}
	if owner.Name != "alice" {
		t.Errorf("owner name: expected name from email, got '%s'", owner.Name)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")

	tests := []struct {
		name string
		req  *api.CreateTripRequest
	}{
		{"bad start date", &api.CreateTripRequest{StartDate: "May 1", EndDate: "2026-05-03"}},
		{"end before start", &api.CreateTripRequest{StartDate: "2026-05-03", EndDate: "2026-05-01"}},
		{"unsupported currency", &api.CreateTripRequest{StartDate: "2026-05-01", EndDate: "2026-05-03", Currency: "XYZ"}},
		{"negative budget", &api.CreateTripRequest{StartDate: "2026-05-01", EndDate: "2026-05-03", Budget: dec("-1")}},
		{"too long", &api.CreateTripRequest{StartDate: "2026-01-01", EndDate: "2027-06-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.trips.CreateTrip(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestCreateTrip_Unauthenticated(t *testing.T) {
	srv := setupTestServer(t, nil)
	client := newAnonymousTripClient(srv)

	_, err := client.CreateTrip(context.Background(), connect.NewRequest(lisbonTrip()))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestGetTrip_AccessControl(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	mallory := srv.clientsFor(t, "mallory")

	trip, _ := createTrip(t, alice, lisbonTrip())

	resp, err := alice.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != "Lisbon long weekend" {
		t.Errorf("name: expected 'Lisbon long weekend', got '%s'", resp.Msg.Trip.Name)
	}

	_, err = mallory.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = alice.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListTrips(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	bob := srv.clientsFor(t, "bob")

	lisbon, _ := createTrip(t, alice, lisbonTrip())
	createTrip(t, bob, &api.CreateTripRequest{Destination: "Oslo", StartDate: "2026-06-01", EndDate: "2026-06-02"})
	join(t, alice, bob, lisbon.ID, "Bob")

	resp, err := alice.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(resp.Msg.Trips) != 1 {
		t.Errorf("alice trips: expected 1, got %d", len(resp.Msg.Trips))
	}

	resp, err = bob.trips.ListTrips(context.Background(), connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(resp.Msg.Trips) != 2 {
		t.Errorf("bob trips: expected 2, got %d", len(resp.Msg.Trips))
	}
}

func TestUpdateTrip(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	ctx := context.Background()

	trip, owner := createTrip(t, alice, lisbonTrip())

	resp, err := alice.trips.UpdateTrip(ctx, connect.NewRequest(&api.UpdateTripRequest{
		TripID:      trip.ID,
		Name:        "Lisbon and Sintra",
		Destination: "Lisbon",
		StartDate:   "2026-05-01",
		EndDate:     "2026-05-05",
		Currency:    "EUR",
	}))
	if err != nil {
		t.Fatalf("UpdateTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != "Lisbon and Sintra" || resp.Msg.Trip.Days != 5 {
		t.Errorf("unexpected trip after update: %+v", resp.Msg.Trip)
	}

	if _, err := alice.itinerary.AddActivity(ctx, connect.NewRequest(&api.AddActivityRequest{
		TripID: trip.ID, Day: 5, Title: "Pena Palace",
	})); err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}

	// Shortening below day 5 would orphan the activity
	_, err = alice.trips.UpdateTrip(ctx, connect.NewRequest(&api.UpdateTripRequest{
		TripID:    trip.ID,
		StartDate: "2026-05-01",
		EndDate:   "2026-05-03",
		Currency:  "EUR",
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	if _, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		TripID: trip.ID, Title: "Tram", Amount: dec("3"), PayerID: owner.ID,
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// The currency is fixed once expenses exist
	_, err = alice.trips.UpdateTrip(ctx, connect.NewRequest(&api.UpdateTripRequest{
		TripID:    trip.ID,
		StartDate: "2026-05-01",
		EndDate:   "2026-05-05",
		Currency:  "USD",
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)
}

func TestDeleteTrip_OwnerOnly(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	bob := srv.clientsFor(t, "bob")
	ctx := context.Background()

	trip, _ := createTrip(t, alice, lisbonTrip())
	join(t, alice, bob, trip.ID, "Bob")

	_, err := bob.trips.DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	if _, err := alice.trips.DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: trip.ID})); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}

	_, err = alice.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestInvitation(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	bob := srv.clientsFor(t, "bob")
	carol := srv.clientsFor(t, "carol")
	ctx := context.Background()

	trip, _ := createTrip(t, alice, lisbonTrip())

	_, err := bob.trips.InviteCollaborator(ctx, connect.NewRequest(&api.InviteCollaboratorRequest{TripID: trip.ID, Name: "Bob"}))
	expectCode(t, err, connect.CodePermissionDenied)

	inv, err := alice.trips.InviteCollaborator(ctx, connect.NewRequest(&api.InviteCollaboratorRequest{
		TripID: trip.ID,
		Email:  "bob@example.com",
	}))
	if err != nil {
		t.Fatalf("InviteCollaborator failed: %v", err)
	}
	if inv.Msg.Token == "" || inv.Msg.InvitationID == "" {
		t.Fatalf("expected invitation ID and token, got %+v", inv.Msg)
	}

	_, err = bob.trips.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{
		InvitationID: inv.Msg.InvitationID,
		Token:        "wrong",
	}))
	expectCode(t, err, connect.CodePermissionDenied)

	_, err = alice.trips.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{
		InvitationID: inv.Msg.InvitationID,
		Token:        inv.Msg.Token,
	}))
	expectCode(t, err, connect.CodeAlreadyExists)

	acc, err := bob.trips.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{
		InvitationID: inv.Msg.InvitationID,
		Token:        inv.Msg.Token,
	}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	if acc.Msg.Member.Name != "bob" || acc.Msg.Member.Role != "collaborator" {
		t.Errorf("unexpected member: %+v", acc.Msg.Member)
	}
	if acc.Msg.Trip.ID != trip.ID {
		t.Errorf("trip: expected %s, got %s", trip.ID, acc.Msg.Trip.ID)
	}

	// Single use
	_, err = carol.trips.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{
		InvitationID: inv.Msg.InvitationID,
		Token:        inv.Msg.Token,
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	got, err := bob.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip as collaborator failed: %v", err)
	}
	if len(got.Msg.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(got.Msg.Members))
	}
}

func TestRemoveMember(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	bob := srv.clientsFor(t, "bob")
	carol := srv.clientsFor(t, "carol")
	ctx := context.Background()

	trip, owner := createTrip(t, alice, lisbonTrip())
	bobMember := join(t, alice, bob, trip.ID, "Bob")
	carolMember := join(t, alice, carol, trip.ID, "Carol")

	if _, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		TripID:         trip.ID,
		Title:          "Pastéis de nata",
		Amount:         dec("6"),
		PayerID:        owner.ID,
		ParticipantIDs: []string{owner.ID, bobMember.ID},
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	_, err := alice.trips.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: owner.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = alice.trips.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: bobMember.ID}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = bob.trips.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: carolMember.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	if _, err := alice.trips.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{TripID: trip.ID, MemberID: carolMember.ID})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	_, err = carol.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	expectCode(t, err, connect.CodePermissionDenied)

	published := srv.published.Events()
	last := published[len(published)-1]
	if last.Kind != events.MemberRemoved || last.EntityID != carolMember.ID {
		t.Errorf("expected member.removed event for carol, got %+v", last)
	}
}

func TestAddMember(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice := srv.clientsFor(t, "alice")
	bob := srv.clientsFor(t, "bob")
	ctx := context.Background()

	trip, owner := createTrip(t, alice, lisbonTrip())
	join(t, alice, bob, trip.ID, "Bob")

	resp, err := alice.trips.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: " Grandma "}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	grandma := resp.Msg.Member
	if grandma.Name != "Grandma" || grandma.UserID != "" || grandma.Role != "collaborator" {
		t.Errorf("unexpected member: %+v", grandma)
	}

	_, err = alice.trips.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: "grandma"}))
	expectCode(t, err, connect.CodeAlreadyExists)

	_, err = alice.trips.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: " "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = bob.trips.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{TripID: trip.ID, Name: "Dave"}))
	expectCode(t, err, connect.CodePermissionDenied)

	// Members without accounts still share expenses
	created, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		TripID:         trip.ID,
		Title:          "Taxi",
		Amount:         dec("20"),
		PayerID:        grandma.ID,
		ParticipantIDs: []string{owner.ID, grandma.ID},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	expectAmount(t, "grandma net", balanceOf(t, created.Msg.Summary, grandma.ID).Net, "10")
}
