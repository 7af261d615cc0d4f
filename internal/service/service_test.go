package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/auth"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/middleware"
	"github.com/mmynk/wanderplan/internal/storage/sqlstore"
	"github.com/mmynk/wanderplan/internal/suggest"
)

// providerFunc adapts a function to suggest.Provider.
type providerFunc func(ctx context.Context, system, user string) (string, error)

func (f providerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// testServer runs every service behind the real auth interceptor.
type testServer struct {
	url       string
	jwt       *auth.JWTManager
	store     *sqlstore.Store
	published *events.Recorder
}

// testClients are the service clients of one signed-in user.
type testClients struct {
	trips      apiconnect.TripServiceClient
	itinerary  apiconnect.ItineraryServiceClient
	expenses   apiconnect.ExpenseServiceClient
	budget     apiconnect.BudgetServiceClient
	suggestion apiconnect.SuggestionServiceClient
}

// setupTestServer creates a test server over a temp SQLite database.
// provider may be nil to leave suggestions disabled.
func setupTestServer(t *testing.T, provider suggest.Provider) *testServer {
	t.Helper()

	store, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", "", time.Hour)
	recorder := &events.Recorder{}

	var suggester *suggest.Suggester
	if provider != nil {
		suggester = suggest.New(provider, time.Second)
	}

	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(store, recorder), interceptors))
	mux.Handle(apiconnect.NewItineraryServiceHandler(NewItineraryService(store), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, recorder, nil), interceptors))
	mux.Handle(apiconnect.NewBudgetServiceHandler(NewBudgetService(store), interceptors))
	mux.Handle(apiconnect.NewSuggestionServiceHandler(NewSuggestionService(store, suggester), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, jwt: jwtManager, store: store, published: recorder}
}

// clientsFor returns clients that authenticate as userID.
func (s *testServer) clientsFor(t *testing.T, userID string) *testClients {
	t.Helper()

	token, err := s.jwt.Generate(userID, userID+"@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	bearer := connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	})
	opt := connect.WithInterceptors(bearer)

	return &testClients{
		trips:      apiconnect.NewTripServiceClient(http.DefaultClient, s.url, opt),
		itinerary:  apiconnect.NewItineraryServiceClient(http.DefaultClient, s.url, opt),
		expenses:   apiconnect.NewExpenseServiceClient(http.DefaultClient, s.url, opt),
		budget:     apiconnect.NewBudgetServiceClient(http.DefaultClient, s.url, opt),
		suggestion: apiconnect.NewSuggestionServiceClient(http.DefaultClient, s.url, opt),
	}
}

// createTrip creates a trip owned by c and returns it with the owner member.
func createTrip(t *testing.T, c *testClients, req *api.CreateTripRequest) (*api.Trip, *api.Member) {
	t.Helper()

	resp, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return resp.Msg.Trip, resp.Msg.Members[0]
}

// join has owner invite guest to the trip and accepts as guest.
func join(t *testing.T, owner, guest *testClients, tripID, name string) *api.Member {
	t.Helper()

	inv, err := owner.trips.InviteCollaborator(context.Background(), connect.NewRequest(&api.InviteCollaboratorRequest{
		TripID: tripID,
		Name:   name,
	}))
	if err != nil {
		t.Fatalf("InviteCollaborator failed: %v", err)
	}
	acc, err := guest.trips.AcceptInvitation(context.Background(), connect.NewRequest(&api.AcceptInvitationRequest{
		InvitationID: inv.Msg.InvitationID,
		Token:        inv.Msg.Token,
	}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	return acc.Msg.Member
}

// lisbonTrip is a three-day EUR trip.
func lisbonTrip() *api.CreateTripRequest {
	return &api.CreateTripRequest{
		Name:        "Lisbon long weekend",
		Destination: "Lisbon",
		StartDate:   "2026-05-01",
		EndDate:     "2026-05-03",
		Currency:    "EUR",
		OwnerName:   "Alice",
	}
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%v)", want, connectErr.Code(), err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expectAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got)
	}
}

// newAnonymousTripClient returns a client that sends no credentials.
func newAnonymousTripClient(s *testServer) apiconnect.TripServiceClient {
	return apiconnect.NewTripServiceClient(http.DefaultClient, s.url)
}
