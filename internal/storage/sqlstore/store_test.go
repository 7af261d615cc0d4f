package sqlstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "wanderplan-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := OpenSQLite(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newSQLiteStore(t))
}

// TestPostgresStore runs the same suite against a real Postgres database.
// Set WANDERPLAN_TEST_POSTGRES_DSN to enable it.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("WANDERPLAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WANDERPLAN_TEST_POSTGRES_DSN not set")
	}
	store, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	runStoreTests(t, store)
}

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTrip creates a trip owned by ownerUser and returns it with its owner member.
func newTrip(t *testing.T, store *Store, ownerUser string) (*models.Trip, *models.Member) {
	t.Helper()
	trip := &models.Trip{
		OwnerID:     ownerUser,
		Destination: "Lisbon",
		StartDate:   date("2026-05-01"),
		EndDate:     date("2026-05-04"),
		Currency:    "EUR",
	}
	owner := &models.Member{UserID: ownerUser, Name: "Alice"}
	if err := store.CreateTrip(context.Background(), trip, owner); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip, owner
}

func runStoreTests(t *testing.T, store *Store) {
	ctx := context.Background()

	t.Run("CreateTrip generates IDs and name", func(t *testing.T) {
		trip, owner := newTrip(t, store, "user-create")

		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.Name != "Trip to Lisbon" {
			t.Errorf("Expected generated name, got %q", trip.Name)
		}
		if trip.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if owner.ID == "" || owner.TripID != trip.ID || owner.Role != models.RoleOwner {
			t.Errorf("Unexpected owner member: %+v", owner)
		}
	})

	t.Run("GetTrip round-trips dates and budget", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-get")
		trip.Budget = d("1500.50")
		if err := store.UpdateTrip(ctx, trip); err != nil {
			t.Fatalf("UpdateTrip failed: %v", err)
		}

		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if !got.StartDate.Equal(trip.StartDate) || !got.EndDate.Equal(trip.EndDate) {
			t.Errorf("Dates mismatch: got %v..%v", got.StartDate, got.EndDate)
		}
		if !got.Budget.Equal(d("1500.50")) {
			t.Errorf("Budget mismatch: got %s", got.Budget)
		}
		if got.Days() != 4 {
			t.Errorf("Expected 4 days, got %d", got.Days())
		}
	})

	t.Run("GetTrip returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListTripsForUser only returns member trips", func(t *testing.T) {
		mine, _ := newTrip(t, store, "user-list")
		other, _ := newTrip(t, store, "user-list-other")
		if err := store.AddMember(ctx, &models.Member{TripID: other.ID, UserID: "user-list", Name: "Bob"}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		newTrip(t, store, "user-list-stranger")

		trips, err := store.ListTripsForUser(ctx, "user-list")
		if err != nil {
			t.Fatalf("ListTripsForUser failed: %v", err)
		}
		if len(trips) != 2 {
			t.Fatalf("Expected 2 trips, got %d", len(trips))
		}
		ids := map[string]bool{trips[0].ID: true, trips[1].ID: true}
		if !ids[mine.ID] || !ids[other.ID] {
			t.Errorf("Unexpected trips: %v", ids)
		}
	})

	t.Run("AddMember rejects second binding of the same user", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-dup")
		err := store.AddMember(ctx, &models.Member{TripID: trip.ID, UserID: "user-dup", Name: "Again"})
		if err == nil {
			t.Error("Expected error adding the same user twice")
		}
	})

	t.Run("Expense round-trip keeps participant order and splits", func(t *testing.T) {
		trip, alice := newTrip(t, store, "user-expense")
		bob := &models.Member{TripID: trip.ID, Name: "Bob"}
		carol := &models.Member{TripID: trip.ID, Name: "Carol"}
		for _, m := range []*models.Member{bob, carol} {
			if err := store.AddMember(ctx, m); err != nil {
				t.Fatalf("AddMember failed: %v", err)
			}
		}

		expense := &models.SharedExpense{
			TripID:         trip.ID,
			Title:          "Dinner",
			Amount:         d("100"),
			PayerID:        alice.ID,
			ParticipantIDs: []string{carol.ID, alice.ID, bob.ID},
			Splits: map[string]decimal.Decimal{
				carol.ID: d("33.34"),
				alice.ID: d("33.33"),
				bob.ID:   d("33.33"),
			},
			Date:     date("2026-05-02"),
			Category: "food",
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.ParticipantIDs) != 3 || got.ParticipantIDs[0] != carol.ID || got.ParticipantIDs[2] != bob.ID {
			t.Errorf("Participant order mismatch: %v", got.ParticipantIDs)
		}
		if !got.Splits[carol.ID].Equal(d("33.34")) {
			t.Errorf("Split mismatch: %v", got.Splits)
		}
		if !got.Amount.Equal(d("100")) || !got.Date.Equal(expense.Date) {
			t.Errorf("Unexpected expense: %+v", got)
		}

		expense.Title = "Dinner (edited)"
		expense.ParticipantIDs = []string{alice.ID, bob.ID}
		expense.Splits = map[string]decimal.Decimal{alice.ID: d("50"), bob.ID: d("50")}
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		list, err := store.ListExpenses(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Dinner (edited)" || len(list[0].Splits) != 2 {
			t.Errorf("Unexpected expenses after update: %+v", list)
		}

		used, err := store.MemberHasLedgerEntries(ctx, trip.ID, bob.ID)
		if err != nil || !used {
			t.Errorf("Expected bob to have ledger entries, got %v, %v", used, err)
		}
		used, err = store.MemberHasLedgerEntries(ctx, trip.ID, carol.ID)
		if err != nil || used {
			t.Errorf("Expected carol to have no ledger entries, got %v, %v", used, err)
		}

		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Payments", func(t *testing.T) {
		trip, alice := newTrip(t, store, "user-payment")
		bob := &models.Member{TripID: trip.ID, Name: "Bob"}
		if err := store.AddMember(ctx, bob); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		p := &models.Payment{TripID: trip.ID, FromID: bob.ID, ToID: alice.ID, Amount: d("12.50"), CreatedBy: "user-payment"}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		got, err := store.GetPayment(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPayment failed: %v", err)
		}
		if got.Note != "" || !got.Amount.Equal(d("12.50")) {
			t.Errorf("Unexpected payment: %+v", got)
		}

		list, err := store.ListPayments(ctx, trip.ID)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListPayments: %v, %v", list, err)
		}
		if err := store.DeletePayment(ctx, p.ID); err != nil {
			t.Fatalf("DeletePayment failed: %v", err)
		}
		if err := store.DeletePayment(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("Activities keep dense positions", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-activity")
		var day1 []*models.Activity
		for _, title := range []string{"Castle", "Lunch", "Tram 28"} {
			a := &models.Activity{TripID: trip.ID, Day: 1, Title: title, Currency: "EUR"}
			if err := store.CreateActivity(ctx, a); err != nil {
				t.Fatalf("CreateActivity failed: %v", err)
			}
			day1 = append(day1, a)
		}
		if day1[2].Position != 2 {
			t.Errorf("Expected third activity at position 2, got %d", day1[2].Position)
		}
		museum := &models.Activity{TripID: trip.ID, Day: 2, Title: "Museum", Currency: "EUR", Cost: d("15")}
		if err := store.CreateActivity(ctx, museum); err != nil {
			t.Fatalf("CreateActivity failed: %v", err)
		}

		// Move the museum onto day 1 first, and Tram 28 second.
		if err := store.ReorderDay(ctx, trip.ID, 1, []string{museum.ID, day1[2].ID}); err != nil {
			t.Fatalf("ReorderDay failed: %v", err)
		}
		list, err := store.ListActivities(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListActivities failed: %v", err)
		}
		want := []string{"Museum", "Tram 28", "Castle", "Lunch"}
		if len(list) != len(want) {
			t.Fatalf("Expected %d activities, got %d", len(want), len(list))
		}
		for i, a := range list {
			if a.Title != want[i] || a.Day != 1 || a.Position != i {
				t.Errorf("Activity %d: got %s day=%d pos=%d", i, a.Title, a.Day, a.Position)
			}
		}

		if err := store.DeleteActivity(ctx, museum.ID); err != nil {
			t.Fatalf("DeleteActivity failed: %v", err)
		}
		got, err := store.GetActivity(ctx, day1[2].ID)
		if err != nil {
			t.Fatalf("GetActivity failed: %v", err)
		}
		if got.Position != 0 {
			t.Errorf("Expected day to be compacted, Tram 28 at %d", got.Position)
		}

		err = store.ReorderDay(ctx, trip.ID, 1, []string{"missing"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for unknown activity, got %v", err)
		}
	})

	t.Run("UpdateActivity moving days appends and compacts", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-move")
		a := &models.Activity{TripID: trip.ID, Day: 1, Title: "A", Currency: "EUR"}
		b := &models.Activity{TripID: trip.ID, Day: 1, Title: "B", Currency: "EUR"}
		c := &models.Activity{TripID: trip.ID, Day: 2, Title: "C", Currency: "EUR"}
		for _, act := range []*models.Activity{a, b, c} {
			if err := store.CreateActivity(ctx, act); err != nil {
				t.Fatalf("CreateActivity failed: %v", err)
			}
		}

		a.Day = 2
		if err := store.UpdateActivity(ctx, a); err != nil {
			t.Fatalf("UpdateActivity failed: %v", err)
		}
		if a.Position != 1 {
			t.Errorf("Expected A appended at 1, got %d", a.Position)
		}
		gotB, _ := store.GetActivity(ctx, b.ID)
		if gotB.Position != 0 {
			t.Errorf("Expected B compacted to 0, got %d", gotB.Position)
		}
	})

	t.Run("SetBudget replaces categories", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-budget")
		err := store.SetBudget(ctx, trip.ID, d("2000"), []models.BudgetCategory{
			{Category: "food", Limit: d("600")},
			{Category: "lodging", Limit: d("900")},
		})
		if err != nil {
			t.Fatalf("SetBudget failed: %v", err)
		}
		err = store.SetBudget(ctx, trip.ID, d("1800"), []models.BudgetCategory{{Category: "food", Limit: d("500")}})
		if err != nil {
			t.Fatalf("SetBudget failed: %v", err)
		}

		cats, err := store.ListBudgetCategories(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListBudgetCategories failed: %v", err)
		}
		if len(cats) != 1 || cats[0].Category != "food" || !cats[0].Limit.Equal(d("500")) {
			t.Errorf("Unexpected categories: %+v", cats)
		}
		got, _ := store.GetTrip(ctx, trip.ID)
		if !got.Budget.Equal(d("1800")) {
			t.Errorf("Expected trip budget 1800, got %s", got.Budget)
		}
	})

	t.Run("AcceptInvitation only once", func(t *testing.T) {
		trip, _ := newTrip(t, store, "user-invite")
		inv := &models.Invitation{TripID: trip.ID, Name: "Dan", TokenHash: "hash", CreatedBy: "user-invite"}
		if err := store.CreateInvitation(ctx, inv); err != nil {
			t.Fatalf("CreateInvitation failed: %v", err)
		}

		member := &models.Member{TripID: trip.ID, UserID: "user-dan", Name: "Dan"}
		if err := store.AcceptInvitation(ctx, inv.ID, member); err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
		if member.Role != models.RoleCollaborator {
			t.Errorf("Expected collaborator role, got %s", member.Role)
		}

		got, err := store.GetInvitation(ctx, inv.ID)
		if err != nil {
			t.Fatalf("GetInvitation failed: %v", err)
		}
		if got.Pending() {
			t.Error("Expected invitation to be accepted")
		}

		err = store.AcceptInvitation(ctx, inv.ID, &models.Member{TripID: trip.ID, UserID: "user-eve", Name: "Eve"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
		members, _ := store.ListMembers(ctx, trip.ID)
		if len(members) != 2 {
			t.Errorf("Expected 2 members, got %d", len(members))
		}
	})

	t.Run("DeleteTrip cascades", func(t *testing.T) {
		trip, owner := newTrip(t, store, "user-delete")
		p := &models.Payment{TripID: trip.ID, FromID: owner.ID, ToID: owner.ID, Amount: d("1"), CreatedBy: "x"}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if _, err := store.GetPayment(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected payment to be deleted with the trip, got %v", err)
		}
		members, _ := store.ListMembers(ctx, trip.ID)
		if len(members) != 0 {
			t.Errorf("Expected no members, got %d", len(members))
		}
	})
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: dialectPostgres}
	got := pg.q("SELECT a FROM t WHERE x = ? AND y IN (" + placeholders(2) + ")")
	want := "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)"
	if got != want {
		t.Errorf("q() = %q, want %q", got, want)
	}

	lite := &Store{dialect: dialectSQLite}
	if got := lite.q("x = ?"); got != "x = ?" {
		t.Errorf("SQLite query should be unchanged, got %q", got)
	}
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "nested", "open.db"), "")
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	store.Close()

	if _, err := Open(context.Background(), "mysql", "", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}
