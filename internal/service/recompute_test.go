package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/metrics"
	"github.com/mmynk/wanderplan/internal/models"
)

// counterValue sums every series of a counter family in m's registry.
func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecomputer_HandleEvent(t *testing.T) {
	srv := setupTestServer(t, nil)
	alice, trip, m := threeFriends(t, srv)
	ctx := context.Background()

	created, err := alice.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		TripID: trip.ID, Title: "Dinner", Amount: dec("90"), PayerID: m[0].ID,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	reg := metrics.New()
	r := NewRecomputer(srv.store, reg)

	if err := r.HandleEvent(ctx, events.New(trip.ID, events.ExpenseCreated, created.Msg.Expense.ID)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if got := counterValue(t, reg, "wanderplan_settlement_computations_total"); got != 1 {
		t.Errorf("settlement computations: expected 1, got %v", got)
	}

	// Deleted trips are acknowledged, not retried
	if err := r.HandleEvent(ctx, events.New("deleted-trip", events.ExpenseDeleted, "x")); err != nil {
		t.Errorf("expected nil for a missing trip, got %v", err)
	}
	if got := counterValue(t, reg, "wanderplan_events_total"); got != 2 {
		t.Errorf("events: expected 2, got %v", got)
	}
}

func TestRecomputer_IntegrityErrorIsNotRetried(t *testing.T) {
	srv := setupTestServer(t, nil)
	_, trip, m := threeFriends(t, srv)
	ctx := context.Background()

	ghost := &models.SharedExpense{
		TripID:         trip.ID,
		Title:          "Orphaned",
		Amount:         dec("10"),
		PayerID:        m[0].ID,
		ParticipantIDs: []string{"ghost"},
		Splits:         map[string]decimal.Decimal{"ghost": dec("10")},
		Date:           time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := srv.store.CreateExpense(ctx, ghost); err != nil {
		t.Fatalf("store.CreateExpense failed: %v", err)
	}

	r := NewRecomputer(srv.store, nil)
	if err := r.HandleEvent(ctx, events.New(trip.ID, events.ExpenseCreated, ghost.ID)); err != nil {
		t.Errorf("expected integrity failure to be acknowledged, got %v", err)
	}
}

func TestRecomputer_StorageErrorIsRetried(t *testing.T) {
	srv := setupTestServer(t, nil)
	_, trip, _ := threeFriends(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRecomputer(srv.store, nil)
	err := r.HandleEvent(ctx, events.New(trip.ID, events.ExpenseCreated, "x"))
	if err == nil {
		t.Fatal("expected error with a cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
