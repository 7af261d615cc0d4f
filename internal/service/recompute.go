package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/metrics"
	"github.com/mmynk/wanderplan/internal/storage"
)

// Recomputer rebuilds a trip's settlement plan whenever its ledger changes.
// It is the handler behind the settlement worker.
type Recomputer struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewRecomputer creates a Recomputer. m may be nil.
func NewRecomputer(store storage.Store, m *metrics.Metrics) *Recomputer {
	return &Recomputer{store: store, metrics: m}
}

// HandleEvent recomputes the plan of e's trip and logs it.
//
// Only storage failures are returned, so the event is redelivered. A trip
// that is gone or whose data the engine refuses cannot get better by
// retrying, so those are logged and acknowledged.
func (r *Recomputer) HandleEvent(ctx context.Context, e events.Event) (err error) {
	defer func() { r.metrics.ObserveEvent("in", err) }()

	logger := slog.With("trip_id", e.TripID, "kind", e.Kind, "entity_id", e.EntityID)
	logger.Debug("Event received")

	trip, err := r.store.GetTrip(ctx, e.TripID)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info("Trip no longer exists, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	ledger, err := LoadLedger(ctx, r.store, trip)
	if err != nil {
		return err
	}
	plan, err := ledger.Settle()
	if err != nil {
		logger.Error("Settlement failed", "error", err)
		return nil
	}
	r.metrics.ObserveSettlement(len(plan.Sheet.Rejected))

	for _, rej := range plan.Sheet.Rejected {
		logger.Warn("Expense excluded from balances", "expense_id", rej.ExpenseID, "reason", rej.Error())
	}
	for _, st := range plan.Settlements {
		logger.Debug("Transfer", "from", st.From, "to", st.To, "amount", st.Amount.StringFixed(2))
	}
	logger.Info("Settlement plan recomputed",
		"members", len(plan.Balances),
		"expenses", len(ledger.Expenses),
		"payments", len(ledger.Payments),
		"transfers", len(plan.Settlements),
		"drift", plan.Sheet.Drift().String(),
	)
	return nil
}
