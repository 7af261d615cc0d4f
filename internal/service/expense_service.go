package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/metrics"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/settlement"
	"github.com/mmynk/wanderplan/internal/storage"
)

// ExpenseService implements the Connect ExpenseService.
//
// Balances are never stored. Every mutation is followed by a full
// recomputation from a fresh read of the trip's ledger, and the result is
// returned with the mutation's response.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService. publisher may be nil when
// no broker is configured; m may be nil to disable metrics.
func NewExpenseService(store storage.Store, publisher events.Publisher, m *metrics.Metrics) *ExpenseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ExpenseService{store: store, publisher: publisher, metrics: m}
}

// expenseInput is the part shared by create and update requests.
type expenseInput struct {
	Title          string
	Amount         decimal.Decimal
	PayerID        string
	ParticipantIDs []string
	SplitMode      string
	Splits         map[string]decimal.Decimal
	Weights        map[string]decimal.Decimal
	Date           string
	Category       string
}

// buildExpense turns request fields into a validated expense for trip.
func buildExpense(in expenseInput, trip *models.Trip, members []models.Member) (*models.SharedExpense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidArgument("title required")
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if in.Date != "" {
		var err error
		if date, err = parseDate("date", in.Date); err != nil {
			return nil, err
		}
	}

	participants := in.ParticipantIDs
	if len(participants) == 0 {
		// Default to everyone on the trip
		participants = make([]string, len(members))
		for i, m := range members {
			participants[i] = m.ID
		}
	}

	var splits map[string]decimal.Decimal
	var err error
	switch in.SplitMode {
	case "", api.SplitEqual:
		splits, err = settlement.EqualSplits(in.Amount, participants)
	case api.SplitWeighted:
		splits, err = settlement.WeightedSplits(in.Amount, participants, in.Weights)
	case api.SplitExact:
		splits = in.Splits
		// The engine tolerates a cent per stored expense; new ones must be exact.
		sum := decimal.Zero
		for _, share := range splits {
			sum = sum.Add(share)
		}
		if !sum.Equal(in.Amount) {
			return nil, invalidArgument("splits sum to %s, amount is %s", sum, in.Amount)
		}
	default:
		return nil, invalidArgument("unknown split_mode %q", in.SplitMode)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	expense := &models.SharedExpense{
		TripID:         trip.ID,
		Title:          title,
		Amount:         in.Amount,
		PayerID:        in.PayerID,
		ParticipantIDs: participants,
		Splits:         splits,
		Date:           date,
		Category:       normalizeCategory(in.Category),
	}

	// Reject bad data at the door; the engine would only exclude it later.
	if err := settlement.ValidateExpense(*expense); err != nil {
		return nil, toConnectError(err)
	}
	if err := settlement.CheckMembers(*expense, settlement.MemberSet(members)); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return expense, nil
}

// summarize recomputes the trip's balances from a fresh ledger read.
func (s *ExpenseService) summarize(ctx context.Context, trip *models.Trip, locale string) (*api.BalanceSummary, error) {
	ledger, err := LoadLedger(ctx, s.store, trip)
	if err != nil {
		return nil, toConnectError(err)
	}
	plan, err := ledger.Settle()
	if err != nil {
		slog.Error("Settlement failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveSettlement(len(plan.Sheet.Rejected))
	for _, r := range plan.Sheet.Rejected {
		slog.Warn("Expense excluded from balances", "trip_id", trip.ID, "expense_id", r.ExpenseID, "reason", r.Error())
	}
	return summaryToAPI(plan, trip, locale), nil
}

// publish sends an event without failing the RPC if the broker is down.
func (s *ExpenseService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	s.metrics.ObserveEvent("out", err)
	if err != nil {
		slog.Warn("Failed to publish event", "trip_id", e.TripID, "kind", e.Kind, "error", err)
	}
}

// CreateExpense records a shared expense and returns the new balances.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"trip_id", req.Msg.TripID,
		"amount", req.Msg.Amount,
		"participants_count", len(req.Msg.ParticipantIDs),
		"split_mode", req.Msg.SplitMode,
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, access.trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := buildExpense(expenseInput{
		Title:          req.Msg.Title,
		Amount:         req.Msg.Amount,
		PayerID:        req.Msg.PayerID,
		ParticipantIDs: req.Msg.ParticipantIDs,
		SplitMode:      req.Msg.SplitMode,
		Splits:         req.Msg.Splits,
		Weights:        req.Msg.Weights,
		Date:           req.Msg.Date,
		Category:       req.Msg.Category,
	}, access.trip, members)
	if err != nil {
		slog.Error("CreateExpense validation failed", "error", err)
		return nil, err
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense created", "expense_id", expense.ID, "trip_id", expense.TripID)
	s.publish(ctx, events.New(expense.TripID, events.ExpenseCreated, expense.ID))

	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: expenseToAPI(expense),
		Summary: summary,
	}), nil
}

// UpdateExpense replaces an expense and returns the new balances.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := authorizeTrip(ctx, s.store, existing.TripID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, access.trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := buildExpense(expenseInput{
		Title:          req.Msg.Title,
		Amount:         req.Msg.Amount,
		PayerID:        req.Msg.PayerID,
		ParticipantIDs: req.Msg.ParticipantIDs,
		SplitMode:      req.Msg.SplitMode,
		Splits:         req.Msg.Splits,
		Weights:        req.Msg.Weights,
		Date:           req.Msg.Date,
		Category:       req.Msg.Category,
	}, access.trip, members)
	if err != nil {
		slog.Error("UpdateExpense validation failed", "error", err)
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense updated", "expense_id", expense.ID)
	s.publish(ctx, events.New(expense.TripID, events.ExpenseUpdated, expense.ID))

	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.UpdateExpenseResponse{
		Expense: expenseToAPI(expense),
		Summary: summary,
	}), nil
}

// DeleteExpense removes an expense and returns the new balances.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := authorizeTrip(ctx, s.store, existing.TripID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, existing.ID); err != nil {
		slog.Error("DeleteExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, events.New(existing.TripID, events.ExpenseDeleted, existing.ID))

	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{Summary: summary}), nil
}

// ListExpenses returns a trip's expenses ordered by date.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, access.trip.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = expenseToAPI(&expenses[i])
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetBalances computes every member's net balance and the transfers that
// would settle the trip.
func (s *ExpenseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}

	slog.Info("GetBalances successful",
		"trip_id", access.trip.ID,
		"members_count", len(summary.Balances),
		"settlements_count", len(summary.Settlements),
	)
	return connect.NewResponse(&api.GetBalancesResponse{Summary: summary}), nil
}

// RecordPayment records a settle-up transfer between two members.
func (s *ExpenseService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"trip_id", req.Msg.TripID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	if !req.Msg.Amount.IsPositive() {
		return nil, invalidArgument("amount must be positive")
	}
	if req.Msg.FromID == "" || req.Msg.ToID == "" {
		return nil, invalidArgument("from_id and to_id required")
	}
	if req.Msg.FromID == req.Msg.ToID {
		return nil, invalidArgument("cannot record a payment to yourself")
	}
	members, err := s.store.ListMembers(ctx, access.trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	known := settlement.MemberSet(members)
	for _, id := range []string{req.Msg.FromID, req.Msg.ToID} {
		if !known[id] {
			return nil, invalidArgument("%s is not a member of this trip", id)
		}
	}

	payment := &models.Payment{
		TripID:    access.trip.ID,
		FromID:    req.Msg.FromID,
		ToID:      req.Msg.ToID,
		Amount:    req.Msg.Amount,
		Note:      strings.TrimSpace(req.Msg.Note),
		CreatedBy: access.userID,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Payment recorded", "payment_id", payment.ID, "trip_id", payment.TripID)
	s.publish(ctx, events.New(payment.TripID, events.PaymentRecorded, payment.ID))

	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.RecordPaymentResponse{
		Payment: paymentToAPI(payment),
		Summary: summary,
	}), nil
}

// DeletePayment removes a recorded payment.
func (s *ExpenseService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	slog.Info("DeletePayment request received", "payment_id", req.Msg.PaymentID)

	if req.Msg.PaymentID == "" {
		return nil, invalidArgument("payment_id required")
	}
	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	access, err := authorizeTrip(ctx, s.store, payment.TripID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeletePayment(ctx, payment.ID); err != nil {
		slog.Error("DeletePayment failed", "error", err)
		return nil, toConnectError(err)
	}
	s.publish(ctx, events.New(payment.TripID, events.PaymentDeleted, payment.ID))

	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.DeletePaymentResponse{Summary: summary}), nil
}

// ListPayments returns a trip's recorded payments, oldest first.
func (s *ExpenseService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	slog.Info("ListPayments request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, access.trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i := range payments {
		out[i] = paymentToAPI(&payments[i])
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}
