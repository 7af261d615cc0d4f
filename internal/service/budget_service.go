package service

import (
	"context"
	"log/slog"
	"slices"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/currency"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/storage"
)

var hundred = decimal.NewFromInt(100)

// BudgetService implements the Connect BudgetService
type BudgetService struct {
	apiconnect.UnimplementedBudgetServiceHandler
	store storage.Store
}

// NewBudgetService creates a new BudgetService with the given storage backend.
func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// SetBudget sets the trip total and replaces every category limit.
func (s *BudgetService) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	slog.Info("SetBudget request received",
		"trip_id", req.Msg.TripID,
		"total", req.Msg.Total,
		"categories", len(req.Msg.Categories),
	)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if req.Msg.Total.IsNegative() {
		return nil, invalidArgument("total must not be negative")
	}

	categories := make([]models.BudgetCategory, 0, len(req.Msg.Categories))
	seen := make(map[string]bool, len(req.Msg.Categories))
	for _, c := range req.Msg.Categories {
		if c == nil {
			continue
		}
		name := normalizeCategory(c.Category)
		if seen[name] {
			return nil, invalidArgument("category %q listed twice", name)
		}
		if c.Limit.IsNegative() {
			return nil, invalidArgument("limit for %q must not be negative", name)
		}
		seen[name] = true
		categories = append(categories, models.BudgetCategory{
			TripID:   access.trip.ID,
			Category: name,
			Limit:    c.Limit,
		})
	}

	if err := s.store.SetBudget(ctx, access.trip.ID, req.Msg.Total, categories); err != nil {
		slog.Error("SetBudget failed", "error", err)
		return nil, toConnectError(err)
	}
	trip := *access.trip
	trip.Budget = req.Msg.Total

	summary, err := s.summarize(ctx, &trip, "")
	if err != nil {
		return nil, err
	}

	slog.Info("Budget set", "trip_id", trip.ID)
	return connect.NewResponse(&api.SetBudgetResponse{Summary: summary}), nil
}

// GetBudgetSummary compares planned activity costs and shared spending with
// the trip's limits.
func (s *BudgetService) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	slog.Info("GetBudgetSummary request received", "trip_id", req.Msg.TripID)

	access, err := authorizeTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, access.trip, req.Msg.Locale)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetBudgetSummaryResponse{Summary: summary}), nil
}

func (s *BudgetService) summarize(ctx context.Context, trip *models.Trip, locale string) (*api.BudgetSummary, error) {
	var (
		limits     []models.BudgetCategory
		activities []models.Activity
		expenses   []models.SharedExpense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		limits, err = s.store.ListBudgetCategories(gctx, trip.ID)
		return err
	})
	g.Go(func() (err error) {
		activities, err = s.store.ListActivities(gctx, trip.ID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, trip.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("Failed to load budget inputs", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	summary, err := BuildBudgetSummary(trip, limits, activities, expenses)
	if err != nil {
		return nil, toConnectError(err)
	}
	summary.Formatted = map[string]string{
		"total":     formatMoney(summary.Total, trip.Currency, locale),
		"planned":   formatMoney(summary.Planned, trip.Currency, locale),
		"spent":     formatMoney(summary.Spent, trip.Currency, locale),
		"remaining": formatMoney(summary.Remaining, trip.Currency, locale),
	}
	return summary, nil
}

// BuildBudgetSummary totals planned and spent amounts per category. Activity
// costs are converted to the trip currency; shared expenses are already in it.
func BuildBudgetSummary(trip *models.Trip, limits []models.BudgetCategory, activities []models.Activity, expenses []models.SharedExpense) (*api.BudgetSummary, error) {
	byName := make(map[string]*api.CategorySummary)
	get := func(name string) *api.CategorySummary {
		name = normalizeCategory(name)
		c, ok := byName[name]
		if !ok {
			c = &api.CategorySummary{Category: name}
			byName[name] = c
		}
		return c
	}

	for _, l := range limits {
		get(l.Category).Limit = l.Limit
	}

	out := &api.BudgetSummary{Currency: trip.Currency, Total: trip.Budget}
	for _, a := range activities {
		cost, err := currency.Convert(a.Cost, a.Currency, trip.Currency)
		if err != nil {
			return nil, err
		}
		cost, err = currency.Round(cost, trip.Currency)
		if err != nil {
			return nil, err
		}
		c := get(a.Category)
		c.Planned = c.Planned.Add(cost)
		out.Planned = out.Planned.Add(cost)
	}
	for _, e := range expenses {
		c := get(e.Category)
		c.Spent = c.Spent.Add(e.Amount)
		out.Spent = out.Spent.Add(e.Amount)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	out.Categories = make([]*api.CategorySummary, len(names))
	for i, name := range names {
		c := byName[name]
		c.Remaining = c.Limit.Sub(c.Spent)
		out.Categories[i] = c
	}

	out.Remaining = out.Total.Sub(out.Spent)
	if out.Total.IsPositive() {
		out.PercentUsed = out.Spent.Mul(hundred).Div(out.Total).Round(1)
	}
	return out, nil
}
