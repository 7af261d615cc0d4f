package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/wanderplan/internal/api"
	"github.com/mmynk/wanderplan/internal/currency"
	"github.com/mmynk/wanderplan/internal/models"
	"github.com/mmynk/wanderplan/internal/settlement"
	"github.com/mmynk/wanderplan/internal/storage"
)

// Ledger is everything that feeds a trip's balances, read in one go.
type Ledger struct {
	Trip     *models.Trip
	Members  []models.Member
	Expenses []models.SharedExpense
	Payments []models.Payment
}

// LoadLedger reads the trip's members, expenses and payments concurrently.
func LoadLedger(ctx context.Context, store storage.Store, trip *models.Trip) (*Ledger, error) {
	l := &Ledger{Trip: trip}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		members, err := store.ListMembers(gctx, trip.ID)
		l.Members = members
		return err
	})
	g.Go(func() error {
		expenses, err := store.ListExpenses(gctx, trip.ID)
		l.Expenses = expenses
		return err
	})
	g.Go(func() error {
		payments, err := store.ListPayments(gctx, trip.ID)
		l.Payments = payments
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return l, nil
}

// Plan is the settlement engine's view of a Ledger.
type Plan struct {
	// Sheet holds balances from expenses alone and any rejected expenses.
	Sheet *settlement.Sheet

	// Balances include recorded payments.
	Balances []settlement.Balance

	// Settlements is the minimal list of transfers that clears Balances.
	Settlements []settlement.Settlement
}

// Settle runs the settlement engine from scratch over the ledger.
func (l *Ledger) Settle() (*Plan, error) {
	sheet, err := settlement.ComputeBalances(l.Members, l.Expenses)
	if err != nil {
		return nil, err
	}
	balances, err := settlement.ApplyPayments(sheet.Balances, l.Payments)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Sheet:       sheet,
		Balances:    balances,
		Settlements: settlement.ComputeSettlements(balances),
	}, nil
}

// summaryToAPI renders a plan with amounts formatted for locale.
func summaryToAPI(plan *Plan, trip *models.Trip, locale string) *api.BalanceSummary {
	names := make(map[string]string, len(plan.Balances))
	out := &api.BalanceSummary{
		Currency:    trip.Currency,
		Balances:    make([]*api.Balance, len(plan.Balances)),
		Settlements: make([]*api.Settlement, len(plan.Settlements)),
	}

	for i, b := range plan.Balances {
		names[b.MemberID] = b.Name
		out.Balances[i] = &api.Balance{
			MemberID:     b.MemberID,
			Name:         b.Name,
			Paid:         b.Paid,
			Owed:         b.Owed,
			Net:          b.Net,
			NetFormatted: formatMoney(b.Net, trip.Currency, locale),
		}
	}
	for i, st := range plan.Settlements {
		out.Settlements[i] = &api.Settlement{
			FromID:          st.From,
			FromName:        names[st.From],
			ToID:            st.To,
			ToName:          names[st.To],
			Amount:          st.Amount,
			AmountFormatted: formatMoney(st.Amount, trip.Currency, locale),
		}
	}
	for _, r := range plan.Sheet.Rejected {
		out.Rejected = append(out.Rejected, &api.RejectedExpense{ExpenseID: r.ExpenseID, Reason: r.Error()})
	}
	return out
}

// formatMoney formats for display, falling back to a plain two-decimal
// string for currencies the formatter does not know.
func formatMoney(amount decimal.Decimal, code, locale string) string {
	s, err := currency.Format(amount, code, locale)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	return s
}
