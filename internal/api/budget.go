package api

import "github.com/shopspring/decimal"

// CategoryLimit is a spending limit for one budget category.
type CategoryLimit struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// CategorySummary compares planned and spent amounts against a limit.
// All amounts are in the trip currency.
type CategorySummary struct {
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Planned   decimal.Decimal `json:"planned"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BudgetSummary struct {
	Currency   string             `json:"currency"`
	Total      decimal.Decimal    `json:"total"`
	Planned    decimal.Decimal    `json:"planned"`
	Spent      decimal.Decimal    `json:"spent"`
	Remaining  decimal.Decimal    `json:"remaining"`
	Categories []*CategorySummary `json:"categories"`

	// PercentUsed is spent as a percentage of Total, zero when no total is set.
	PercentUsed decimal.Decimal `json:"percent_used"`

	// Formatted holds display strings for Total, Planned, Spent and Remaining
	// keyed by field name.
	Formatted map[string]string `json:"formatted"`
}

type SetBudgetRequest struct {
	TripID     string           `json:"trip_id"`
	Total      decimal.Decimal  `json:"total"`
	Categories []*CategoryLimit `json:"categories"`
}

type SetBudgetResponse struct {
	Summary *BudgetSummary `json:"summary"`
}

type GetBudgetSummaryRequest struct {
	TripID string `json:"trip_id"`
	Locale string `json:"locale,omitempty"`
}

type GetBudgetSummaryResponse struct {
	Summary *BudgetSummary `json:"summary"`
}
