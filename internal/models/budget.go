package models

import "github.com/shopspring/decimal"

// CategoryOther collects costs recorded without a category.
const CategoryOther = "other"

// BudgetCategory is the spending limit for one category of a trip,
// expressed in the trip currency.
type BudgetCategory struct {
	TripID   string
	Category string
	Limit    decimal.Decimal
}
