// Package models defines the core domain models for wanderplan.
//
// # Models
//
//   - Trip: the aggregation root for activities, members and expenses
//   - Member: a person taking part in a trip's shared finances
//   - Activity: one entry of the day-by-day itinerary
//   - SharedExpense: a cost fronted by one member and shared by several
//   - Payment: a transfer a member actually made to settle up
//   - BudgetCategory: a spending limit for one category of a trip
//   - Invitation: a pending request for someone to join a trip
//
// # Design Principles
//
// 1. **Money is decimal**: every amount is a decimal.Decimal, never a float
// 2. **IDs, not pointers**: relationships are expressed with ID strings
// 3. **Derived data is not modelled here**: balances and settlement plans are
// computed by the settlement package on every read
package models
