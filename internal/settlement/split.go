package settlement

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var cent = decimal.New(1, -2)

// EqualSplits divides amount equally among participants to the cent.
// Leftover cents go to the first participants in order, so the splits always
// add up to amount exactly.
func EqualSplits(amount decimal.Decimal, participants []string) (map[string]decimal.Decimal, error) {
	weights := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		weights[p] = decimal.NewFromInt(1)
	}
	return WeightedSplits(amount, participants, weights)
}

// WeightedSplits divides amount among participants proportionally to their
// weights (e.g. 2 shares for a couple, 1 for a single traveller).
// Based on: share_i = amount × weight_i / total_weight, truncated to cents,
// with the remaining cents handed out by largest remainder.
func WeightedSplits(amount decimal.Decimal, participants []string, weights map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidExpense)
	}

	total := decimal.Zero
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p] {
			return nil, fmt.Errorf("%w: participant %s listed twice", ErrInvalidExpense, p)
		}
		seen[p] = true
		w, ok := weights[p]
		if !ok || w.IsNegative() {
			return nil, fmt.Errorf("%w: participant %s needs a non-negative weight", ErrInvalidExpense, p)
		}
		total = total.Add(w)
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: weights must not all be zero", ErrInvalidExpense)
	}

	type part struct {
		id        string
		order     int
		remainder decimal.Decimal
	}
	splits := make(map[string]decimal.Decimal, len(participants))
	parts := make([]part, len(participants))
	assigned := decimal.Zero
	for i, p := range participants {
		raw := amount.Mul(weights[p]).Div(total)
		share := raw.Truncate(2)
		splits[p] = share
		assigned = assigned.Add(share)
		parts[i] = part{id: p, order: i, remainder: raw.Sub(share)}
	}

	slices.SortStableFunc(parts, func(a, b part) int {
		return b.remainder.Cmp(a.remainder)
	})

	left := amount.Sub(assigned)
	for i := 0; left.GreaterThanOrEqual(cent); i = (i + 1) % len(parts) {
		if weights[parts[i].id].IsZero() {
			continue
		}
		splits[parts[i].id] = splits[parts[i].id].Add(cent)
		left = left.Sub(cent)
	}
	// Sub-cent leftovers only happen when amount itself has sub-cent digits.
	if !left.IsZero() {
		splits[parts[0].id] = splits[parts[0].id].Add(left)
	}

	return splits, nil
}
