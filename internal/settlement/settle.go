package settlement

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Settlement is a recommended payment: From pays To the Amount.
// A list of settlements is only meaningful as a whole.
type Settlement struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// settledTolerance is half a minor unit. A remainder at or below it is
// rounding noise; a whole cent is still a debt.
var settledTolerance = decimal.New(5, -3)

// ComputeSettlements turns net balances into a short list of payments that
// brings every balance to zero.
//
// Greedy matching: the largest creditor is paid by the largest debtor first,
// ties broken by member ID. Balances within half a cent of zero are settled
// and never produce a payment. At most (non-zero members - 1) settlements are
// returned; the result is not guaranteed to be the global minimum.
func ComputeSettlements(balances []Balance) []Settlement {
	var creditors, debtors []Balance
	for _, b := range balances {
		switch {
		case b.Net.GreaterThan(settledTolerance):
			creditors = append(creditors, b)
		case b.Net.LessThan(settledTolerance.Neg()):
			debtors = append(debtors, b)
		}
	}

	slices.SortFunc(creditors, func(a, b Balance) int {
		if c := b.Net.Cmp(a.Net); c != 0 {
			return c
		}
		return strings.Compare(a.MemberID, b.MemberID)
	})
	slices.SortFunc(debtors, func(a, b Balance) int {
		if c := a.Net.Cmp(b.Net); c != 0 {
			return c
		}
		return strings.Compare(a.MemberID, b.MemberID)
	})

	settlements := []Settlement{}
	credit := make([]decimal.Decimal, len(creditors))
	for j, c := range creditors {
		credit[j] = c.Net
	}
	debt := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		debt[i] = d.Net.Neg() // Make positive
	}

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debt[i], credit[j])

		if amount.GreaterThan(settledTolerance) {
			settlements = append(settlements, Settlement{
				From:   debtors[i].MemberID,
				To:     creditors[j].MemberID,
				Amount: amount,
			})
		}

		debt[i] = debt[i].Sub(amount)
		credit[j] = credit[j].Sub(amount)

		// Move to next debtor/creditor once fully settled
		if debt[i].LessThanOrEqual(settledTolerance) {
			i++
		}
		if credit[j].LessThanOrEqual(settledTolerance) {
			j++
		}
	}

	return settlements
}
