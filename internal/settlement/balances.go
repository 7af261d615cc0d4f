package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
)

// Balance represents the balance information for one trip member.
type Balance struct {
	MemberID string
	Name     string
	Paid     decimal.Decimal // Total amount fronted across all expenses
	Owed     decimal.Decimal // Total of this member's shares
	Net      decimal.Decimal // Positive = owed money, Negative = owes money
}

// Sheet is the result of a balance computation.
type Sheet struct {
	// Balances has one entry per member, in the order members were given.
	Balances []Balance

	// Rejected lists the expenses left out because they failed validation.
	Rejected []*IntegrityError
}

// Drift is the sum of all net balances. ComputeBalances keeps it within
// Epsilon of zero by rejecting expenses that would push it further.
func (s *Sheet) Drift() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range s.Balances {
		sum = sum.Add(b.Net)
	}
	return sum
}

// ComputeBalances derives each member's net balance from the shared expenses.
//
// Algorithm:
// - For each expense: payer contributed +amount, each participant owes their split
// - net = paid - owed
//
// An expense that references someone outside members stops the computation
// with ErrUnknownParticipant; dropping that person would understate debts.
// An expense whose splits don't add up, or which is otherwise malformed, is
// excluded and reported in Sheet.Rejected. So is an expense whose split
// rounding, added to the drift of the expenses before it, would move the
// sheet's total more than Epsilon away from zero.
func ComputeBalances(members []models.Member, expenses []models.SharedExpense) (*Sheet, error) {
	sheet := &Sheet{Balances: make([]Balance, 0, len(members))}
	if len(members) == 0 {
		if len(expenses) > 0 {
			return nil, &IntegrityError{ExpenseID: expenses[0].ID, MemberID: expenses[0].PayerID, Err: ErrUnknownParticipant}
		}
		return sheet, nil
	}

	index := make(map[string]int, len(members))
	for _, m := range members {
		if _, dup := index[m.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
		}
		index[m.ID] = len(sheet.Balances)
		sheet.Balances = append(sheet.Balances, Balance{
			MemberID: m.ID,
			Name:     m.Name,
			Paid:     decimal.Zero,
			Owed:     decimal.Zero,
			Net:      decimal.Zero,
		})
	}
	known := MemberSet(members)

	drift := decimal.Zero
	for _, e := range expenses {
		if err := CheckMembers(e, known); err != nil {
			return nil, err
		}
		if err := ValidateExpense(e); err != nil {
			var ie *IntegrityError
			if !errors.As(err, &ie) {
				ie = &IntegrityError{ExpenseID: e.ID, Err: err}
			}
			sheet.Rejected = append(sheet.Rejected, ie)
			continue
		}

		next := drift.Add(e.Amount.Sub(splitSum(e)))
		if next.Abs().GreaterThan(Epsilon) {
			sheet.Rejected = append(sheet.Rejected, &IntegrityError{
				ExpenseID: e.ID,
				Err:       ErrSplitMismatch,
				Detail:    fmt.Sprintf("split rounding would bring total drift to %s", next),
			})
			continue
		}
		drift = next

		payer := &sheet.Balances[index[e.PayerID]]
		payer.Paid = payer.Paid.Add(e.Amount)

		for _, p := range e.ParticipantIDs {
			b := &sheet.Balances[index[p]]
			b.Owed = b.Owed.Add(e.Splits[p])
		}
	}

	for i := range sheet.Balances {
		b := &sheet.Balances[i]
		b.Net = b.Paid.Sub(b.Owed)
	}
	return sheet, nil
}

func splitSum(e models.SharedExpense) decimal.Decimal {
	sum := decimal.Zero
	for _, share := range e.Splits {
		sum = sum.Add(share)
	}
	return sum
}

// ApplyPayments returns a copy of balances with recorded payments applied.
// The sender's balance improves (they effectively paid more), the receiver's
// decreases (they received money back).
func ApplyPayments(balances []Balance, payments []models.Payment) ([]Balance, error) {
	out := make([]Balance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.MemberID] = i
	}

	for _, p := range payments {
		if !p.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: payment %s amount %s", ErrInvalidPayment, p.ID, p.Amount)
		}
		if p.FromID == p.ToID {
			return nil, fmt.Errorf("%w: payment %s is to the payer", ErrInvalidPayment, p.ID)
		}
		from, ok := index[p.FromID]
		if !ok {
			return nil, &IntegrityError{MemberID: p.FromID, Err: ErrUnknownParticipant, Detail: "payment " + p.ID}
		}
		to, ok := index[p.ToID]
		if !ok {
			return nil, &IntegrityError{MemberID: p.ToID, Err: ErrUnknownParticipant, Detail: "payment " + p.ID}
		}

		out[from].Paid = out[from].Paid.Add(p.Amount)
		out[to].Owed = out[to].Owed.Add(p.Amount)
	}

	for i := range out {
		out[i].Net = out[i].Paid.Sub(out[i].Owed)
	}
	return out, nil
}
