package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
)

// Epsilon is the tolerance, in currency units, for the split-sum invariant
// of a single expense and for the total drift of a sheet.
var Epsilon = decimal.New(1, -2)

// ValidateExpense checks the structure of an expense and its split-sum
// invariant. It does not know about trip membership; see CheckMembers.
func ValidateExpense(e models.SharedExpense) error {
	invalid := func(format string, args ...any) error {
		return &IntegrityError{ExpenseID: e.ID, Err: ErrInvalidExpense, Detail: fmt.Sprintf(format, args...)}
	}

	if !e.Amount.IsPositive() {
		return invalid("amount must be positive, got %s", e.Amount)
	}
	if e.PayerID == "" {
		return invalid("payer is required")
	}
	if len(e.ParticipantIDs) == 0 {
		return invalid("at least one participant is required")
	}

	seen := make(map[string]bool, len(e.ParticipantIDs))
	for _, p := range e.ParticipantIDs {
		if seen[p] {
			return invalid("participant %s listed twice", p)
		}
		seen[p] = true
		if _, ok := e.Splits[p]; !ok {
			return invalid("participant %s has no split", p)
		}
	}

	sum := decimal.Zero
	for memberID, share := range e.Splits {
		if !seen[memberID] {
			return invalid("split for %s who is not a participant", memberID)
		}
		if share.IsNegative() {
			return invalid("negative split %s for %s", share, memberID)
		}
		sum = sum.Add(share)
	}

	if sum.Sub(e.Amount).Abs().GreaterThan(Epsilon) {
		return &IntegrityError{
			ExpenseID: e.ID,
			Err:       ErrSplitMismatch,
			Detail:    fmt.Sprintf("splits sum to %s, amount is %s", sum, e.Amount),
		}
	}
	return nil
}

// CheckMembers verifies that the payer and every participant of the expense
// are in members. The set is keyed by member ID.
func CheckMembers(e models.SharedExpense, members map[string]bool) error {
	if !members[e.PayerID] {
		return &IntegrityError{ExpenseID: e.ID, MemberID: e.PayerID, Err: ErrUnknownParticipant, Detail: "payer"}
	}
	for _, p := range e.ParticipantIDs {
		if !members[p] {
			return &IntegrityError{ExpenseID: e.ID, MemberID: p, Err: ErrUnknownParticipant}
		}
	}
	for p := range e.Splits {
		if !members[p] {
			return &IntegrityError{ExpenseID: e.ID, MemberID: p, Err: ErrUnknownParticipant, Detail: "split"}
		}
	}
	return nil
}

// MemberSet indexes members by ID.
func MemberSet(members []models.Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.ID] = true
	}
	return set
}
