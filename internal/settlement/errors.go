package settlement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParticipant is returned when an expense or payment references
	// a member that is not part of the supplied member list.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrSplitMismatch is returned when the splits of an expense do not add
	// up to its amount.
	ErrSplitMismatch = errors.New("splits do not add up to the expense amount")

	// ErrInvalidExpense covers structural problems: non-positive amounts,
	// missing participants, negative or dangling splits.
	ErrInvalidExpense = errors.New("invalid expense")

	ErrDuplicateMember = errors.New("duplicate member")
	ErrInvalidPayment  = errors.New("invalid payment")
)

// IntegrityError ties a data-integrity failure to the expense and member it
// was found on.
type IntegrityError struct {
	ExpenseID string
	MemberID  string
	Detail    string
	Err       error
}

func (e *IntegrityError) Error() string {
	msg := e.Err.Error()
	if e.ExpenseID != "" {
		msg = fmt.Sprintf("expense %s: %s", e.ExpenseID, msg)
	}
	if e.MemberID != "" {
		msg += fmt.Sprintf(" (member %s)", e.MemberID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
