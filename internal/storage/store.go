// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/wanderplan/internal/models"
)

var (
	// ErrNotFound is wrapped by every store method that looks up a missing row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is wrapped when a write contradicts the current state,
	// e.g. accepting an invitation twice.
	ErrConflict = errors.New("conflict")
)

// TripStore persists trips.
type TripStore interface {
	// CreateTrip persists a new trip together with its owner member.
	// trip.ID, trip.CreatedAt and owner.ID are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip, owner *models.Member) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsForUser returns the trips the user is a member of, newest first.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)

	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes the trip and everything that belongs to it.
	DeleteTrip(ctx context.Context, tripID string) error
}

// MemberStore persists the people taking part in a trip.
type MemberStore interface {
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)
	GetMemberByUser(ctx context.Context, tripID, userID string) (*models.Member, error)
	AddMember(ctx context.Context, member *models.Member) error
	RemoveMember(ctx context.Context, tripID, memberID string) error

	// MemberHasLedgerEntries reports whether the member appears in any expense
	// or payment of the trip.
	MemberHasLedgerEntries(ctx context.Context, tripID, memberID string) (bool, error)
}

// ExpenseStore persists shared expenses. Balances are never stored; they are
// recomputed from ListExpenses and ListMembers after every change.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.SharedExpense) error
	GetExpense(ctx context.Context, expenseID string) (*models.SharedExpense, error)

	// ListExpenses returns the trip's expenses ordered by date, then creation.
	ListExpenses(ctx context.Context, tripID string) ([]models.SharedExpense, error)

	UpdateExpense(ctx context.Context, expense *models.SharedExpense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}

// PaymentStore persists settle-up payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPayments(ctx context.Context, tripID string) ([]models.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
}

// ActivityStore persists itinerary entries.
type ActivityStore interface {
	// CreateActivity appends the activity to the end of its day.
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetActivity(ctx context.Context, activityID string) (*models.Activity, error)
	ListActivities(ctx context.Context, tripID string) ([]models.Activity, error)
	UpdateActivity(ctx context.Context, activity *models.Activity) error
	DeleteActivity(ctx context.Context, activityID string) error

	// ReorderDay places orderedIDs on day in the given order. Activities
	// moved in from other days leave gaps there, which are compacted.
	ReorderDay(ctx context.Context, tripID string, day int, orderedIDs []string) error
}

// BudgetStore persists per-category budget limits.
type BudgetStore interface {
	ListBudgetCategories(ctx context.Context, tripID string) ([]models.BudgetCategory, error)

	// SetBudget updates the trip total and replaces all category limits.
	SetBudget(ctx context.Context, tripID string, total decimal.Decimal, categories []models.BudgetCategory) error
}

// InvitationStore persists collaborator invitations.
type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)

	// AcceptInvitation marks the invitation accepted and adds member in one
	// transaction. It fails if the invitation was already accepted.
	AcceptInvitation(ctx context.Context, invitationID string, member *models.Member) error
}

// Store defines the full storage surface of the application.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	TripStore
	MemberStore
	ExpenseStore
	PaymentStore
	ActivityStore
	BudgetStore
	InvitationStore

	// Close releases any resources held by the store.
	Close() error
}
