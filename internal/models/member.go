package models

// Role describes how a member got access to a trip.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleCollaborator Role = "collaborator"
)

// Member is a participant in a trip's shared finances.
// Members are referenced by ID from expenses and payments.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// TripID is the trip this member belongs to.
	TripID string

	// UserID is the auth subject bound to this member.
	UserID string

	// Name is the display name shown in balances.
	Name string

	// Email is optional contact information.
	Email string

	Role Role

	// JoinedAt is the Unix timestamp when the member was added.
	JoinedAt int64
}
