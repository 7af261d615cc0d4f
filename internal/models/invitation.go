package models

// Invitation is a pending request for someone to join a trip as a collaborator.
// Only a bcrypt hash of the invitation token is stored.
type Invitation struct {
	ID        string
	TripID    string
	Email     string
	Name      string
	TokenHash string
	CreatedBy string
	CreatedAt int64

	// AcceptedAt is zero while the invitation is pending.
	AcceptedAt int64
}

// Pending reports whether the invitation can still be accepted.
func (i *Invitation) Pending() bool {
	return i.AcceptedAt == 0
}
