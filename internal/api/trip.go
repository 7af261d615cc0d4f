package api

import "github.com/shopspring/decimal"

// Trip is the wire form of models.Trip.
type Trip struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Days        int             `json:"days"`
	Currency    string          `json:"currency"`
	Budget      decimal.Decimal `json:"budget"`
	CreatedAt   int64           `json:"created_at"`
}

// Member is a participant in a trip's shared finances.
type Member struct {
	ID       string `json:"id"`
	TripID   string `json:"trip_id"`
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
}

type CreateTripRequest struct {
	Name        string          `json:"name"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Currency    string          `json:"currency"`
	Budget      decimal.Decimal `json:"budget"`

	// OwnerName is the creator's display name in balances.
	// Defaults to the email from the auth token.
	OwnerName string `json:"owner_name"`
}

type CreateTripResponse struct {
	Trip    *Trip     `json:"trip"`
	Members []*Member `json:"members"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip    *Trip     `json:"trip"`
	Members []*Member `json:"members"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []*Trip `json:"trips"`
}

type UpdateTripRequest struct {
	TripID      string `json:"trip_id"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Currency    string `json:"currency"`
}

type UpdateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"trip_id"`
}

type DeleteTripResponse struct{}

type InviteCollaboratorRequest struct {
	TripID string `json:"trip_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// InviteCollaboratorResponse carries the raw invitation token. It is only
// ever returned here; the server keeps a hash.
type InviteCollaboratorResponse struct {
	InvitationID string `json:"invitation_id"`
	Token        string `json:"token"`
}

type AcceptInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
	Token        string `json:"token"`

	// Name overrides the display name given by the inviter.
	Name string `json:"name,omitempty"`
}

type AcceptInvitationResponse struct {
	Trip   *Trip   `json:"trip"`
	Member *Member `json:"member"`
}

// AddMemberRequest adds a traveller without an account, so they can take
// part in expenses.
type AddMemberRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct{}
