package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "wanderplan.v1.TripService"

// Procedure paths of the TripService RPCs.
const (
	TripServiceCreateTripProcedure         = "/wanderplan.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure            = "/wanderplan.v1.TripService/GetTrip"
	TripServiceListTripsProcedure          = "/wanderplan.v1.TripService/ListTrips"
	TripServiceUpdateTripProcedure         = "/wanderplan.v1.TripService/UpdateTrip"
	TripServiceDeleteTripProcedure         = "/wanderplan.v1.TripService/DeleteTrip"
	TripServiceInviteCollaboratorProcedure = "/wanderplan.v1.TripService/InviteCollaborator"
	TripServiceAcceptInvitationProcedure   = "/wanderplan.v1.TripService/AcceptInvitation"
	TripServiceRemoveMemberProcedure       = "/wanderplan.v1.TripService/RemoveMember"
	TripServiceAddMemberProcedure          = "/wanderplan.v1.TripService/AddMember"
)

// TripServiceHandler is implemented by the server side of TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	InviteCollaborator(context.Context, *connect.Request[api.InviteCollaboratorRequest]) (*connect.Response[api.InviteCollaboratorResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
}

// NewTripServiceHandler builds an HTTP handler for every TripService procedure.
// It returns the path prefix to mount the handler on.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + TripServiceName + "/", route(map[string]*connect.Handler{
		TripServiceCreateTripProcedure:         unary(TripServiceCreateTripProcedure, svc.CreateTrip, opts),
		TripServiceGetTripProcedure:            unary(TripServiceGetTripProcedure, svc.GetTrip, opts),
		TripServiceListTripsProcedure:          unary(TripServiceListTripsProcedure, svc.ListTrips, opts),
		TripServiceUpdateTripProcedure:         unary(TripServiceUpdateTripProcedure, svc.UpdateTrip, opts),
		TripServiceDeleteTripProcedure:         unary(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts),
		TripServiceInviteCollaboratorProcedure: unary(TripServiceInviteCollaboratorProcedure, svc.InviteCollaborator, opts),
		TripServiceAcceptInvitationProcedure:   unary(TripServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts),
		TripServiceRemoveMemberProcedure:       unary(TripServiceRemoveMemberProcedure, svc.RemoveMember, opts),
		TripServiceAddMemberProcedure:          unary(TripServiceAddMemberProcedure, svc.AddMember, opts),
	})
}

// TripServiceClient is a client for the TripService service.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	InviteCollaborator(context.Context, *connect.Request[api.InviteCollaboratorRequest]) (*connect.Response[api.InviteCollaboratorResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
}

// NewTripServiceClient returns a client for the TripService served at baseURL
// (e.g. http://localhost:8080).
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	return &tripServiceClient{
		createTrip:         client[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL, TripServiceCreateTripProcedure, opts),
		getTrip:            client[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL, TripServiceGetTripProcedure, opts),
		listTrips:          client[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL, TripServiceListTripsProcedure, opts),
		updateTrip:         client[api.UpdateTripRequest, api.UpdateTripResponse](httpClient, baseURL, TripServiceUpdateTripProcedure, opts),
		deleteTrip:         client[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL, TripServiceDeleteTripProcedure, opts),
		inviteCollaborator: client[api.InviteCollaboratorRequest, api.InviteCollaboratorResponse](httpClient, baseURL, TripServiceInviteCollaboratorProcedure, opts),
		acceptInvitation:   client[api.AcceptInvitationRequest, api.AcceptInvitationResponse](httpClient, baseURL, TripServiceAcceptInvitationProcedure, opts),
		removeMember:       client[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL, TripServiceRemoveMemberProcedure, opts),
		addMember:          client[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL, TripServiceAddMemberProcedure, opts),
	}
}

type tripServiceClient struct {
	createTrip         *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip            *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips          *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	updateTrip         *connect.Client[api.UpdateTripRequest, api.UpdateTripResponse]
	deleteTrip         *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	inviteCollaborator *connect.Client[api.InviteCollaboratorRequest, api.InviteCollaboratorResponse]
	acceptInvitation   *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	removeMember       *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	addMember          *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) UpdateTrip(ctx context.Context, req *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return c.updateTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) InviteCollaborator(ctx context.Context, req *connect.Request[api.InviteCollaboratorRequest]) (*connect.Response[api.InviteCollaboratorResponse], error) {
	return c.inviteCollaborator.CallUnary(ctx, req)
}

func (c *tripServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *tripServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
// Embed it to stay forward compatible when procedures are added.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return nil, unimplemented(TripServiceCreateTripProcedure)
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return nil, unimplemented(TripServiceGetTripProcedure)
}

func (UnimplementedTripServiceHandler) ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return nil, unimplemented(TripServiceListTripsProcedure)
}

func (UnimplementedTripServiceHandler) UpdateTrip(context.Context, *connect.Request[api.UpdateTripRequest]) (*connect.Response[api.UpdateTripResponse], error) {
	return nil, unimplemented(TripServiceUpdateTripProcedure)
}

func (UnimplementedTripServiceHandler) DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return nil, unimplemented(TripServiceDeleteTripProcedure)
}

func (UnimplementedTripServiceHandler) InviteCollaborator(context.Context, *connect.Request[api.InviteCollaboratorRequest]) (*connect.Response[api.InviteCollaboratorResponse], error) {
	return nil, unimplemented(TripServiceInviteCollaboratorProcedure)
}

func (UnimplementedTripServiceHandler) AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return nil, unimplemented(TripServiceAcceptInvitationProcedure)
}

func (UnimplementedTripServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, unimplemented(TripServiceRemoveMemberProcedure)
}

func (UnimplementedTripServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, unimplemented(TripServiceAddMemberProcedure)
}
