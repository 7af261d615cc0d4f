package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
)

// ItineraryServiceName is the fully-qualified name of the ItineraryService service.
const ItineraryServiceName = "wanderplan.v1.ItineraryService"

// Procedure paths of the ItineraryService RPCs.
const (
	ItineraryServiceAddActivityProcedure       = "/wanderplan.v1.ItineraryService/AddActivity"
	ItineraryServiceUpdateActivityProcedure    = "/wanderplan.v1.ItineraryService/UpdateActivity"
	ItineraryServiceDeleteActivityProcedure    = "/wanderplan.v1.ItineraryService/DeleteActivity"
	ItineraryServiceListItineraryProcedure     = "/wanderplan.v1.ItineraryService/ListItinerary"
	ItineraryServiceReorderActivitiesProcedure = "/wanderplan.v1.ItineraryService/ReorderActivities"
)

// ItineraryServiceHandler is implemented by the server side of ItineraryService.
type ItineraryServiceHandler interface {
	AddActivity(context.Context, *connect.Request[api.AddActivityRequest]) (*connect.Response[api.AddActivityResponse], error)
	UpdateActivity(context.Context, *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error)
	DeleteActivity(context.Context, *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error)
	ListItinerary(context.Context, *connect.Request[api.ListItineraryRequest]) (*connect.Response[api.ListItineraryResponse], error)
	ReorderActivities(context.Context, *connect.Request[api.ReorderActivitiesRequest]) (*connect.Response[api.ReorderActivitiesResponse], error)
}

// NewItineraryServiceHandler builds an HTTP handler for every ItineraryService procedure.
// It returns the path prefix to mount the handler on.
func NewItineraryServiceHandler(svc ItineraryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + ItineraryServiceName + "/", route(map[string]*connect.Handler{
		ItineraryServiceAddActivityProcedure:       unary(ItineraryServiceAddActivityProcedure, svc.AddActivity, opts),
		ItineraryServiceUpdateActivityProcedure:    unary(ItineraryServiceUpdateActivityProcedure, svc.UpdateActivity, opts),
		ItineraryServiceDeleteActivityProcedure:    unary(ItineraryServiceDeleteActivityProcedure, svc.DeleteActivity, opts),
		ItineraryServiceListItineraryProcedure:     unary(ItineraryServiceListItineraryProcedure, svc.ListItinerary, opts),
		ItineraryServiceReorderActivitiesProcedure: unary(ItineraryServiceReorderActivitiesProcedure, svc.ReorderActivities, opts),
	})
}

// ItineraryServiceClient is a client for the ItineraryService service.
type ItineraryServiceClient interface {
	AddActivity(context.Context, *connect.Request[api.AddActivityRequest]) (*connect.Response[api.AddActivityResponse], error)
	UpdateActivity(context.Context, *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error)
	DeleteActivity(context.Context, *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error)
	ListItinerary(context.Context, *connect.Request[api.ListItineraryRequest]) (*connect.Response[api.ListItineraryResponse], error)
	ReorderActivities(context.Context, *connect.Request[api.ReorderActivitiesRequest]) (*connect.Response[api.ReorderActivitiesResponse], error)
}

// NewItineraryServiceClient returns a client for the ItineraryService served at baseURL
// (e.g. http://localhost:8080).
func NewItineraryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ItineraryServiceClient {
	return &itineraryServiceClient{
		addActivity:       client[api.AddActivityRequest, api.AddActivityResponse](httpClient, baseURL, ItineraryServiceAddActivityProcedure, opts),
		updateActivity:    client[api.UpdateActivityRequest, api.UpdateActivityResponse](httpClient, baseURL, ItineraryServiceUpdateActivityProcedure, opts),
		deleteActivity:    client[api.DeleteActivityRequest, api.DeleteActivityResponse](httpClient, baseURL, ItineraryServiceDeleteActivityProcedure, opts),
		listItinerary:     client[api.ListItineraryRequest, api.ListItineraryResponse](httpClient, baseURL, ItineraryServiceListItineraryProcedure, opts),
		reorderActivities: client[api.ReorderActivitiesRequest, api.ReorderActivitiesResponse](httpClient, baseURL, ItineraryServiceReorderActivitiesProcedure, opts),
	}
}

type itineraryServiceClient struct {
	addActivity       *connect.Client[api.AddActivityRequest, api.AddActivityResponse]
	updateActivity    *connect.Client[api.UpdateActivityRequest, api.UpdateActivityResponse]
	deleteActivity    *connect.Client[api.DeleteActivityRequest, api.DeleteActivityResponse]
	listItinerary     *connect.Client[api.ListItineraryRequest, api.ListItineraryResponse]
	reorderActivities *connect.Client[api.ReorderActivitiesRequest, api.ReorderActivitiesResponse]
}

func (c *itineraryServiceClient) AddActivity(ctx context.Context, req *connect.Request[api.AddActivityRequest]) (*connect.Response[api.AddActivityResponse], error) {
	return c.addActivity.CallUnary(ctx, req)
}

func (c *itineraryServiceClient) UpdateActivity(ctx context.Context, req *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error) {
	return c.updateActivity.CallUnary(ctx, req)
}

func (c *itineraryServiceClient) DeleteActivity(ctx context.Context, req *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error) {
	return c.deleteActivity.CallUnary(ctx, req)
}

func (c *itineraryServiceClient) ListItinerary(ctx context.Context, req *connect.Request[api.ListItineraryRequest]) (*connect.Response[api.ListItineraryResponse], error) {
	return c.listItinerary.CallUnary(ctx, req)
}

func (c *itineraryServiceClient) ReorderActivities(ctx context.Context, req *connect.Request[api.ReorderActivitiesRequest]) (*connect.Response[api.ReorderActivitiesResponse], error) {
	return c.reorderActivities.CallUnary(ctx, req)
}

// UnimplementedItineraryServiceHandler returns CodeUnimplemented from all methods.
// Embed it to stay forward compatible when procedures are added.
type UnimplementedItineraryServiceHandler struct{}

func (UnimplementedItineraryServiceHandler) AddActivity(context.Context, *connect.Request[api.AddActivityRequest]) (*connect.Response[api.AddActivityResponse], error) {
	return nil, unimplemented(ItineraryServiceAddActivityProcedure)
}

func (UnimplementedItineraryServiceHandler) UpdateActivity(context.Context, *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error) {
	return nil, unimplemented(ItineraryServiceUpdateActivityProcedure)
}

func (UnimplementedItineraryServiceHandler) DeleteActivity(context.Context, *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error) {
	return nil, unimplemented(ItineraryServiceDeleteActivityProcedure)
}

func (UnimplementedItineraryServiceHandler) ListItinerary(context.Context, *connect.Request[api.ListItineraryRequest]) (*connect.Response[api.ListItineraryResponse], error) {
	return nil, unimplemented(ItineraryServiceListItineraryProcedure)
}

func (UnimplementedItineraryServiceHandler) ReorderActivities(context.Context, *connect.Request[api.ReorderActivitiesRequest]) (*connect.Response[api.ReorderActivitiesResponse], error) {
	return nil, unimplemented(ItineraryServiceReorderActivitiesProcedure)
}
