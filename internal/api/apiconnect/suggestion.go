package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
)

// SuggestionServiceName is the fully-qualified name of the SuggestionService service.
const SuggestionServiceName = "wanderplan.v1.SuggestionService"

// Procedure paths of the SuggestionService RPCs.
const (
	SuggestionServiceSuggestActivitiesProcedure = "/wanderplan.v1.SuggestionService/SuggestActivities"
)

// SuggestionServiceHandler is implemented by the server side of SuggestionService.
type SuggestionServiceHandler interface {
	SuggestActivities(context.Context, *connect.Request[api.SuggestActivitiesRequest]) (*connect.Response[api.SuggestActivitiesResponse], error)
}

// NewSuggestionServiceHandler builds an HTTP handler for every SuggestionService procedure.
// It returns the path prefix to mount the handler on.
func NewSuggestionServiceHandler(svc SuggestionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + SuggestionServiceName + "/", route(map[string]*connect.Handler{
		SuggestionServiceSuggestActivitiesProcedure: unary(SuggestionServiceSuggestActivitiesProcedure, svc.SuggestActivities, opts),
	})
}

// SuggestionServiceClient is a client for the SuggestionService service.
type SuggestionServiceClient interface {
	SuggestActivities(context.Context, *connect.Request[api.SuggestActivitiesRequest]) (*connect.Response[api.SuggestActivitiesResponse], error)
}

// NewSuggestionServiceClient returns a client for the SuggestionService served at baseURL
// (e.g. http://localhost:8080).
func NewSuggestionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SuggestionServiceClient {
	return &suggestionServiceClient{
		suggestActivities: client[api.SuggestActivitiesRequest, api.SuggestActivitiesResponse](httpClient, baseURL, SuggestionServiceSuggestActivitiesProcedure, opts),
	}
}

type suggestionServiceClient struct {
	suggestActivities *connect.Client[api.SuggestActivitiesRequest, api.SuggestActivitiesResponse]
}

func (c *suggestionServiceClient) SuggestActivities(ctx context.Context, req *connect.Request[api.SuggestActivitiesRequest]) (*connect.Response[api.SuggestActivitiesResponse], error) {
	return c.suggestActivities.CallUnary(ctx, req)
}

// UnimplementedSuggestionServiceHandler returns CodeUnimplemented from all methods.
// Embed it to stay forward compatible when procedures are added.
type UnimplementedSuggestionServiceHandler struct{}

func (UnimplementedSuggestionServiceHandler) SuggestActivities(context.Context, *connect.Request[api.SuggestActivitiesRequest]) (*connect.Response[api.SuggestActivitiesResponse], error) {
	return nil, unimplemented(SuggestionServiceSuggestActivitiesProcedure)
}
