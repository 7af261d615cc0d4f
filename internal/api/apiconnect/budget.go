package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/api"
)

// BudgetServiceName is the fully-qualified name of the BudgetService service.
const BudgetServiceName = "wanderplan.v1.BudgetService"

// Procedure paths of the BudgetService RPCs.
const (
	BudgetServiceSetBudgetProcedure        = "/wanderplan.v1.BudgetService/SetBudget"
	BudgetServiceGetBudgetSummaryProcedure = "/wanderplan.v1.BudgetService/GetBudgetSummary"
)

// BudgetServiceHandler is implemented by the server side of BudgetService.
type BudgetServiceHandler interface {
	SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error)
}

// NewBudgetServiceHandler builds an HTTP handler for every BudgetService procedure.
// It returns the path prefix to mount the handler on.
func NewBudgetServiceHandler(svc BudgetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + BudgetServiceName + "/", route(map[string]*connect.Handler{
		BudgetServiceSetBudgetProcedure:        unary(BudgetServiceSetBudgetProcedure, svc.SetBudget, opts),
		BudgetServiceGetBudgetSummaryProcedure: unary(BudgetServiceGetBudgetSummaryProcedure, svc.GetBudgetSummary, opts),
	})
}

// BudgetServiceClient is a client for the BudgetService service.
type BudgetServiceClient interface {
	SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error)
	GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error)
}

// NewBudgetServiceClient returns a client for the BudgetService served at baseURL
// (e.g. http://localhost:8080).
func NewBudgetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BudgetServiceClient {
	return &budgetServiceClient{
		setBudget:        client[api.SetBudgetRequest, api.SetBudgetResponse](httpClient, baseURL, BudgetServiceSetBudgetProcedure, opts),
		getBudgetSummary: client[api.GetBudgetSummaryRequest, api.GetBudgetSummaryResponse](httpClient, baseURL, BudgetServiceGetBudgetSummaryProcedure, opts),
	}
}

type budgetServiceClient struct {
	setBudget        *connect.Client[api.SetBudgetRequest, api.SetBudgetResponse]
	getBudgetSummary *connect.Client[api.GetBudgetSummaryRequest, api.GetBudgetSummaryResponse]
}

func (c *budgetServiceClient) SetBudget(ctx context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	return c.setBudget.CallUnary(ctx, req)
}

func (c *budgetServiceClient) GetBudgetSummary(ctx context.Context, req *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	return c.getBudgetSummary.CallUnary(ctx, req)
}

// UnimplementedBudgetServiceHandler returns CodeUnimplemented from all methods.
// Embed it to stay forward compatible when procedures are added.
type UnimplementedBudgetServiceHandler struct{}

func (UnimplementedBudgetServiceHandler) SetBudget(context.Context, *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	return nil, unimplemented(BudgetServiceSetBudgetProcedure)
}

func (UnimplementedBudgetServiceHandler) GetBudgetSummary(context.Context, *connect.Request[api.GetBudgetSummaryRequest]) (*connect.Response[api.GetBudgetSummaryResponse], error) {
	return nil, unimplemented(BudgetServiceGetBudgetSummaryProcedure)
}
