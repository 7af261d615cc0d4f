package apiconnect

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wanderplan/internal/api"
)

type budgetEcho struct {
	UnimplementedBudgetServiceHandler
}

func (budgetEcho) SetBudget(_ context.Context, req *connect.Request[api.SetBudgetRequest]) (*connect.Response[api.SetBudgetResponse], error) {
	return connect.NewResponse(&api.SetBudgetResponse{Summary: &api.BudgetSummary{Total: req.Msg.Total}}), nil
}

func newBudgetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewBudgetServiceHandler(budgetEcho{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientRoundTrip(t *testing.T) {
	server := newBudgetServer(t)
	client := NewBudgetServiceClient(http.DefaultClient, server.URL)

	resp, err := client.SetBudget(context.Background(), connect.NewRequest(&api.SetBudgetRequest{
		TripID: "t1",
		Total:  decimal.RequireFromString("1234.56"),
	}))
	require.NoError(t, err)
	assert.Equal(t, "1234.56", resp.Msg.Summary.Total.String())

	_, err = client.GetBudgetSummary(context.Background(), connect.NewRequest(&api.GetBudgetSummaryRequest{TripID: "t1"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
}

func TestPlainJSONRequest(t *testing.T) {
	server := newBudgetServer(t)

	resp, err := http.Post(server.URL+BudgetServiceSetBudgetProcedure, "application/json",
		strings.NewReader(`{"trip_id":"t1","total":"99.5"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.SetBudgetResponse
	require.NoError(t, Codec{}.Unmarshal(readAll(t, resp), &out))
	assert.Equal(t, "99.5", out.Summary.Total.String())

	notFound, err := http.Post(server.URL+"/"+BudgetServiceName+"/Nope", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	notFound.Body.Close()
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestCodecEmptyBody(t *testing.T) {
	var req api.ListTripsRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))
	assert.Error(t, Codec{}.Unmarshal([]byte("{"), &req))
	assert.Equal(t, "json", Codec{}.Name())
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
