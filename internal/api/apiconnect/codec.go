// Package apiconnect wires the api messages to Connect handlers and clients.
//
// Every procedure lives under /wanderplan.v1.<Service>/<Method> and speaks the
// Connect protocol with a plain JSON codec, so browsers and curl can call it
// directly:
//
//	curl -H 'Content-Type: application/json' -d '{"trip_id":"..."}' \
//	    http://localhost:8080/wanderplan.v1.ExpenseService/GetBalances
package apiconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
)

// Codec marshals api messages with encoding/json. It replaces Connect's
// built-in "json" codec, which only accepts protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

func unary[Req, Res any](
	procedure string,
	fn func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	return connect.NewUnaryHandler(procedure, fn,
		connect.WithCodec(Codec{}),
		connect.WithHandlerOptions(opts...),
	)
}

func client[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure,
		connect.WithCodec(Codec{}),
		connect.WithClientOptions(opts...),
	)
}

// route dispatches on the full procedure path.
func route(handlers map[string]*connect.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, fmt.Errorf("%s is not implemented", procedure))
}
