package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveRPC("/wanderplan.v1.ExpenseService/GetBalances", "ok", 20*time.Millisecond)
	m.ObserveRPC("/wanderplan.v1.ExpenseService/GetBalances", "ok", 10*time.Millisecond)
	m.ObserveRPC("/wanderplan.v1.ExpenseService/GetBalances", "not_found", time.Millisecond)
	m.ObserveSettlement(2)
	m.ObserveSettlement(0)
	m.ObserveEvent("out", nil)
	m.ObserveEvent("out", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("/wanderplan.v1.ExpenseService/GetBalances", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.settlements))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejectedExpenses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("out", "error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wanderplan_settlement_computations_total 2"))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", time.Second)
		m.ObserveSettlement(1)
		m.ObserveEvent("in", nil)
	})
}
