package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sportsbooking/internal/handler"
	"sportsbooking/internal/metrics"
	"sportsbooking/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, health func(ctx context.Context) error) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	return server.New(server.Deps{
		Metrics:    metrics.New(reg),
		Gatherer:   reg,
		Health:     health,
		Auth:       handler.NewAuthHandler(nil, 0, false),
		Facilities: handler.NewFacilityHandler(nil),
		Owner:      handler.NewOwnerHandler(nil),
	})
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	e := newTestServer(t, func(ctx context.Context) error { return nil })
	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	e = newTestServer(t, func(ctx context.Context) error { return errors.New("db down") })
	rec = get(e, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	e := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, get(e, "/healthz").Code)

	rec := get(e, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sports_booking_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

// echoの404もErrorResponse形式
func TestServer_NotFoundUsesErrorShape(t *testing.T) {
	e := newTestServer(t, nil)
	rec := get(e, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.Error)
}

func TestServer_ProtectedRoutesRegistered(t *testing.T) {
	e := newTestServer(t, nil)
	routes := map[string]bool{}
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/refresh-token",
		"POST /api/auth/logout",
		"POST /api/auth/logout-all",
		"GET /api/auth/me",
		"GET /api/facilities",
		"GET /api/facilities/:id",
		"GET /api/facilities/:id/reviews",
		"GET /api/facilities/:id/availability",
		"POST /api/owner/facilities",
		"GET /api/owner/facilities",
		"POST /api/owner/facilities/:facilityId/fields",
		"PUT /api/owner/fields/:fieldId/prices",
		"GET /healthz",
		"GET /metrics",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", server.Addr(""))
	assert.Equal(t, ":9000", server.Addr("9000"))
	assert.Equal(t, ":9000", server.Addr(":9000"))
}
