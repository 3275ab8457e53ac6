package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"td_router/pkg/config"
	"td_router/pkg/routing"
	"td_router/pkg/search"
)

// mockRouter implements routing.Router for testing.
type mockRouter struct {
	result *routing.RouteResult
	err    error
	got    routing.Request
}

func (m *mockRouter) Route(ctx context.Context, req routing.Request) (*routing.RouteResult, error) {
	m.got = req
	return m.result, m.err
}

func postQuery(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleQuery(w, req)
	return w
}

func TestHandleQuerySuccess(t *testing.T) {
	mock := &mockRouter{
		result: &routing.RouteResult{
			SourceNode:    3,
			TargetNode:    7,
			DepartureTime: 1000,
			Exact: routing.Route{
				Found: true, ArrivalTime: 5000, TravelTime: 4000,
				ArcPath: []uint32{4, 9}, Duration: 1500 * time.Microsecond,
			},
			Pruned: routing.Route{
				Found: true, ArrivalTime: 5200, TravelTime: 4200,
				ArcPath: []uint32{4, 8}, Duration: 20 * time.Microsecond,
			},
			Geometry: []routing.LatLng{{Lat: 1.3, Lng: 103.8}, {Lat: 1.35, Lng: 103.85}},
		},
	}
	h := NewHandlers(mock, StatsResponse{NumNodes: 100})

	w := postQuery(h, `{"source":{"node":3},"target":{"lat":1.35,"lng":103.85},"departure_time":1000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint32(3), resp.SourceNode)
	assert.Equal(t, RouteJSON{Found: true, ArrivalTime: 5000, TravelTime: 4000, ArcPath: []uint32{4, 9}, RunningTimeMicros: 1500}, resp.Exact)
	assert.Equal(t, uint32(4200), resp.TDS.TravelTime)
	assert.Len(t, resp.Geometry, 2)

	assert.Equal(t, search.Some(3), mock.got.Source.Node)
	assert.False(t, mock.got.Target.Node.Valid())
	assert.Equal(t, routing.LatLng{Lat: 1.35, Lng: 103.85}, mock.got.Target.LatLng)
	assert.Equal(t, uint32(1000), mock.got.DepartureTime)
}

func TestHandleQueryBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"invalid json", "not json", "invalid_request", ""},
		{"missing source", `{"target":{"node":1}}`, "invalid_location", "source"},
		{"node and coordinates", `{"source":{"node":1,"lat":1,"lng":2},"target":{"node":1}}`, "invalid_location", "source"},
		{"lat without lng", `{"source":{"node":1},"target":{"lat":1}}`, "invalid_location", "target"},
		{"lat out of range", `{"source":{"lat":91,"lng":0},"target":{"node":1}}`, "invalid_location", "source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlers(&mockRouter{}, StatsResponse{})
			w := postQuery(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, tt.field, resp.Field)
		})
	}
}

func TestHandleQueryMissingContentType(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{})
	req := httptest.NewRequest("POST", "/api/v1/query", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.HandleQuery(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleQueryRouterErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{routing.ErrNoRoute, http.StatusNotFound, "no_route_found"},
		{routing.ErrPointTooFar, http.StatusUnprocessableEntity, "point_too_far_from_road"},
		{routing.ErrInvalidQuery, http.StatusBadRequest, "invalid_request"},
		{routing.ErrNoCoordinates, http.StatusBadRequest, "invalid_request"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h := NewHandlers(&mockRouter{err: tt.err}, StatsResponse{})
			w := postQuery(h, `{"source":{"node":0},"target":{"node":1}}`)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}

func TestHandleHealthAndStats(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{NumNodes: 10, NumArcs: 20, NumWindows: 2})

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest("GET", "/api/v1/health", nil))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.HandleStats(w, httptest.NewRequest("GET", "/api/v1/stats", nil))
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, uint32(20), stats.NumArcs)
	assert.Equal(t, 2, stats.NumWindows)
}

func TestServerRoutes(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.CORSOrigin = "https://example.org"
	srv := NewServer(cfg, NewHandlers(&mockRouter{}, StatsResponse{}))
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "https://example.org", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(ts.URL + "/api/v1/query")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerRejectsWhenBusy(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.MaxConcurrent = 1
	sem := make(chan struct{}, 1)
	sem <- struct{}{}

	h := withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}, sem, cfg)
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestServerRecoversFromPanic(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.CORSOrigin = "https://example.org"
	sem := make(chan struct{}, 1)

	h := withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		assert.True(t, ok)
		panic("boom")
	}, sem, cfg)
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Error)
	assert.Empty(t, sem, "slot released")
}
