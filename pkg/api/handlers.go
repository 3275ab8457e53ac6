package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	log "github.com/sirupsen/logrus"

	"td_router/pkg/routing"
	"td_router/pkg/search"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router routing.Router
	stats  StatsResponse
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router routing.Router, stats StatsResponse) *Handlers {
	return &Handlers{
		router: router,
		stats:  stats,
	}
}

// HandleQuery handles POST /api/v1/query.
func (h *Handlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		h.fail(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	source, err := toLocation(req.Source)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "invalid_location", "source")
		return
	}
	target, err := toLocation(req.Target)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "invalid_location", "target")
		return
	}

	result, err := h.router.Route(r.Context(), routing.Request{
		Source:        source,
		Target:        target,
		DepartureTime: req.DepartureTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrInvalidQuery), errors.Is(err, routing.ErrNoCoordinates):
			h.fail(w, http.StatusBadRequest, "invalid_request", "")
		case errors.Is(err, routing.ErrPointTooFar):
			h.fail(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
		case errors.Is(err, routing.ErrNoRoute):
			h.fail(w, http.StatusNotFound, "no_route_found", "")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			h.fail(w, http.StatusServiceUnavailable, "request_timeout", "")
		default:
			log.WithError(err).Error("query failed")
			h.fail(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	observe(result)
	queryTotal.WithLabelValues("ok").Inc()

	resp := QueryResponse{
		SourceNode:    result.SourceNode,
		TargetNode:    result.TargetNode,
		DepartureTime: result.DepartureTime,
		Exact:         toRouteJSON(result.Exact),
		TDS:           toRouteJSON(result.Pruned),
	}
	for _, ll := range result.Geometry {
		resp.Geometry = append(resp.Geometry, LatLngJSON{Lat: ll.Lat, Lng: ll.Lng})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

func observe(res *routing.RouteResult) {
	searchDuration.WithLabelValues("exact").Observe(res.Exact.Duration.Seconds())
	searchDuration.WithLabelValues("td_s").Observe(res.Pruned.Duration.Seconds())
	if !res.Pruned.Found {
		tdsMissed.Inc()
		return
	}
	if res.Exact.TravelTime > 0 {
		overhead := float64(res.Pruned.TravelTime) - float64(res.Exact.TravelTime)
		tdsSlowdown.Observe(100 * overhead / float64(res.Exact.TravelTime))
	}
}

func toRouteJSON(r routing.Route) RouteJSON {
	return RouteJSON{
		Found:             r.Found,
		ArrivalTime:       r.ArrivalTime,
		TravelTime:        r.TravelTime,
		ArcPath:           r.ArcPath,
		RunningTimeMicros: r.Duration.Microseconds(),
	}
}

func toLocation(l LocationJSON) (routing.Location, error) {
	if l.Node != nil {
		if l.Lat != nil || l.Lng != nil {
			return routing.Location{}, errors.New("node and coordinates are exclusive")
		}
		return routing.Location{Node: search.Some(*l.Node)}, nil
	}
	if l.Lat == nil || l.Lng == nil {
		return routing.Location{}, errors.New("location needs a node or lat and lng")
	}
	ll := LatLngJSON{Lat: *l.Lat, Lng: *l.Lng}
	if err := validateCoord(ll); err != nil {
		return routing.Location{}, err
	}
	return routing.Location{LatLng: routing.LatLng{Lat: ll.Lat, Lng: ll.Lng}}, nil
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

// fail writes an error response and counts the outcome.
func (h *Handlers) fail(w http.ResponseWriter, status int, code, field string) {
	queryTotal.WithLabelValues(code).Inc()
	writeError(w, status, code, field)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
