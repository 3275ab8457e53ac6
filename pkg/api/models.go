package api

// QueryRequest is the JSON body for POST /api/v1/query.
type QueryRequest struct {
	Source        LocationJSON `json:"source"`
	Target        LocationJSON `json:"target"`
	DepartureTime uint32       `json:"departure_time"` // ms since midnight
}

// LocationJSON is either a node id or a lat/lng pair.
type LocationJSON struct {
	Node *uint32  `json:"node,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteJSON is one search outcome.
type RouteJSON struct {
	Found             bool     `json:"found"`
	ArrivalTime       uint32   `json:"arrival_time,omitempty"`
	TravelTime        uint32   `json:"travel_time,omitempty"`
	ArcPath           []uint32 `json:"arc_path,omitempty"`
	RunningTimeMicros int64    `json:"running_time_musec"`
}

// QueryResponse is the JSON response for a successful query.
type QueryResponse struct {
	SourceNode    uint32       `json:"source_node"`
	TargetNode    uint32       `json:"target_node"`
	DepartureTime uint32       `json:"departure_time"`
	Exact         RouteJSON    `json:"exact"`
	TDS           RouteJSON    `json:"td_s"`
	Geometry      []LatLngJSON `json:"geometry,omitempty"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes   uint32 `json:"num_nodes"`
	NumArcs    uint32 `json:"num_arcs"`
	NumIPPs    uint32 `json:"num_ipps"`
	NumWindows int    `json:"num_time_windows"`
	PoolSize   int    `json:"pool_size"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
