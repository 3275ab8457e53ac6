package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queryTotal counts queries by outcome.
	// Labels: "ok" or the error code of the response.
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tdroute_queries_total",
		Help: "Total route queries by outcome",
	}, []string{"result"})

	// searchDuration observes the running time of each search kind.
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tdroute_search_duration_seconds",
		Help:    "Running time of one time-dependent search",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"search"})

	// tdsSlowdown observes how much longer the TD-S route is than the
	// exact one, in percent.
	tdsSlowdown = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tdroute_td_s_slowdown_percent",
		Help:    "Relative travel time overhead of TD-S over the exact search",
		Buckets: []float64{0, 0.1, 0.5, 1, 2, 5, 10, 25},
	})

	// tdsMissed counts queries where TD-S found no path but the exact
	// search did.
	tdsMissed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tdroute_td_s_missed_total",
		Help: "Queries where the pruned search found no path",
	})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tdroute_http_in_flight_requests",
		Help: "Requests currently being served",
	})

	rejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tdroute_http_rejected_total",
		Help: "Requests rejected because the server was at its concurrency limit",
	})
)
