package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder tracks solver and API activity with Prometheus.
type Recorder struct {
	solves        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	tableCells    prometheus.Counter
	overflowCells prometheus.Counter
	cacheLookups  *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in servers
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		solves: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidation_solves_total",
				Help: "Total number of solves by outcome",
			},
			[]string{"status"},
		),
		solveDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liquidation_solve_duration_seconds",
				Help:    "Duration of backward induction in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"space"},
		),
		tableCells: f.NewCounter(prometheus.CounterOpts{
			Name: "liquidation_table_cells_total",
			Help: "Value table cells computed",
		}),
		overflowCells: f.NewCounter(prometheus.CounterOpts{
			Name: "liquidation_overflow_cells_total",
			Help: "Value table cells saturated to +Inf",
		}),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidation_result_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquidation_http_requests_total",
				Help: "HTTP requests by route and status class",
			},
			[]string{"route", "code"},
		),
	}
}

// RecordSolve records one finished solve. status is "ok", "overflow", "invalid" or "cancelled".
func (r *Recorder) RecordSolve(status, space string, seconds float64, cells, overflow int) {
	r.solves.WithLabelValues(status).Inc()
	if cells > 0 {
		r.solveDuration.WithLabelValues(space).Observe(seconds)
		r.tableCells.Add(float64(cells))
		r.overflowCells.Add(float64(overflow))
	}
}

func (r *Recorder) RecordCacheLookup(hit bool) {
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

func (r *Recorder) RecordRequest(route, code string) {
	r.requests.WithLabelValues(route, code).Inc()
}
