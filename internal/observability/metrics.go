package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "naturalista_bot"

// Metrics holds the Prometheus counters, histograms, and gauges for the bot.
type Metrics struct {
	Runs                *prometheus.CounterVec // labels: command={check_on_date,top_identifiers}, outcome={success,empty,error}
	ObservationsFetched prometheus.Counter
	RarestSetSize       prometheus.Histogram
	PostsPublished      *prometheus.CounterVec // labels: mode={live,dry_run}
	LastRunTimestamp    *prometheus.GaugeVec   // labels: command
	SchedulerRunning    prometheus.Gauge

	// Upstream API metrics.
	APIRequests *prometheus.CounterVec   // labels: api={inaturalist,mastodon}, outcome={success,error}
	APIDuration *prometheus.HistogramVec // labels: api, endpoint
}

// NewMetrics creates and registers all bot metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Runs,
		m.ObservationsFetched,
		m.RarestSetSize,
		m.PostsPublished,
		m.LastRunTimestamp,
		m.SchedulerRunning,
		m.APIRequests,
		m.APIDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Command runs by command and outcome.",
		}, []string{"command", "outcome"}),
		ObservationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_fetched_total",
			Help:      "Species-level observations returned by the observation query.",
		}),
		RarestSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rarest_set_size",
			Help:      "Number of taxa tied at the minimum regional count.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		PostsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_published_total",
			Help:      "Posts published, by publishing mode.",
		}, []string{"mode"}),
		LastRunTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run per command.",
		}, []string{"command"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_running",
			Help:      "1 when the scheduler loop is active, 0 when stopped.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Upstream API requests by API and outcome.",
		}, []string{"api", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"api", "endpoint"}),
	}
}
