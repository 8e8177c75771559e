package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "biomass_api"

// Metrics holds the Prometheus counters, histograms, and gauges for the API.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec   // labels: route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: route
	RateLimited         prometheus.Counter

	// Simulation gateway metrics.
	Simulations        *prometheus.CounterVec   // labels: pathway, outcome={success,error,busy}
	SimulationDuration *prometheus.HistogramVec // labels: pathway
	SimulationWait     prometheus.Histogram
	SimulationInFlight prometheus.Gauge

	// Remote simulator metrics.
	SimulatorRequests    *prometheus.CounterVec   // labels: method={configure,simulate}, outcome={success,error}
	SimulatorAPIDuration *prometheus.HistogramVec // labels: method={configure,simulate}
	SimulatorRemote      prometheus.Gauge

	CountyLookups   *prometheus.CounterVec // labels: pathway, result={hit,miss}
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests may
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Simulation runs by pathway and outcome.",
		}, []string{"pathway", "outcome"}),
		SimulationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Duration of a configure-and-simulate run while holding the simulator.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"pathway"}),
		SimulationWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_queue_wait_seconds",
			Help:      "Time spent waiting for exclusive access to the simulator.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
		}),
		SimulationInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_in_flight",
			Help:      "1 while a simulation holds the simulator, 0 otherwise.",
		}),
		SimulatorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulator_requests_total",
			Help:      "Remote simulator requests by method and outcome.",
		}, []string{"method", "outcome"}),
		SimulatorAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulator_api_duration_seconds",
			Help:      "Remote simulator request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
		SimulatorRemote: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulator_remote",
			Help:      "1 when a remote simulator is configured, 0 when the built-in surrogate is used.",
		}),
		CountyLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "county_lookups_total",
			Help:      "County resolutions by pathway and result.",
		}, []string{"pathway", "result"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Calculation events written to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.RateLimited,
		m.Simulations,
		m.SimulationDuration,
		m.SimulationWait,
		m.SimulationInFlight,
		m.SimulatorRequests,
		m.SimulatorAPIDuration,
		m.SimulatorRemote,
		m.CountyLookups,
		m.EventsPublished,
	}
}
