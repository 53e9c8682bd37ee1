package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics :
// Regroups the counters and histograms describing the
// activity of the flight server. A single instance is
// created by the server and shared by the subsystems
// needing to instrument their processing.
//
// The `FlightsDispatched` counts the flights successfully
// created, labelled by mission.
//
// The `DispatchFailures` counts the dispatch requests
// rejected by the validator, labelled by reason.
//
// The `EventsResolved` counts the flight events resolved
// by the scheduler, labelled by mission.
//
// The `SchedulerLag` observes the delay between an event's
// due time and the moment it is actually resolved, in
// seconds.
type Metrics struct {
	FlightsDispatched *prometheus.CounterVec
	DispatchFailures  *prometheus.CounterVec
	EventsResolved    *prometheus.CounterVec
	SchedulerLag      prometheus.Histogram

	registry *prometheus.Registry
}

// New :
// Creates the metrics set with its own registry so that
// tests can create independent instances.
//
// Returns the created object.
func New() *Metrics {
	m := Metrics{
		FlightsDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogflight_flights_dispatched_total",
				Help: "Number of flights successfully dispatched.",
			},
			[]string{"mission"},
		),
		DispatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogflight_dispatch_failures_total",
				Help: "Number of dispatch requests rejected by the validator.",
			},
			[]string{"reason"},
		),
		EventsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogflight_events_resolved_total",
				Help: "Number of flight events resolved.",
			},
			[]string{"mission"},
		),
		SchedulerLag: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ogflight_scheduler_lag_seconds",
				Help:    "Delay between an event due time and its resolution.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2.0, 10),
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FlightsDispatched,
		m.DispatchFailures,
		m.EventsResolved,
		m.SchedulerLag,
	)

	return &m
}

// Handler :
// Provides the HTTP handler exposing the metrics of this
// set in the prometheus exposition format.
//
// Returns the handler to register on the metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
