// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Item sources, used as the "source" label of lostfound_items_created_total.
const (
	SourceForm = "form"
	SourceFeed = "feed"
)

// Feed record outcomes.
const (
	OutcomeImported = "imported"
	OutcomeFailed   = "failed"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ItemsCreated *prometheus.CounterVec
	FeedRecords  *prometheus.CounterVec
	Logins       *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors and registers all application metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ItemsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_items_created_total",
			Help: "Total number of found items stored, by source",
		}, []string{"source"}),
		FeedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_feed_records_total",
			Help: "Feed records processed by the importer, by outcome",
		}, []string{"outcome"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfound_logins_total",
			Help: "Successful logins, by whether the email domain resolved to a region",
		}, []string{"resolved"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lostfound_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrementItemsCreated records one stored item.
func (m *Metrics) IncrementItemsCreated(source string) {
	if m == nil {
		return
	}
	m.ItemsCreated.WithLabelValues(source).Inc()
}

// IncrementFeedRecord records one processed feed record.
func (m *Metrics) IncrementFeedRecord(outcome string) {
	if m == nil {
		return
	}
	m.FeedRecords.WithLabelValues(outcome).Inc()
}

// IncrementLogins records a successful login.
func (m *Metrics) IncrementLogins(resolved bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(strconv.FormatBool(resolved)).Inc()
}

// ObserveHTTP records the duration of a request. Call with time.Now() taken at the start of the request.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
