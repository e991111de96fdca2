package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/middleware"
	"github.com/agentstation/toolhub/pkg/catalog"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the API collectors on a fresh registry. The broker
// gauges read live counters at scrape time.
func NewMetrics(broker *events.Broker) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolhub_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "toolhub_events_published_total",
		Help: "Catalog change events accepted by the broker",
	}, func() float64 { return float64(broker.EventsPublished()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "toolhub_events_dropped_total",
		Help: "Catalog change events dropped on a full queue",
	}, func() float64 { return float64(broker.EventsDropped()) })

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := middleware.Wrap(w)
			next.ServeHTTP(rw, r)

			route := routeLabel(r.URL.Path, prefix)
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.Status())).Inc()
			m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// itemActions are fixed path segments that follow a collection name.
var itemActions = map[string]bool{"facets": true, "export": true, "import": true, "template": true}

// routeLabel collapses item IDs so label cardinality stays bounded.
func routeLabel(path, prefix string) string {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		switch path {
		case "/health", "/ready", "/metrics":
			return path
		}
		return "other"
	}
	parts := splitPath(rest)
	if len(parts) == 0 {
		return prefix
	}
	if _, isCollection := catalog.KindForCollection(parts[0]); !isCollection {
		switch parts[0] {
		case "analytics", "updates", "stats", "health", "ready":
			return prefix + "/" + strings.Join(parts, "/")
		}
		return "other"
	}
	label := prefix + "/{collection}"
	if len(parts) > 1 {
		if itemActions[parts[1]] {
			label += "/" + parts[1]
		} else {
			label += "/{id}"
		}
	}
	switch {
	case len(parts) == 3 && (parts[2] == "view" || parts[2] == "click"):
		label += "/" + parts[2]
	case len(parts) > 2:
		return "other"
	}
	return label
}
