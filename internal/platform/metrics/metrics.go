// Package metrics exposes Prometheus collectors for the KPI tracking service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	entriesCreated   prometheus.Counter
	entriesUpdated   prometheus.Counter
	reportsGenerated prometheus.Counter
	entriesLocked    prometheus.Counter
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Collector{
		registry: registry,
		httpRequests: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kpitrack",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
		httpRequestDuration: auto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kpitrack",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
		rateLimited: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kpitrack",
			Name:      "http_rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),
		entriesCreated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kpitrack",
			Name:      "entries_created_total",
			Help:      "Total number of KPI entries created",
		}),
		entriesUpdated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kpitrack",
			Name:      "entries_updated_total",
			Help:      "Total number of KPI entries updated",
		}),
		reportsGenerated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kpitrack",
			Name:      "reports_generated_total",
			Help:      "Total number of department reports generated",
		}),
		entriesLocked: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kpitrack",
			Name:      "entries_locked_total",
			Help:      "Total number of entries locked by report generation",
		}),
	}
}

// Record observes one completed HTTP request.
func (c *Collector) Record(method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	c.httpRequests.WithLabelValues(method, code).Inc()
	c.httpRequestDuration.WithLabelValues(method, code).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) RecordEntryCreated() { c.entriesCreated.Inc() }

func (c *Collector) RecordEntryUpdated() { c.entriesUpdated.Inc() }

func (c *Collector) RecordReportGenerated(lockedEntries int) {
	c.reportsGenerated.Inc()
	c.entriesLocked.Add(float64(lockedEntries))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
