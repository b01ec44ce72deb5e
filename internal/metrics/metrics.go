// Package metrics exposes Prometheus counters for the HTTP layer and the
// domain events worth watching.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Collector methods are safe to call on a nil *Collector.
type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	registrations   prometheus.Counter
	logins          *prometheus.CounterVec
	trackingCreated prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peacenest_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peacenest_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peacenest_registrations_total",
			Help: "Accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "peacenest_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		trackingCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peacenest_tracking_entries_created_total",
			Help: "Mood tracking entries created.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.registrations,
		c.logins,
		c.trackingCreated,
	)
	return c
}

func (c *Collector) RecordRegistration() {
	if c == nil {
		return
	}
	c.registrations.Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordTrackingCreated() {
	if c == nil {
		return
	}
	c.trackingCreated.Inc()
}

// Middleware records count and latency per chi route pattern, so ids in the
// path do not explode label cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
