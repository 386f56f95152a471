// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "innosistemas",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	TokensIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "innosistemas",
		Name:      "tokens_issued_total",
		Help:      "Token pairs issued by grant.",
	}, []string{"grant"})

	TeamEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "innosistemas",
		Name:      "team_events_total",
		Help:      "Team lifecycle events.",
	}, []string{"event"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "innosistemas",
		Name:      "job_runs_total",
		Help:      "Background job runs by job and result.",
	}, []string{"job", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "innosistemas",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency labelled with the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
