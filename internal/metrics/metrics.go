package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_api_requests_total",
		Help: "Total API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_api_retries_total",
		Help: "Total API retry attempts",
	}, []string{"endpoint"})
	APIDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chirp_api_request_duration_seconds",
		Help:    "API request duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	TokenRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chirp_token_refreshes_total",
		Help: "Total successful token refreshes",
	})
	TokenRefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chirp_token_refresh_failures_total",
		Help: "Total failed token refreshes (each forces a logout)",
	})
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_events_published_total",
		Help: "Total events published on the reconciliation bus",
	}, []string{"kind"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(APIRequests, APIRetries, APIDuration,
		TokenRefreshes, TokenRefreshFailures, EventsPublished,
		CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// Empty addr (and empty METRICS_ADDR) disables it.
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveAPIDuration records one request's duration.
func ObserveAPIDuration(start time.Time) {
	APIDuration.Observe(time.Since(start).Seconds())
}

// IncAPIRequest counts one finished request for an endpoint.
func IncAPIRequest(endpoint, outcome string) { APIRequests.WithLabelValues(endpoint, outcome).Inc() }

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

// IncEventPublished counts one bus broadcast by kind.
func IncEventPublished(kind string) { EventsPublished.WithLabelValues(kind).Inc() }

// IncCommandRun counts one CLI command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts one CLI command failure.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
