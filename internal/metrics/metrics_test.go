package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	IncAPIRequest("/api/home", "ok")
	IncAPIRetry("/api/home")
	TokenRefreshes.Inc()
	IncEventPublished("tweet_liked")
	IncCommandRun("home")
	ObserveAPIDuration(time.Now().Add(-150 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"chirp_api_requests_total",
		"chirp_api_retries_total",
		"chirp_api_request_duration_seconds",
		"chirp_token_refreshes_total",
		"chirp_events_published_total",
		"chirp_command_runs_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}
