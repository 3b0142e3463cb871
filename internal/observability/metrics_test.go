package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestMetrics_Usable verifies all metrics accept the label dimensions used
// across the client, geocode, http, service and auth packages without panic.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/api/weather/cities", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/api/weather/cities").Observe(0.01)
	HTTPRequestsInFlight.Inc()
	HTTPRequestsInFlight.Dec()
	GeocodingCallsTotal.WithLabelValues("success").Inc()
	GeocodingCallsTotal.WithLabelValues("error").Inc()
	GeocodingDuration.WithLabelValues("success").Observe(0.1)
	WeatherAPICallsTotal.WithLabelValues("success").Inc()
	WeatherAPICallsTotal.WithLabelValues("error").Inc()
	WeatherAPIDuration.WithLabelValues("success").Observe(0.1)
	CacheHitsTotal.WithLabelValues("current").Inc()
	CacheHitsTotal.WithLabelValues("forecast").Inc()
	CityQueriesTotal.Inc()
	AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	AuthAttemptsTotal.WithLabelValues("login", "denied").Inc()
	RateLimitDeniedTotal.Inc()
}

// TestMetricsHandler_ServesPrometheusFormat verifies MetricsHandler serves the
// text exposition format from the custom registry.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
	if !strings.Contains(body, "cityQueriesTotal") {
		t.Error("MetricsHandler response should contain cityQueriesTotal")
	}
}
