package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesPipelineCounters(t *testing.T) {
	c := NewCollector()
	c.TripQueries.Inc()
	c.DelayProbes.Inc()
	c.DelayProbes.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "smartbus_trip_queries_total 1") {
		t.Errorf("trip query counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, "smartbus_delay_probes_total 2") {
		t.Errorf("delay probe counter missing from exposition:\n%s", body)
	}
}

func TestServeReturnsDrainableServer(t *testing.T) {
	c := NewCollector()
	srv := c.Serve("127.0.0.1:0")
	if srv == nil {
		t.Fatal("Serve must return the server handle for graceful shutdown")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("metrics server shutdown failed: %v", err)
	}
}
