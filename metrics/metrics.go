// Package metrics exposes Prometheus instrumentation for the evaluation
// pipeline and its upstream calls.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the pipeline's metrics behind one registry.
type Collector struct {
	reg *prometheus.Registry

	TripQueries    prometheus.Counter
	NoRouteResults prometheus.Counter

	DelayProbes        prometheus.Counter
	DelayProbeFailures prometheus.Counter

	EvaluateDuration prometheus.Histogram
}

// NewCollector creates and registers the pipeline metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbus_trip_queries_total",
			Help: "Total trip evaluation queries received.",
		}),
		NoRouteResults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbus_no_route_results_total",
			Help: "Total queries that produced no itinerary.",
		}),
		DelayProbes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbus_delay_probes_total",
			Help: "Total secondary driving queries issued for delay scoring.",
		}),
		DelayProbeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartbus_delay_probe_failures_total",
			Help: "Total delay probes that failed and fell back to zero delay.",
		}),
		EvaluateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartbus_evaluate_duration_seconds",
			Help:    "Wall-clock duration of full trip evaluations.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	reg.MustRegister(
		c.TripQueries, c.NoRouteResults,
		c.DelayProbes, c.DelayProbeFailures,
		c.EvaluateDuration,
	)
	return c
}

// Handler returns the /metrics handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
