package smartbus

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/linecache"
	"github.com/smartbus-il/smartbus/metrics"
	"github.com/smartbus-il/smartbus/planner"
)

// App wires the evaluation pipeline behind the HTTP surface.
type App struct {
	cfg       config.AppConfig
	provider  *directions.Client
	evaluator *planner.Evaluator
	store     *linecache.Store // nil when the line cache is disabled
	collector *metrics.Collector
}

// NewApp builds the application from configuration. store may be nil.
func NewApp(cfg config.AppConfig, store *linecache.Store) *App {
	collector := metrics.NewCollector()
	provider := directions.NewClient(cfg.Provider)
	return &App{
		cfg:       cfg,
		provider:  provider,
		evaluator: planner.NewEvaluator(provider, cfg, collector),
		store:     store,
		collector: collector,
	}
}

// Evaluator exposes the pipeline for in-process callers (the CLI's one-shot
// plan mode).
func (a *App) Evaluator() *planner.Evaluator { return a.evaluator }

var (
	server        *http.Server
	metricsServer *http.Server
)

// StartServer starts the HTTP API in the background.
func (a *App) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", a.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/trip/plan", a.handleTripPlan).Methods(http.MethodGet)
	r.HandleFunc("/api/lines/{shortName}/shape", a.handleLineShape).Methods(http.MethodGet)
	r.HandleFunc("/api/stations/nearby", a.handleNearbyStations).Methods(http.MethodGet)
	if a.cfg.Metrics.Addr == "" {
		r.Handle("/metrics", a.collector.Handler())
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)

	if a.cfg.Metrics.Addr != "" {
		metricsServer = a.collector.Serve(a.cfg.Metrics.Addr)
	}
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM, then drains the server.
func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Printf("metrics server shutdown error: %v", err)
		}
	}
}
