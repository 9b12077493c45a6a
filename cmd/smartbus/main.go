package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	smartbus "github.com/smartbus-il/smartbus"
	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/linecache"
	"github.com/smartbus-il/smartbus/planner"
)

func main() {
	mode := flag.String("mode", "serve", "serve|plan|cache")
	origin := flag.String("origin", "", "trip origin (plan mode)")
	destination := flag.String("destination", "", "trip destination (plan mode)")
	departAt := flag.String("departAt", "", "RFC3339 departure time (default: now)")
	arriveBy := flag.String("arriveBy", "", "RFC3339 arrival deadline")
	line := flag.String("line", "", "preferred line short name filter")
	maxWalking := flag.Float64("maxWalkingMinutes", 0, "walking budget override (plan mode)")
	feedZip := flag.String("feedZip", "", "local GTFS zip for cache mode (overrides staticURL)")
	flag.Parse()

	smartbus.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Config

	switch *mode {
	case "serve":
		store := openCache(cfg)
		if store != nil {
			defer store.Close()
		}
		app := smartbus.NewApp(cfg, store)
		app.StartServer()
		smartbus.HandleGracefulShutdown()

	case "plan":
		if *origin == "" || *destination == "" {
			log.Fatal("plan mode requires -origin and -destination")
		}
		query := planner.TripQuery{
			Origin:            *origin,
			Destination:       *destination,
			Intent:            parseIntent(*departAt, *arriveBy),
			LineFilter:        *line,
			MaxWalkingMinutes: *maxWalking,
			PriorSelection:    -1,
		}
		app := smartbus.NewApp(cfg, nil)
		plan, err := app.Evaluator().EvaluateTrip(context.Background(), query)
		if err != nil {
			log.Fatalf("evaluate: %v", err)
		}
		out, _ := json.MarshalIndent(plan, "", "  ")
		fmt.Println(string(out))

	case "cache":
		buildCache(cfg, *feedZip)

	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func parseIntent(departAt, arriveBy string) directions.TimeIntent {
	if departAt != "" {
		at, err := time.Parse(time.RFC3339, departAt)
		if err != nil {
			log.Fatalf("invalid -departAt: %v", err)
		}
		return directions.DepartAt(at)
	}
	if arriveBy != "" {
		at, err := time.Parse(time.RFC3339, arriveBy)
		if err != nil {
			log.Fatalf("invalid -arriveBy: %v", err)
		}
		return directions.ArriveBy(at)
	}
	return directions.Now()
}

// openCache opens the line cache when configured; a missing or unreadable
// cache only disables the line endpoints.
func openCache(cfg config.AppConfig) *linecache.Store {
	if cfg.LineCache.DBPath == "" {
		return nil
	}
	if _, err := os.Stat(cfg.LineCache.DBPath); err != nil {
		log.Printf("line cache %s not present, line endpoints disabled (run -mode cache)", cfg.LineCache.DBPath)
		return nil
	}
	store, err := linecache.Open(cfg.LineCache.DBPath)
	if err != nil {
		log.Printf("line cache unavailable: %v", err)
		return nil
	}
	return store
}

func buildCache(cfg config.AppConfig, feedZip string) {
	store, err := linecache.Open(cfg.LineCache.DBPath)
	if err != nil {
		log.Fatalf("cache open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	populated, err := store.Populated(ctx)
	if err != nil {
		log.Fatalf("cache check: %v", err)
	}
	if populated {
		log.Printf("cache %s already populated, nothing to do", cfg.LineCache.DBPath)
		return
	}

	var feed *linecache.Feed
	if feedZip != "" {
		feed, err = linecache.LoadFeedZip(feedZip)
	} else if cfg.LineCache.LocalZip != "" {
		feed, err = linecache.LoadFeedZip(cfg.LineCache.LocalZip)
	} else if cfg.LineCache.StaticURL != "" {
		log.Printf("downloading static feed from %s", cfg.LineCache.StaticURL)
		feed, err = linecache.FetchFeed(cfg.LineCache.StaticURL)
	} else {
		log.Fatal("cache mode requires -feedZip, lineCache.localZip, or lineCache.staticURL")
	}
	if err != nil {
		log.Fatalf("feed load: %v", err)
	}

	start := time.Now()
	if err := store.Populate(ctx, feed); err != nil {
		log.Fatalf("cache populate: %v", err)
	}
	lines, _ := store.Lines(ctx)
	log.Printf("cached %d lines in %s", len(lines), time.Since(start).Round(time.Millisecond))
}
