package planner

import (
	"context"
	"slices"
	"time"

	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/metrics"
)

// Provider is the slice of the directions client the evaluator consumes.
type Provider interface {
	GetItineraries(ctx context.Context, origin, destination string, intent directions.TimeIntent) ([]directions.RawItinerary, error)
	DrivingEstimator
}

// Evaluator runs the full evaluation pipeline for one trip query.
type Evaluator struct {
	provider      Provider
	aggregator    *Aggregator
	walkingBudget float64
	queryTimeout  time.Duration
	collector     *metrics.Collector
}

// NewEvaluator wires the pipeline from configuration. The metrics collector
// may be nil.
func NewEvaluator(provider Provider, cfg config.AppConfig, collector *metrics.Collector) *Evaluator {
	estimator := NewDelayEstimator(provider, cfg.Delay, collector)
	return &Evaluator{
		provider:      provider,
		aggregator:    NewAggregator(estimator, cfg.Delay.ProbeConcurrency),
		walkingBudget: cfg.Planner.WalkingBudgetMinutes,
		queryTimeout:  time.Duration(cfg.Planner.QueryTimeoutMS) * time.Millisecond,
		collector:     collector,
	}
}

// EvaluateTrip fetches itinerary alternatives, evaluates every one of them,
// and returns the ranked plan. The only error surfaced to the caller is a
// failed or empty itinerary query; everything below that degrades locally.
func (ev *Evaluator) EvaluateTrip(ctx context.Context, query TripQuery) (*TripPlan, error) {
	start := time.Now()
	if ev.collector != nil {
		ev.collector.TripQueries.Inc()
	}
	if ev.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ev.queryTimeout)
		defer cancel()
	}

	raws, err := ev.provider.GetItineraries(ctx, query.Origin, query.Destination, query.Intent)
	if err != nil {
		if ev.collector != nil {
			ev.collector.NoRouteResults.Inc()
		}
		return nil, err
	}

	summaries := make([]ItinerarySummary, 0, len(raws))
	for i, raw := range raws {
		summary := ev.aggregator.Aggregate(ctx, raw)
		summary.SourceIndex = i
		summaries = append(summaries, summary)
	}
	summaries = filterByLine(summaries, query.LineFilter)

	budget := query.MaxWalkingMinutes
	if budget == 0 {
		budget = ev.walkingBudget
	}
	ranked, defaultIndex := Rank(summaries, budget, query.PriorSelection)

	if ev.collector != nil {
		ev.collector.EvaluateDuration.Observe(time.Since(start).Seconds())
	}
	return &TripPlan{Ranked: ranked, DefaultIndex: defaultIndex}, nil
}

// filterByLine keeps itineraries that use the requested line. The filter is
// advisory: when nothing matches, the full set comes back rather than an
// empty result.
func filterByLine(summaries []ItinerarySummary, line string) []ItinerarySummary {
	if line == "" {
		return summaries
	}
	var matched []ItinerarySummary
	for _, s := range summaries {
		if slices.Contains(s.Lines, line) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return summaries
	}
	return matched
}
