package planner

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/smartbus-il/smartbus/directions"
)

// Aggregator walks one itinerary's steps, classifies them, schedules delay
// probes for the transit segments, and folds the results into a summary.
type Aggregator struct {
	estimator   *DelayEstimator
	concurrency int
}

// NewAggregator creates an aggregator. concurrency bounds the number of
// delay probes in flight per itinerary.
func NewAggregator(estimator *DelayEstimator, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Aggregator{estimator: estimator, concurrency: concurrency}
}

// Aggregate produces the summary of one raw itinerary. Walking time and
// transit delay accumulate across the ordered segments; the line sequence
// collapses consecutive duplicates only. The total duration is the
// provider's own figure (traffic-adjusted when present), not a re-derived
// sum, so the ranking agrees with what the provider told the rider.
func (a *Aggregator) Aggregate(ctx context.Context, raw directions.RawItinerary) ItinerarySummary {
	var segments []Segment
	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			seg, err := Classify(step)
			if err != nil {
				log.Printf("segment classification: %v (line label %q substituted)", err, seg.Line)
			}
			segments = append(segments, seg)
		}
	}

	a.estimateDelays(ctx, segments)

	var walkingSeconds int64
	var delayMinutes float64
	var lines []string
	for i := range segments {
		seg := &segments[i]
		switch seg.Mode {
		case ModeWalking:
			walkingSeconds += seg.DurationSeconds
		case ModeTransit:
			if seg.Delay != nil {
				delayMinutes += seg.Delay.DelayMinutes
			}
			if len(lines) == 0 || lines[len(lines)-1] != seg.Line {
				lines = append(lines, seg.Line)
			}
		}
	}

	summary := ItinerarySummary{
		TotalDurationSeconds: totalDurationSeconds(raw),
		TotalWalkingMinutes:  float64(walkingSeconds) / 60,
		TotalDelayMinutes:    delayMinutes,
		Lines:                lines,
		Segments:             segments,
		SummaryText:          summaryText(segments),
	}
	if len(raw.Legs) > 0 {
		leg := raw.Legs[0]
		if leg.DepartureTime != nil {
			summary.DepartureText = leg.DepartureTime.Text
		}
		if last := raw.Legs[len(raw.Legs)-1]; last.ArrivalTime != nil {
			summary.ArrivalText = last.ArrivalTime.Text
		}
	}
	return summary
}

// estimateDelays runs the transit segments' probes with bounded parallelism.
// Results land in the segment slots they belong to, so original order is
// preserved no matter which probe finishes first, and a slow probe never
// blocks a sibling.
func (a *Aggregator) estimateDelays(ctx context.Context, segments []Segment) {
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup
	for i := range segments {
		if segments[i].Mode != ModeTransit {
			continue
		}
		// A step without transit details has no stop coordinates; there is
		// nothing to probe between.
		if segments[i].DepartureStop.IsZero() || segments[i].ArrivalStop.IsZero() {
			continue
		}
		wg.Add(1)
		go func(seg *Segment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			est := a.estimator.Estimate(ctx, seg.DepartureStop, seg.ArrivalStop, seg.DepartureAt)
			seg.Delay = &est
		}(&segments[i])
	}
	wg.Wait()
}

// totalDurationSeconds sums the legs' authoritative durations, preferring
// the traffic-adjusted figure when the provider supplies one.
func totalDurationSeconds(raw directions.RawItinerary) int64 {
	var total int64
	for _, leg := range raw.Legs {
		if leg.DurationInTraffic != nil {
			total += leg.DurationInTraffic.Value
		} else {
			total += leg.Duration.Value
		}
	}
	return total
}

// summaryText renders the rider-facing journey shorthand, e.g.
// "🚶 ➔ 🚌5 ➔ 🚶 ➔ 🚌18". Consecutive identical tokens collapse.
func summaryText(segments []Segment) string {
	var tokens []string
	for _, seg := range segments {
		token := "🚶"
		if seg.Mode == ModeTransit {
			token = "🚌" + seg.Line
		}
		if len(tokens) == 0 || tokens[len(tokens)-1] != token {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ➔ ")
}
