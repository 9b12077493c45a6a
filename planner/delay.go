package planner

import (
	"context"
	"time"

	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
	"github.com/smartbus-il/smartbus/metrics"
)

// DrivingEstimator is the slice of the directions provider the delay
// estimator depends on.
type DrivingEstimator interface {
	GetDrivingEstimate(ctx context.Context, from, to geometry.LatLng, at time.Time) (directions.DrivingEstimate, error)
}

// DelayEstimator scores transit segments by comparing the normal and
// traffic-adjusted driving durations between their stops.
type DelayEstimator struct {
	driving      DrivingEstimator
	thresholds   Thresholds
	probeTimeout time.Duration
	collector    *metrics.Collector
}

// NewDelayEstimator creates an estimator from delay configuration. The
// metrics collector may be nil.
func NewDelayEstimator(driving DrivingEstimator, cfg config.DelayConfig, collector *metrics.Collector) *DelayEstimator {
	return &DelayEstimator{
		driving: driving,
		thresholds: Thresholds{
			LowMaxMinutes:    cfg.LowMaxMinutes,
			MediumMaxMinutes: cfg.MediumMaxMinutes,
		},
		probeTimeout: time.Duration(cfg.ProbeTimeoutMS) * time.Millisecond,
		collector:    collector,
	}
}

// Thresholds returns the severity cut points in effect.
func (e *DelayEstimator) Thresholds() Thresholds { return e.thresholds }

// Estimate issues one driving-mode probe between two stop coordinates at
// the scheduled departure instant and derives the congestion delay.
//
// Estimate never fails. Any probe problem (network error, empty result,
// malformed response, timeout) yields the zero-delay, low-severity default:
// a single segment's traffic lookup must not abort the user's whole search.
func (e *DelayEstimator) Estimate(ctx context.Context, from, to geometry.LatLng, at time.Time) DelayEstimate {
	if e.collector != nil {
		e.collector.DelayProbes.Inc()
	}
	fallback := DelayEstimate{Severity: SeverityLow}

	if e.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.probeTimeout)
		defer cancel()
	}
	est, err := e.driving.GetDrivingEstimate(ctx, from, to, at)
	if err != nil {
		if e.collector != nil {
			e.collector.DelayProbeFailures.Inc()
		}
		return fallback
	}

	normal := est.NormalDuration
	traffic := est.TrafficDuration
	// The traffic figure is never below the free-flow one.
	if traffic < normal {
		traffic = normal
	}
	delayMinutes := (traffic - normal).Minutes()
	return DelayEstimate{
		NormalSeconds:  int64(normal.Seconds()),
		TrafficSeconds: int64(traffic.Seconds()),
		DelayMinutes:   delayMinutes,
		Severity:       e.thresholds.Classify(delayMinutes),
	}
}
