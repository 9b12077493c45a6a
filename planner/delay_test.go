package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
	"github.com/smartbus-il/smartbus/planner"
)

var (
	stopA = geometry.LatLng{Lat: 32.32667, Lng: 34.85838}
	stopB = geometry.LatLng{Lat: 32.07427, Lng: 34.79180}
)

func TestEstimate_Delay(t *testing.T) {
	provider := &fakeProvider{estimateFn: fixedEstimate(600*time.Second, 900*time.Second)}
	est := planner.NewDelayEstimator(provider, testDelayConfig(), nil)

	d := est.Estimate(context.Background(), stopA, stopB, time.Now())
	if d.NormalSeconds != 600 || d.TrafficSeconds != 900 {
		t.Errorf("unexpected durations: %+v", d)
	}
	if d.DelayMinutes != 5 {
		t.Errorf("expected 5 delay minutes, got %f", d.DelayMinutes)
	}
	if d.Severity != planner.SeverityMedium {
		t.Errorf("expected medium severity for 5 minutes, got %v", d.Severity)
	}
}

func TestEstimate_FailOpen(t *testing.T) {
	tests := []struct {
		name string
		fn   func(geometry.LatLng, geometry.LatLng, time.Time) (directions.DrivingEstimate, error)
	}{
		{
			name: "probe error",
			fn: func(geometry.LatLng, geometry.LatLng, time.Time) (directions.DrivingEstimate, error) {
				return directions.DrivingEstimate{}, errors.New("network down")
			},
		},
		{
			name: "no estimate configured",
			fn:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{estimateFn: tt.fn}
			est := planner.NewDelayEstimator(provider, testDelayConfig(), nil)
			d := est.Estimate(context.Background(), stopA, stopB, time.Now())
			if d.DelayMinutes != 0 {
				t.Errorf("fail-open estimate should have zero delay, got %f", d.DelayMinutes)
			}
			if d.Severity != planner.SeverityLow {
				t.Errorf("fail-open estimate should be low severity, got %v", d.Severity)
			}
		})
	}
}

func TestEstimate_TrafficBelowNormalClamped(t *testing.T) {
	provider := &fakeProvider{estimateFn: fixedEstimate(600*time.Second, 400*time.Second)}
	est := planner.NewDelayEstimator(provider, testDelayConfig(), nil)
	d := est.Estimate(context.Background(), stopA, stopB, time.Now())
	if d.DelayMinutes != 0 {
		t.Errorf("traffic below free-flow should clamp to zero delay, got %f", d.DelayMinutes)
	}
	if d.TrafficSeconds != d.NormalSeconds {
		t.Errorf("clamped traffic should equal normal, got %d vs %d", d.TrafficSeconds, d.NormalSeconds)
	}
}

func TestEstimate_UsesScheduledDeparture(t *testing.T) {
	scheduled := time.Unix(1760000300, 0)
	var got time.Time
	provider := &fakeProvider{estimateFn: func(_, _ geometry.LatLng, at time.Time) (directions.DrivingEstimate, error) {
		got = at
		return directions.DrivingEstimate{NormalDuration: time.Minute, TrafficDuration: time.Minute}, nil
	}}
	est := planner.NewDelayEstimator(provider, testDelayConfig(), nil)
	est.Estimate(context.Background(), stopA, stopB, scheduled)
	if !got.Equal(scheduled) {
		t.Errorf("probe should be anchored at the scheduled departure, got %v", got)
	}
}

func TestSeverity_Thresholds(t *testing.T) {
	th := planner.Thresholds{LowMaxMinutes: 5, MediumMaxMinutes: 12}
	tests := []struct {
		delay    float64
		expected planner.Severity
	}{
		{0, planner.SeverityLow},
		{4.9, planner.SeverityLow},
		{5, planner.SeverityMedium},
		{12, planner.SeverityMedium},
		{12.1, planner.SeverityHigh},
		{45, planner.SeverityHigh},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.delay); got != tt.expected {
			t.Errorf("Classify(%f): expected %v, got %v", tt.delay, tt.expected, got)
		}
	}
}

// Severity is non-decreasing in the delay regardless of threshold values.
func TestSeverity_Monotone(t *testing.T) {
	th := planner.Thresholds{LowMaxMinutes: 4, MediumMaxMinutes: 10}
	prev := planner.SeverityLow
	for delay := 0.0; delay <= 30; delay += 0.5 {
		cur := th.Classify(delay)
		if cur < prev {
			t.Fatalf("severity decreased from %v to %v at delay %f", prev, cur, delay)
		}
		prev = cur
	}
}
