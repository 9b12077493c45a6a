package planner_test

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
	"github.com/smartbus-il/smartbus/planner"
)

// fakeProvider implements planner.Provider for tests. GetDrivingEstimate is
// safe for concurrent use and counts its invocations.
type fakeProvider struct {
	mu           sync.Mutex
	itineraries  []directions.RawItinerary
	queryErr     error
	estimateFn   func(from, to geometry.LatLng, at time.Time) (directions.DrivingEstimate, error)
	drivingCalls int
}

func (f *fakeProvider) GetItineraries(ctx context.Context, origin, destination string, intent directions.TimeIntent) ([]directions.RawItinerary, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.itineraries, nil
}

func (f *fakeProvider) GetDrivingEstimate(ctx context.Context, from, to geometry.LatLng, at time.Time) (directions.DrivingEstimate, error) {
	f.mu.Lock()
	f.drivingCalls++
	fn := f.estimateFn
	f.mu.Unlock()
	if fn == nil {
		return directions.DrivingEstimate{}, errors.New("no estimate configured")
	}
	return fn(from, to, at)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drivingCalls
}

// fixedEstimate returns an estimator func producing the same durations for
// every probe.
func fixedEstimate(normal, traffic time.Duration) func(geometry.LatLng, geometry.LatLng, time.Time) (directions.DrivingEstimate, error) {
	return func(geometry.LatLng, geometry.LatLng, time.Time) (directions.DrivingEstimate, error) {
		return directions.DrivingEstimate{NormalDuration: normal, TrafficDuration: traffic}, nil
	}
}

func testDelayConfig() config.DelayConfig {
	return config.DelayConfig{
		LowMaxMinutes:    5,
		MediumMaxMinutes: 12,
		ProbeConcurrency: 4,
		ProbeTimeoutMS:   2000,
	}
}

func newTestAggregator(provider *fakeProvider) *planner.Aggregator {
	return planner.NewAggregator(planner.NewDelayEstimator(provider, testDelayConfig(), nil), 4)
}

func walkStep(seconds int64) directions.RawStep {
	return directions.RawStep{
		TravelMode: directions.TravelModeWalking,
		Duration:   directions.TextValue{Value: seconds},
		Distance:   directions.TextValue{Value: seconds}, // ~1 m/s, value unused by delay logic
		Polyline:   directions.Polyline{Points: geometry.EncodePolyline([]geometry.LatLng{{Lat: 32.05, Lng: 34.75}, {Lat: 32.06, Lng: 34.76}})},
	}
}

func transitStep(line string, seconds int64, departUnix int64) directions.RawStep {
	// Distinct stop coordinates per line let estimate funcs key on them.
	offset := float64(len(line)) / 100
	return directions.RawStep{
		TravelMode: directions.TravelModeTransit,
		Duration:   directions.TextValue{Value: seconds},
		Distance:   directions.TextValue{Value: seconds * 8},
		Polyline:   directions.Polyline{Points: geometry.EncodePolyline([]geometry.LatLng{{Lat: 32.1 + offset, Lng: 34.8}, {Lat: 32.2 + offset, Lng: 34.9}})},
		TransitDetails: &directions.TransitDetails{
			DepartureStop: directions.Stop{Name: "from-" + line, Location: geometry.LatLng{Lat: 32.1 + offset, Lng: 34.8}},
			ArrivalStop:   directions.Stop{Name: "to-" + line, Location: geometry.LatLng{Lat: 32.2 + offset, Lng: 34.9}},
			DepartureTime: directions.TimeText{Text: "10:00", Value: departUnix},
			ArrivalTime:   directions.TimeText{Text: "10:30", Value: departUnix + seconds},
			Line:          directions.TransitLine{ShortName: line},
			Headsign:      "Tel Aviv",
			NumStops:      7,
		},
	}
}

func itinerary(totalSeconds int64, steps ...directions.RawStep) directions.RawItinerary {
	return directions.RawItinerary{
		Legs: []directions.RawLeg{{
			Duration:      directions.TextValue{Value: totalSeconds},
			DepartureTime: &directions.TimeText{Text: "10:00"},
			ArrivalTime:   &directions.TimeText{Text: "10:45"},
			Steps:         steps,
		}},
	}
}
