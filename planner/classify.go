package planner

import (
	"time"

	"github.com/pkg/errors"

	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
)

// LinePlaceholder labels a transit segment whose line short name is missing
// upstream. The itinerary is still evaluated and ranked.
const LinePlaceholder = "?"

// ErrMissingLineName reports a transit step without a line short name. The
// returned segment is still usable; callers log and continue.
var ErrMissingLineName = errors.New("transit step missing line short name")

// Classify converts one raw step into a normalized segment. Walking steps
// map directly. Transit steps additionally carry the line, stop coordinates
// and the scheduled departure instant, which anchors the later traffic
// probe at the planned boarding time rather than "now".
//
// The delay estimate is not filled here; see DelayEstimator.
func Classify(step directions.RawStep) (Segment, error) {
	seg := Segment{
		Mode:            ModeWalking,
		DurationSeconds: step.Duration.Value,
		DistanceMeters:  float64(step.Distance.Value),
		Points:          geometry.DecodePolyline(step.Polyline.Points),
		Instruction:     step.HTMLInstructions,
	}
	if seg.DistanceMeters == 0 && len(seg.Points) > 1 {
		seg.DistanceMeters = geometry.PathLengthKM(seg.Points) * 1000
	}
	if step.TravelMode != directions.TravelModeTransit {
		return seg, nil
	}

	seg.Mode = ModeTransit
	details := step.TransitDetails
	if details == nil {
		seg.Line = LinePlaceholder
		return seg, errors.Wrap(ErrMissingLineName, "no transit details")
	}
	seg.Headsign = details.Headsign
	seg.DepartureStop = details.DepartureStop.Location
	seg.ArrivalStop = details.ArrivalStop.Location
	seg.DepartureAt = time.Unix(details.DepartureTime.Value, 0)
	seg.ArrivalAt = time.Unix(details.ArrivalTime.Value, 0)
	seg.StopCount = details.NumStops

	if details.Line.ShortName == "" {
		seg.Line = LinePlaceholder
		return seg, ErrMissingLineName
	}
	seg.Line = details.Line.ShortName
	return seg, nil
}
