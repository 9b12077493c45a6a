package directions

import (
	"time"

	"github.com/smartbus-il/smartbus/geometry"
)

// Travel modes as reported by the provider per step.
const (
	TravelModeWalking = "WALKING"
	TravelModeTransit = "TRANSIT"
)

// IntentKind distinguishes the three supported time intents of a query.
type IntentKind int

const (
	IntentNow IntentKind = iota
	IntentDepartAt
	IntentArriveBy
)

// TimeIntent anchors an itinerary query in time: leave now, leave at a
// given instant, or arrive by a given instant.
type TimeIntent struct {
	Kind IntentKind
	At   time.Time
}

// Now returns the immediate-departure intent.
func Now() TimeIntent { return TimeIntent{Kind: IntentNow} }

// DepartAt returns a depart-at intent for the given instant.
func DepartAt(at time.Time) TimeIntent { return TimeIntent{Kind: IntentDepartAt, At: at} }

// ArriveBy returns an arrive-by intent for the given instant.
func ArriveBy(at time.Time) TimeIntent { return TimeIntent{Kind: IntentArriveBy, At: at} }

// TextValue is the provider's {text, value} pair where value is seconds or
// meters depending on the field.
type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// TimeText is the provider's timestamp representation: display text plus a
// unix epoch value.
type TimeText struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// Polyline wraps the encoded geometry string of a step or route.
type Polyline struct {
	Points string `json:"points"`
}

// Stop is a named transit stop with its location.
type Stop struct {
	Name     string          `json:"name"`
	Location geometry.LatLng `json:"location"`
}

// TransitLine identifies the line serving a transit step.
type TransitLine struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// TransitDetails is present only on transit steps.
type TransitDetails struct {
	DepartureStop Stop        `json:"departure_stop"`
	ArrivalStop   Stop        `json:"arrival_stop"`
	DepartureTime TimeText    `json:"departure_time"`
	ArrivalTime   TimeText    `json:"arrival_time"`
	Line          TransitLine `json:"line"`
	Headsign      string      `json:"headsign"`
	NumStops      int         `json:"num_stops"`
}

// RawStep is one leg of a candidate itinerary as returned by the provider.
type RawStep struct {
	TravelMode       string          `json:"travel_mode"`
	Duration         TextValue       `json:"duration"`
	Distance         TextValue       `json:"distance"`
	Polyline         Polyline        `json:"polyline"`
	HTMLInstructions string          `json:"html_instructions"`
	TransitDetails   *TransitDetails `json:"transit_details"`
}

// RawLeg is the origin-to-destination stretch of an itinerary. Transit
// queries produce a single leg; the types allow more for safety.
type RawLeg struct {
	Duration          TextValue        `json:"duration"`
	DurationInTraffic *TextValue       `json:"duration_in_traffic"`
	Distance          TextValue        `json:"distance"`
	DepartureTime     *TimeText        `json:"departure_time"`
	ArrivalTime       *TimeText        `json:"arrival_time"`
	StartLocation     geometry.LatLng  `json:"start_location"`
	EndLocation       geometry.LatLng  `json:"end_location"`
	Steps             []RawStep        `json:"steps"`
}

// RawItinerary is one complete candidate trip. It is fetched fresh per
// query and discarded after the planner converts it.
type RawItinerary struct {
	Legs             []RawLeg `json:"legs"`
	OverviewPolyline Polyline `json:"overview_polyline"`
	Summary          string   `json:"summary"`
}

// DrivingEstimate is the result of a secondary driving-mode query between
// two transit stops. TrafficDuration falls back to NormalDuration when the
// provider omits the traffic-adjusted figure.
type DrivingEstimate struct {
	NormalDuration  time.Duration
	TrafficDuration time.Duration
}

// Place is a nearby station or point of interest used for map enrichment.
type Place struct {
	Name     string          `json:"name"`
	Location geometry.LatLng `json:"location"`
	Vicinity string          `json:"vicinity,omitempty"`
}
