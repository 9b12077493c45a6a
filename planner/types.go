package planner

import (
	"time"

	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
)

// Mode is the travel mode of a segment.
type Mode int

const (
	ModeWalking Mode = iota
	ModeTransit
)

func (m Mode) String() string {
	if m == ModeTransit {
		return "transit"
	}
	return "walking"
}

// MarshalJSON renders the mode as its lowercase name.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// Severity classifies a transit segment's expected congestion delay.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON renders the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Thresholds holds the minute cut points between severity levels. The exact
// boundaries are deployment configuration; severity is non-decreasing in
// the delay regardless of the values chosen.
type Thresholds struct {
	LowMaxMinutes    float64
	MediumMaxMinutes float64
}

// Classify maps a delay in minutes onto a severity level. Delays strictly
// below LowMaxMinutes are low; from there up to and including
// MediumMaxMinutes they are medium; beyond that, high.
func (t Thresholds) Classify(delayMinutes float64) Severity {
	switch {
	case delayMinutes < t.LowMaxMinutes:
		return SeverityLow
	case delayMinutes <= t.MediumMaxMinutes:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// DelayEstimate is the congestion result of one secondary driving query.
// Computed once per segment per evaluation and never mutated afterward.
type DelayEstimate struct {
	NormalSeconds  int64    `json:"normalSeconds"`
	TrafficSeconds int64    `json:"trafficSeconds"`
	DelayMinutes   float64  `json:"delayMinutes"`
	Severity       Severity `json:"severity"`
}

// Segment is the normalized view of one raw itinerary step. Delay is set
// only on transit segments, after estimation.
type Segment struct {
	Mode            Mode               `json:"mode"`
	DurationSeconds int64              `json:"durationSeconds"`
	DistanceMeters  float64            `json:"distanceMeters"`
	Points          []geometry.LatLng  `json:"points"`
	Instruction     string             `json:"instruction,omitempty"`
	Line            string             `json:"line,omitempty"`
	Headsign        string             `json:"headsign,omitempty"`
	DepartureStop   geometry.LatLng    `json:"departureStop,omitzero"`
	ArrivalStop     geometry.LatLng    `json:"arrivalStop,omitzero"`
	DepartureAt     time.Time          `json:"departureAt,omitzero"`
	ArrivalAt       time.Time          `json:"arrivalAt,omitzero"`
	StopCount       int                `json:"stopCount,omitempty"`
	Delay           *DelayEstimate     `json:"delay,omitempty"`
}

// ItinerarySummary is the evaluated form of one candidate trip. Lines keeps
// the rider-facing boarding order with consecutive duplicates collapsed, so
// it reads like a journey summary, not a deduplicated set.
type ItinerarySummary struct {
	TotalDurationSeconds  int64     `json:"totalDurationSeconds"`
	TotalWalkingMinutes   float64   `json:"totalWalkingMinutes"`
	TotalDelayMinutes     float64   `json:"totalDelayMinutes"`
	Lines                 []string  `json:"lines"`
	Segments              []Segment `json:"segments"`
	DepartureText         string    `json:"departureText,omitempty"`
	ArrivalText           string    `json:"arrivalText,omitempty"`
	SummaryText           string    `json:"summaryText"`
	Fastest               bool      `json:"fastest"`
	WalkingBudgetExceeded bool      `json:"walkingBudgetExceeded"`

	// SourceIndex is the itinerary's position in the provider response. It
	// breaks ranking ties and lets a caller's prior selection survive a
	// re-evaluation.
	SourceIndex int `json:"sourceIndex"`
}

// TripQuery is one user search. Immutable once submitted.
type TripQuery struct {
	Origin            string
	Destination       string
	Intent            directions.TimeIntent
	LineFilter        string
	MaxWalkingMinutes float64

	// PriorSelection is the SourceIndex of the itinerary the caller had
	// selected before re-running the query, or -1 when there is none.
	// Selection state is caller-owned; the planner only preserves it.
	PriorSelection int
}

// TripPlan is the ranked outcome of one evaluation.
type TripPlan struct {
	Ranked       []ItinerarySummary `json:"ranked"`
	DefaultIndex int                `json:"defaultIndex"`
}
