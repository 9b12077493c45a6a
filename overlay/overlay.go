// Package overlay converts evaluated itineraries into map-overlay
// instructions for the rendering layer. It is a fixed style table: colors
// follow the delay severity computed upstream and are never re-derived
// here.
package overlay

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/smartbus-il/smartbus/geometry"
	"github.com/smartbus-il/smartbus/planner"
)

// Style describes how one segment is drawn.
type Style struct {
	Color     string  `json:"color"`
	Weight    int     `json:"weight"`
	Opacity   float64 `json:"opacity"`
	DashArray string  `json:"dashArray,omitempty"`
}

const (
	colorWalking        = "#3388ff"
	colorSeverityLow    = "#2e8b57"
	colorSeverityMedium = "#ff8c00"
	colorSeverityHigh   = "#d22b2b"
)

// ForSegment returns the drawing style for a segment. Non-highlighted
// alternatives use the same hues at lower opacity and weight so the
// selected itinerary stays visually dominant.
func ForSegment(seg planner.Segment, highlighted bool) Style {
	if seg.Mode == planner.ModeWalking {
		s := Style{Color: colorWalking, Weight: 3, Opacity: 0.5, DashArray: "5, 10"}
		if !highlighted {
			s.Opacity = 0.25
		}
		return s
	}

	s := Style{Color: colorSeverityLow, Weight: 6, Opacity: 0.8}
	if seg.Delay != nil {
		switch seg.Delay.Severity {
		case planner.SeverityMedium:
			s.Color = colorSeverityMedium
		case planner.SeverityHigh:
			s.Color = colorSeverityHigh
		}
	}
	if !highlighted {
		s.Weight = 4
		s.Opacity = 0.35
	}
	return s
}

// ToOverlay renders one itinerary as a GeoJSON feature collection, one
// LineString feature per segment, styled per the severity table. Segments
// whose geometry failed to decode come through with empty coordinates so
// the rest of the itinerary still draws.
func ToOverlay(summary planner.ItinerarySummary, highlighted bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, seg := range summary.Segments {
		f := geojson.NewLineStringFeature(lineCoordinates(seg.Points))
		style := ForSegment(seg, highlighted)
		f.SetProperty("mode", seg.Mode.String())
		f.SetProperty("color", style.Color)
		f.SetProperty("weight", style.Weight)
		f.SetProperty("opacity", style.Opacity)
		if style.DashArray != "" {
			f.SetProperty("dashArray", style.DashArray)
		}
		f.SetProperty("tooltip", tooltip(seg))
		fc.AddFeature(f)
	}
	return fc
}

// lineCoordinates converts points to GeoJSON [lng, lat] order.
func lineCoordinates(points []geometry.LatLng) [][]float64 {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lng, p.Lat})
	}
	return coords
}

func tooltip(seg planner.Segment) string {
	if seg.Mode == planner.ModeWalking {
		return fmt.Sprintf("🚶 %d min", seg.DurationSeconds/60)
	}
	label := "🚌 " + seg.Line
	if seg.Headsign != "" {
		label += " → " + seg.Headsign
	}
	if seg.Delay != nil && seg.Delay.DelayMinutes > 0 {
		label += fmt.Sprintf(" (+%.0f min traffic)", seg.Delay.DelayMinutes)
	}
	return label
}
