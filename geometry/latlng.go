package geometry

import "fmt"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns the "lat,lng" form accepted by the directions provider.
func (p LatLng) String() string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// IsZero reports whether the coordinate is the unset zero value.
func (p LatLng) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
