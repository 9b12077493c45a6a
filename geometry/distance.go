package geometry

import "math"

const (
	earthRadiusKM = 6371.0
	pi180         = math.Pi / 180.0
)

// GreatCircleDistance returns the haversine distance between two points in
// kilometers.
func GreatCircleDistance(p, q LatLng) float64 {
	lat1 := p.Lat * pi180
	lat2 := q.Lat * pi180
	diffLat := (q.Lat - p.Lat) * pi180
	diffLng := (q.Lng - p.Lng) * pi180
	a := math.Sin(diffLat/2)*math.Sin(diffLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(diffLng/2)*math.Sin(diffLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// PathLengthKM returns the cumulative length of a point sequence in
// kilometers. Sequences with fewer than two points have zero length.
func PathLengthKM(points []LatLng) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += GreatCircleDistance(points[i-1], points[i])
	}
	return total
}
