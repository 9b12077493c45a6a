package geometry

import "strings"

// polylineScale is the fixed-point scale of the encoded polyline format.
const polylineScale = 1e5

// DecodePolyline decodes a Google encoded polyline string into an ordered
// point sequence. The format is delta encoded: 5 bits per byte chunk,
// continuation bit 0x20, zig-zag sign encoding, fixed-point scale 1e5.
//
// Malformed or truncated input yields a nil slice rather than an error or
// panic; the result feeds map rendering, where an empty overlay is the
// acceptable degraded outcome.
func DecodePolyline(encoded string) []LatLng {
	if encoded == "" {
		return nil
	}
	var points []LatLng
	var lat, lng int64
	i := 0
	for i < len(encoded) {
		dLat, next, ok := decodeChunk(encoded, i)
		if !ok {
			return nil
		}
		dLng, after, ok := decodeChunk(encoded, next)
		if !ok {
			return nil
		}
		lat += dLat
		lng += dLng
		points = append(points, LatLng{
			Lat: float64(lat) / polylineScale,
			Lng: float64(lng) / polylineScale,
		})
		i = after
	}
	return points
}

// decodeChunk consumes one zig-zag encoded signed delta starting at index i.
func decodeChunk(encoded string, i int) (int64, int, bool) {
	var result int64
	var shift uint
	for {
		if i >= len(encoded) {
			return 0, 0, false
		}
		b := int64(encoded[i]) - 63
		if b < 0 {
			return 0, 0, false
		}
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i, true
	}
	return result >> 1, i, true
}

// EncodePolyline is the inverse of DecodePolyline. It is used to build
// fixtures and to verify decoded sequences round-trip to the coordinates
// the producer intended.
func EncodePolyline(points []LatLng) string {
	var sb strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(round(p.Lat * polylineScale))
		lng := int64(round(p.Lng * polylineScale))
		encodeChunk(&sb, lat-prevLat)
		encodeChunk(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeChunk(sb *strings.Builder, delta int64) {
	v := delta << 1
	if delta < 0 {
		v = ^v
	}
	for v >= 0x20 {
		sb.WriteByte(byte((0x20 | (v & 0x1f)) + 63))
		v >>= 5
	}
	sb.WriteByte(byte(v + 63))
}

func round(v float64) float64 {
	if v < 0 {
		return float64(int64(v - 0.5))
	}
	return float64(int64(v + 0.5))
}
