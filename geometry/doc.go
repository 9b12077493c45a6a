// Package geometry provides coordinate types, the encoded-polyline codec
// used by the directions provider, and great-circle distance helpers.
package geometry
