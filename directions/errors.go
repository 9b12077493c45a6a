package directions

import "github.com/pkg/errors"

// ErrNoRouteFound reports that the provider returned no itinerary between
// the requested origin and destination. It is the only provider failure the
// planner surfaces to the user.
var ErrNoRouteFound = errors.New("no route found")

// ErrUpstreamUnavailable reports that the itinerary query itself failed
// (transport error, non-OK status, malformed body).
var ErrUpstreamUnavailable = errors.New("directions provider unavailable")
