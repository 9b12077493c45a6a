// Package directions is the client for the external mapping provider: transit
// itineraries with alternatives, secondary driving estimates used for traffic
// delay scoring, geocoding, and nearby station lookup.
//
// Only GetItineraries surfaces errors to callers. GetDrivingEstimate reports
// failures so the planner can substitute its fail-open default, and the
// enrichment lookups return empty results on upstream trouble.
package directions
