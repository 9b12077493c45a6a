// Package planner is the route-option evaluation engine. It decomposes raw
// itineraries from the directions provider into walking and transit
// segments, scores each transit segment's expected traffic delay via a
// secondary driving query, aggregates per-itinerary summaries, and ranks
// the alternatives fastest first.
//
// The pipeline is stateless per call: one EvaluateTrip invocation owns its
// intermediate values and nothing is shared across queries. Every fault
// below a failed itinerary query is absorbed locally with a safe default,
// so a bad segment never invalidates a whole result set.
package planner
