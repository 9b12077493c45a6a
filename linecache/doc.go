// Package linecache maintains a local relational cache of the national
// transit feed so line shapes can be looked up by line number and drawn
// without repeated network calls.
//
// Population happens once (checked via Populated) from the GTFS static
// zip; afterwards the cache is read-only from the planner's perspective.
package linecache
