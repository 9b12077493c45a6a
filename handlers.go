package smartbus

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	geojson "github.com/paulmach/go.geojson"

	"github.com/smartbus-il/smartbus/directions"
	"github.com/smartbus-il/smartbus/geometry"
	"github.com/smartbus-il/smartbus/linecache"
	"github.com/smartbus-il/smartbus/overlay"
	"github.com/smartbus-il/smartbus/planner"
)

type rankedItinerary struct {
	planner.ItinerarySummary
	Overlay *geojson.FeatureCollection `json:"overlay"`
}

type tripPlanResponse struct {
	Ranked       []rankedItinerary `json:"ranked"`
	DefaultIndex int               `json:"defaultIndex"`
}

// handleTripPlan evaluates a trip query and returns the ranked itineraries
// with their overlay instructions.
//
// Query parameters: origin, destination (required); departAt or arriveBy
// (RFC3339, mutually exclusive, default "now"); line; maxWalkingMinutes;
// selected (SourceIndex of a previously chosen itinerary).
func (a *App) handleTripPlan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query, err := parseTripQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := a.evaluator.EvaluateTrip(r.Context(), query)
	if errors.Is(err, directions.ErrNoRouteFound) {
		writeError(w, http.StatusNotFound, "no route found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := tripPlanResponse{
		Ranked:       make([]rankedItinerary, 0, len(plan.Ranked)),
		DefaultIndex: plan.DefaultIndex,
	}
	for i, summary := range plan.Ranked {
		resp.Ranked = append(resp.Ranked, rankedItinerary{
			ItinerarySummary: summary,
			Overlay:          overlay.ToOverlay(summary, i == plan.DefaultIndex),
		})
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleLineShape serves the cached shape of a line as a GeoJSON feature
// collection.
func (a *App) handleLineShape(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if a.store == nil {
		writeError(w, http.StatusServiceUnavailable, "line cache not configured")
		return
	}
	shortName := mux.Vars(r)["shortName"]
	points, err := a.store.ShapeForLine(r.Context(), shortName)
	if errors.Is(err, linecache.ErrLineNotFound) {
		writeError(w, http.StatusNotFound, "line not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lng, p.Lat})
	}
	fc := geojson.NewFeatureCollection()
	f := geojson.NewLineStringFeature(coords)
	f.SetProperty("line", shortName)
	f.SetProperty("lengthKm", geometry.PathLengthKM(points))
	fc.AddFeature(f)
	_ = json.NewEncoder(w).Encode(fc)
}

// handleNearbyStations proxies the provider's nearby station lookup for map
// markers. Provider trouble yields an empty list, not an error page.
func (a *App) handleNearbyStations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius := 500
	if v := r.URL.Query().Get("radius"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			radius = parsed
		}
	}
	places, _ := a.provider.FindNearbyStations(r.Context(), geometry.LatLng{Lat: lat, Lng: lng}, radius)
	if places == nil {
		places = []directions.Place{}
	}
	_ = json.NewEncoder(w).Encode(places)
}

func parseTripQuery(r *http.Request) (planner.TripQuery, error) {
	q := r.URL.Query()
	query := planner.TripQuery{
		Origin:         q.Get("origin"),
		Destination:    q.Get("destination"),
		Intent:         directions.Now(),
		LineFilter:     q.Get("line"),
		PriorSelection: -1,
	}
	if query.Origin == "" || query.Destination == "" {
		return query, errors.New("origin and destination are required")
	}
	if v := q.Get("departAt"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return query, errors.New("departAt must be RFC3339")
		}
		query.Intent = directions.DepartAt(at)
	}
	if v := q.Get("arriveBy"); v != "" {
		if query.Intent.Kind != directions.IntentNow {
			return query, errors.New("departAt and arriveBy are mutually exclusive")
		}
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return query, errors.New("arriveBy must be RFC3339")
		}
		query.Intent = directions.ArriveBy(at)
	}
	if v := q.Get("maxWalkingMinutes"); v != "" {
		minutes, err := strconv.ParseFloat(v, 64)
		if err != nil || minutes < 0 {
			return query, errors.New("maxWalkingMinutes must be a non-negative number")
		}
		query.MaxWalkingMinutes = minutes
	}
	if v := q.Get("selected"); v != "" {
		selected, err := strconv.Atoi(v)
		if err != nil || selected < 0 {
			return query, errors.New("selected must be a non-negative integer")
		}
		query.PriorSelection = selected
	}
	return query, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
