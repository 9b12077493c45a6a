package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/smartbus-il/smartbus/config"
	"github.com/smartbus-il/smartbus/geometry"
)

// Client talks to the mapping provider's HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	region     string
	httpClient *http.Client
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		region:   cfg.Region,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type directionsResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Routes       []RawItinerary `json:"routes"`
}

// GetItineraries requests transit itineraries with alternatives between two
// free-text or "lat,lng" endpoints. An empty result set or ZERO_RESULTS
// status maps to ErrNoRouteFound.
func (c *Client) GetItineraries(ctx context.Context, origin, destination string, intent TimeIntent) ([]RawItinerary, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", "transit")
	q.Set("transit_mode", "bus")
	q.Set("alternatives", "true")
	applyIntent(q, intent)

	var resp directionsResponse
	if err := c.getJSON(ctx, "/directions/json", q, &resp); err != nil {
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoRouteFound
	default:
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "status %s: %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoRouteFound
	}
	return resp.Routes, nil
}

// GetDrivingEstimate issues a driving-mode query between two stop
// coordinates anchored at the given departure instant. Callers treat any
// returned error as "no data" and substitute a zero-delay default.
func (c *Client) GetDrivingEstimate(ctx context.Context, from, to geometry.LatLng, at time.Time) (DrivingEstimate, error) {
	q := url.Values{}
	q.Set("origin", from.String())
	q.Set("destination", to.String())
	q.Set("mode", "driving")
	q.Set("departure_time", strconv.FormatInt(at.Unix(), 10))

	var resp directionsResponse
	if err := c.getJSON(ctx, "/directions/json", q, &resp); err != nil {
		return DrivingEstimate{}, err
	}
	if resp.Status != "OK" || len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return DrivingEstimate{}, errors.Errorf("no driving estimate: status %s", resp.Status)
	}
	leg := resp.Routes[0].Legs[0]
	est := DrivingEstimate{
		NormalDuration:  time.Duration(leg.Duration.Value) * time.Second,
		TrafficDuration: time.Duration(leg.Duration.Value) * time.Second,
	}
	if leg.DurationInTraffic != nil {
		est.TrafficDuration = time.Duration(leg.DurationInTraffic.Value) * time.Second
	}
	return est, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location geometry.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeAddress resolves free text to a coordinate.
func (c *Client) GeocodeAddress(ctx context.Context, text string) (geometry.LatLng, error) {
	q := url.Values{}
	q.Set("address", text)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/geocode/json", q, &resp); err != nil {
		return geometry.LatLng{}, err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return geometry.LatLng{}, errors.Errorf("geocode failed: status %s", resp.Status)
	}
	return resp.Results[0].Geometry.Location, nil
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location geometry.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// FindNearbyStations looks up bus stations around a coordinate. Results are
// display enrichment only; failures yield an empty list, not an error the
// caller must handle.
func (c *Client) FindNearbyStations(ctx context.Context, at geometry.LatLng, radiusMeters int) ([]Place, error) {
	q := url.Values{}
	q.Set("location", at.String())
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("type", "bus_station")

	var resp nearbyResponse
	if err := c.getJSON(ctx, "/place/nearbysearch/json", q, &resp); err != nil {
		return nil, nil
	}
	if resp.Status != "OK" {
		return nil, nil
	}
	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, Place{
			Name:     r.Name,
			Location: r.Geometry.Location,
			Vicinity: r.Vicinity,
		})
	}
	return places, nil
}

func applyIntent(q url.Values, intent TimeIntent) {
	switch intent.Kind {
	case IntentDepartAt:
		q.Set("departure_time", strconv.FormatInt(intent.At.Unix(), 10))
	case IntentArriveBy:
		q.Set("arrival_time", strconv.FormatInt(intent.At.Unix(), 10))
	default:
		q.Set("departure_time", "now")
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("language", c.language)
	q.Set("region", c.region)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "malformed response from %s", path)
	}
	return nil
}
