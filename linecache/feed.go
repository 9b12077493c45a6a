package linecache

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/smartbus-il/smartbus/geometry"
)

// Feed holds the slices of the GTFS static feed the cache needs: route
// identities, trip-to-shape links, and shape geometries.
type Feed struct {
	RouteShortNames map[string]string            // route_id -> short name
	TripRoutes      map[string]string            // trip_id -> route_id
	TripShapeIDs    map[string]string            // trip_id -> shape_id
	ShapePoints     map[string][]geometry.LatLng // shape_id -> ordered points
}

func newFeed() *Feed {
	return &Feed{
		RouteShortNames: map[string]string{},
		TripRoutes:      map[string]string{},
		TripShapeIDs:    map[string]string{},
		ShapePoints:     map[string][]geometry.LatLng{},
	}
}

// LoadFeedZip reads routes, trips, and shapes from a local GTFS zip.
// Malformed rows (short, or with unparseable numbers) are skipped; one bad
// row must not abort ingesting a multi-million-row national feed.
func LoadFeedZip(path string) (*Feed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open feed zip %s", path)
	}
	defer zr.Close()

	feed := newFeed()
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if name == "routes.txt" || name == "trips.txt" || name == "shapes.txt" {
			if err := feed.consumeCSV(f); err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", f.Name)
			}
		}
	}
	return feed, nil
}

// FetchFeed downloads the GTFS static zip to a temp file and loads it.
func FetchFeed(url string) (*Feed, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch feed from %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP %d fetching feed from %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp("", "gtfs-*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return LoadFeedZip(tmp.Name())
}

type shapeRow struct {
	seq   int
	point geometry.LatLng
}

func (feed *Feed) consumeCSV(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}

	switch strings.ToLower(f.Name) {
	case "routes.txt":
		rID := idx("route_id")
		rSN := idx("route_short_name")
		if rID < 0 || rSN < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			if rID >= len(row) || rSN >= len(row) {
				continue
			}
			feed.RouteShortNames[row[rID]] = row[rSN]
		}
	case "trips.txt":
		rID := idx("route_id")
		tID := idx("trip_id")
		sh := idx("shape_id")
		if rID < 0 || tID < 0 {
			return nil
		}
		for _, row := range rec[1:] {
			if rID >= len(row) || tID >= len(row) {
				continue
			}
			feed.TripRoutes[row[tID]] = row[rID]
			if sh >= 0 && sh < len(row) {
				feed.TripShapeIDs[row[tID]] = row[sh]
			}
		}
	case "shapes.txt":
		sID := idx("shape_id")
		sLat := idx("shape_pt_lat")
		sLon := idx("shape_pt_lon")
		sq := idx("shape_pt_sequence")
		if sID < 0 || sLat < 0 || sLon < 0 || sq < 0 {
			return nil
		}
		tmp := map[string][]shapeRow{}
		for _, row := range rec[1:] {
			if sID >= len(row) || sLat >= len(row) || sLon >= len(row) || sq >= len(row) {
				continue
			}
			lat, errLat := strconv.ParseFloat(row[sLat], 64)
			lon, errLon := strconv.ParseFloat(row[sLon], 64)
			seq, errSeq := strconv.Atoi(row[sq])
			if errLat != nil || errLon != nil || errSeq != nil {
				continue
			}
			tmp[row[sID]] = append(tmp[row[sID]], shapeRow{seq: seq, point: geometry.LatLng{Lat: lat, Lng: lon}})
		}
		for shapeID, rows := range tmp {
			sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
			pts := make([]geometry.LatLng, 0, len(rows))
			for _, r := range rows {
				pts = append(pts, r.point)
			}
			feed.ShapePoints[shapeID] = pts
		}
	}
	return nil
}

// representativeShapes picks, per line short name, the longest shape among
// the line's trips. Lines typically have several directional and pattern
// variants; the longest covers the fullest extent for drawing.
func (feed *Feed) representativeShapes() map[string]lineShape {
	byLine := map[string]lineShape{}
	for tripID, routeID := range feed.TripRoutes {
		shortName := feed.RouteShortNames[routeID]
		if shortName == "" {
			continue
		}
		shapeID := feed.TripShapeIDs[tripID]
		pts := feed.ShapePoints[shapeID]
		if len(pts) < 2 {
			continue
		}
		lengthKM := geometry.PathLengthKM(pts)
		if cur, ok := byLine[shortName]; !ok || lengthKM > cur.LengthKM {
			byLine[shortName] = lineShape{
				ShortName: shortName,
				RouteID:   routeID,
				ShapeID:   shapeID,
				LengthKM:  lengthKM,
			}
		}
	}
	return byLine
}
