package linecache

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeFeedZip builds a minimal GTFS static zip with two lines. Line 18 has
// two shape variants, one longer than the other; line 480 has one shape.
func writeFeedZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	files := map[string]string{
		"routes.txt": "route_id,agency_id,route_short_name,route_long_name\n" +
			"r18,1,18,Central - University\n" +
			"r480,1,480,Jerusalem - Tel Aviv\n" +
			"rNoName,1,,Unnamed\n",
		"trips.txt": "route_id,service_id,trip_id,shape_id\n" +
			"r18,wk,t18a,s18short\n" +
			"r18,wk,t18b,s18long\n" +
			"r480,wk,t480,s480\n" +
			"rNoName,wk,tNoName,sNoName\n",
		// s18long spans roughly twice the latitude extent of s18short.
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"s18short,32.10,34.80,0\n" +
			"s18short,32.11,34.80,1\n" +
			"s18long,32.12,34.80,2\n" +
			"s18long,32.10,34.80,0\n" +
			"s18long,32.11,34.80,1\n" +
			"s480,31.78,35.22,0\n" +
			"s480,32.05,34.78,1\n" +
			"sNoName,32.00,34.80,0\n" +
			"sNoName,32.01,34.80,1\n",
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func TestLoadFeedZip(t *testing.T) {
	feed, err := LoadFeedZip(writeFeedZip(t))
	if err != nil {
		t.Fatalf("LoadFeedZip failed: %v", err)
	}
	if feed.RouteShortNames["r18"] != "18" || feed.RouteShortNames["r480"] != "480" {
		t.Errorf("unexpected route short names: %v", feed.RouteShortNames)
	}
	if feed.TripShapeIDs["t18b"] != "s18long" {
		t.Errorf("expected trip t18b to map to s18long, got %q", feed.TripShapeIDs["t18b"])
	}
	pts := feed.ShapePoints["s18long"]
	if len(pts) != 3 {
		t.Fatalf("expected 3 points for s18long, got %d", len(pts))
	}
	// Rows arrive out of sequence order in the fixture.
	if pts[0].Lat != 32.10 || pts[1].Lat != 32.11 || pts[2].Lat != 32.12 {
		t.Errorf("shape points not ordered by sequence: %v", pts)
	}
}

func TestRepresentativeShapes_PicksLongest(t *testing.T) {
	feed, err := LoadFeedZip(writeFeedZip(t))
	if err != nil {
		t.Fatalf("LoadFeedZip failed: %v", err)
	}
	byLine := feed.representativeShapes()
	ls, ok := byLine["18"]
	if !ok {
		t.Fatal("line 18 missing from representative shapes")
	}
	if ls.ShapeID != "s18long" {
		t.Errorf("expected longest shape s18long for line 18, got %s", ls.ShapeID)
	}
	if _, ok := byLine[""]; ok {
		t.Error("routes without a short name should be skipped")
	}
}

func TestStorePopulateAndLookup(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "lines.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	populated, err := store.Populated(ctx)
	if err != nil {
		t.Fatalf("Populated failed: %v", err)
	}
	if populated {
		t.Error("fresh store should not be populated")
	}

	feed, err := LoadFeedZip(writeFeedZip(t))
	if err != nil {
		t.Fatalf("LoadFeedZip failed: %v", err)
	}
	if err := store.Populate(ctx, feed); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	populated, err = store.Populated(ctx)
	if err != nil {
		t.Fatalf("Populated failed: %v", err)
	}
	if !populated {
		t.Error("store should be populated after Populate")
	}

	pts, err := store.ShapeForLine(ctx, "18")
	if err != nil {
		t.Fatalf("ShapeForLine failed: %v", err)
	}
	if len(pts) != 3 {
		t.Fatalf("expected 3 points for line 18, got %d", len(pts))
	}
	if pts[0].Lat != 32.10 || pts[2].Lat != 32.12 {
		t.Errorf("cached points out of order: %v", pts)
	}

	if _, err := store.ShapeForLine(ctx, "999"); err != ErrLineNotFound {
		t.Errorf("expected ErrLineNotFound for unknown line, got %v", err)
	}

	names, err := store.Lines(ctx)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(names) != 2 || names[0] != "18" || names[1] != "480" {
		t.Errorf("unexpected cached line names: %v", names)
	}
}

// writeRaggedFeedZip builds a feed whose files carry short and unparseable
// rows alongside valid ones.
func writeRaggedFeedZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ragged.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)

	files := map[string]string{
		"routes.txt": "route_id,agency_id,route_short_name\n" +
			"r18\n" + // short row, no short-name column
			"r480,1,480\n",
		"trips.txt": "route_id,service_id,trip_id,shape_id\n" +
			"r480\n" + // short row, no trip id
			"r480,wk,t480,s480\n",
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"s480,31.78\n" + // short row
			"s480,not-a-number,35.22,0\n" + // unparseable latitude
			"s480,31.78,35.22,abc\n" + // unparseable sequence
			"s480,31.78,35.22,0\n" +
			"s480,32.05,34.78,1\n",
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func TestLoadFeedZip_SkipsMalformedRows(t *testing.T) {
	feed, err := LoadFeedZip(writeRaggedFeedZip(t))
	if err != nil {
		t.Fatalf("LoadFeedZip should survive malformed rows: %v", err)
	}
	if _, ok := feed.RouteShortNames["r18"]; ok {
		t.Error("short route row should be skipped")
	}
	if feed.RouteShortNames["r480"] != "480" {
		t.Errorf("valid route row lost, got %v", feed.RouteShortNames)
	}
	if len(feed.TripRoutes) != 1 || feed.TripRoutes["t480"] != "r480" {
		t.Errorf("expected only the valid trip row, got %v", feed.TripRoutes)
	}
	pts := feed.ShapePoints["s480"]
	if len(pts) != 2 {
		t.Fatalf("expected 2 valid shape points, got %d: %v", len(pts), pts)
	}
	for _, p := range pts {
		if p.IsZero() {
			t.Errorf("unparseable shape row leaked a zero point: %v", pts)
		}
	}
}

func TestLoadFeedZip_MissingFile(t *testing.T) {
	if _, err := LoadFeedZip(filepath.Join(t.TempDir(), "absent.zip")); err == nil {
		t.Error("loading a missing zip should fail")
	}
}
