package linecache

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/smartbus-il/smartbus/geometry"
)

// ErrLineNotFound reports that a line short name has no cached shape.
var ErrLineNotFound = errors.New("line not found in cache")

// Store is the sqlite-backed line shape cache.
type Store struct {
	db *sql.DB
}

type lineShape struct {
	ShortName string
	RouteID   string
	ShapeID   string
	LengthKM  float64
}

const schema = `
CREATE TABLE IF NOT EXISTS lines (
	short_name TEXT PRIMARY KEY,
	route_id   TEXT NOT NULL,
	shape_id   TEXT NOT NULL,
	length_km  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS shape_points (
	shape_id TEXT    NOT NULL,
	seq      INTEGER NOT NULL,
	lat      REAL    NOT NULL,
	lng      REAL    NOT NULL,
	PRIMARY KEY (shape_id, seq)
);
`

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache db %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create cache schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Populated reports whether the cache already holds line data. Population
// is once-only; callers check this before re-ingesting the feed.
func (s *Store) Populated(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lines`).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Populate bulk-loads the feed's representative line shapes. All inserts
// run in one transaction with prepared statements.
func (s *Store) Populate(ctx context.Context, feed *Feed) error {
	byLine := feed.representativeShapes()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	lineStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO lines (short_name, route_id, shape_id, length_km) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare line statement")
	}
	defer lineStmt.Close()

	pointStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO shape_points (shape_id, seq, lat, lng) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare shape statement")
	}
	defer pointStmt.Close()

	for _, ls := range byLine {
		if _, err := lineStmt.ExecContext(ctx, ls.ShortName, ls.RouteID, ls.ShapeID, ls.LengthKM); err != nil {
			return errors.Wrapf(err, "failed to insert line %s", ls.ShortName)
		}
		for seq, p := range feed.ShapePoints[ls.ShapeID] {
			if _, err := pointStmt.ExecContext(ctx, ls.ShapeID, seq, p.Lat, p.Lng); err != nil {
				return errors.Wrapf(err, "failed to insert shape point for line %s", ls.ShortName)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit cache population")
	}
	return nil
}

// ShapeForLine returns the cached representative shape of a line, ordered
// along the route.
func (s *Store) ShapeForLine(ctx context.Context, shortName string) ([]geometry.LatLng, error) {
	var shapeID string
	err := s.db.QueryRowContext(ctx, `SELECT shape_id FROM lines WHERE short_name = ?`, shortName).Scan(&shapeID)
	if err == sql.ErrNoRows {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT lat, lng FROM shape_points WHERE shape_id = ? ORDER BY seq`, shapeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []geometry.LatLng
	for rows.Next() {
		var p geometry.LatLng
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Lines returns the cached line short names, for diagnostics.
func (s *Store) Lines(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT short_name FROM lines ORDER BY short_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
