// Package store persists quantity values in SQLite using their three-field
// representation: raw input, unit id and base value.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/rshade/unitfield/internal/quantity"
	"github.com/rshade/unitfield/internal/units"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrNotFound is returned when no record has the requested id.
const ErrNotFound = constError("record not found")

// staleTolerance is the relative difference above which a stored base value
// is reported as stale against the current catalog.
const staleTolerance = 1e-9

// schema is executed on every open.
const schema = `
CREATE TABLE IF NOT EXISTS quantities (
    id         TEXT PRIMARY KEY,
    field      TEXT NOT NULL DEFAULT '',
    catalog    TEXT NOT NULL,
    input      REAL,
    unit       TEXT NOT NULL,
    base       REAL NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS quantities_catalog_base ON quantities (catalog, base);
`

const selectColumns = `SELECT id, field, catalog, input, unit, base, updated_at FROM quantities`

// Record is a stored quantity value.
type Record struct {
	// ID is a ULID assigned on first save.
	ID string

	// Field names what the value measures, e.g. "width".
	Field string

	Value     *quantity.Value
	UpdatedAt time.Time
}

// Store is a SQLite-backed record store.
type Store struct {
	db       *sql.DB
	registry *units.Registry
	now      func() time.Time
}

// Open opens (or creates) the database at path. Records are restored
// against the catalogs of reg.
func Open(ctx context.Context, path string, reg *units.Registry) (*Store, error) {
	if reg == nil {
		return nil, fmt.Errorf("store: %w: nil registry", units.ErrConfiguration)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db, registry: reg, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, or updates it when rec.ID is already set. A missing ID
// is assigned. The stored base value is the one the value last recomputed.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Value == nil {
		return errors.New("store: save: record has no value")
	}
	c := rec.Value.Catalog()
	if c == nil {
		return fmt.Errorf("store: save: %w: value has no catalog", units.ErrConfiguration)
	}
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	fields := rec.Value.Fields()
	var input sql.NullFloat64
	if fields.Input != nil {
		input = sql.NullFloat64{Float64: *fields.Input, Valid: true}
	}
	updated := s.now().UTC()

	const q = `
		INSERT INTO quantities (id, field, catalog, input, unit, base, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			field      = excluded.field,
			catalog    = excluded.catalog,
			input      = excluded.input,
			unit       = excluded.unit,
			base       = excluded.base,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, q, rec.ID, rec.Field, c.Name(), input,
		fields.Unit, fields.Base, updated.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("store: save %s: %w", rec.ID, err)
	}

	rec.UpdatedAt = updated
	log.Debug().
		Str("id", rec.ID).
		Str("catalog", c.Name()).
		Str("unit", fields.Unit).
		Float64("base", fields.Base).
		Msg("record saved")
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return rec, nil
}

// List returns the records of a catalog in insertion order. An empty
// catalog name lists every record.
func (s *Store) List(ctx context.Context, catalog string) ([]*Record, error) {
	if catalog == "" {
		return s.query(ctx, selectColumns+` ORDER BY id`)
	}
	return s.query(ctx, selectColumns+` WHERE catalog = ? ORDER BY id`, catalog)
}

// Range returns the records of a catalog whose stored base value lies in
// [lo, hi], ordered by base value. Values in different units compare
// through their base value.
func (s *Store) Range(ctx context.Context, catalog string, lo, hi float64) ([]*Record, error) {
	if lo > hi {
		return nil, fmt.Errorf("store: range: lower bound %g exceeds upper bound %g", lo, hi)
	}
	return s.query(ctx,
		selectColumns+` WHERE catalog = ? AND base BETWEEN ? AND ? ORDER BY base, id`,
		catalog, lo, hi)
}

// Delete removes the record with the given id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quantities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("store: delete %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (*Record, error) {
	var (
		rec         Record
		catalogName string
		input       sql.NullFloat64
		unitID      string
		base        float64
		updated     string
	)
	if err := row.Scan(&rec.ID, &rec.Field, &catalogName, &input, &unitID, &base, &updated); err != nil {
		return nil, err
	}

	c, ok := s.registry.Get(catalogName)
	if !ok {
		return nil, fmt.Errorf("%w: record %s references unknown catalog %q",
			units.ErrConfiguration, rec.ID, catalogName)
	}

	var in *float64
	if input.Valid {
		in = &input.Float64
	}
	rec.Value = quantity.Restore(c, in, unitID)
	if stale(base, rec.Value.BaseValue()) {
		log.Debug().
			Str("id", rec.ID).
			Float64("stored", base).
			Float64("recomputed", rec.Value.BaseValue()).
			Msg("stored base value differs from current catalog")
	}

	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at of %s: %w", rec.ID, err)
	}
	rec.UpdatedAt = t
	return &rec, nil
}

func stale(stored, recomputed float64) bool {
	diff := math.Abs(stored - recomputed)
	return diff > staleTolerance*math.Max(1, math.Abs(recomputed))
}
