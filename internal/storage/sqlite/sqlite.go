// Package sqlite persists loadouts in a local single-file SQLite database, one row per
// save profile.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// DB wraps a SQLite database holding the loadouts table.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path and brings its schema
// up to date.
//
// Precondition: path must be non-empty.
// Postcondition: Returns an open DB or a non-nil error.
func Open(path string) (*DB, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: Open: missing database path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite: Open: %w", err)
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("sqlite: Open: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: Open: %w", err)
	}

	// Single-process local database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &DB{db: db}, nil
}

// Health checks that the database file is still reachable.
func (d *DB) Health(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: Health: %w", err)
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Load returns the loadout saved for profile.
//
// Postcondition: found is false with a nil error when the profile has no saved loadout.
func (d *DB) Load(ctx context.Context, profile uuid.UUID) (rec loadout.Record, found bool, err error) {
	var data string
	err = d.db.QueryRowContext(ctx,
		`SELECT data FROM loadouts WHERE profile_id = ?`, profile.String(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return loadout.Record{}, false, nil
	}
	if err != nil {
		return loadout.Record{}, false, fmt.Errorf("sqlite: DB.Load(%s): %w", profile, err)
	}
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return loadout.Record{}, false, fmt.Errorf("sqlite: DB.Load(%s): decoding: %w", profile, err)
	}
	return rec, true, nil
}

// Save writes rec as the loadout of profile, replacing any earlier one.
//
// Postcondition: a subsequent Load for profile returns rec.
func (d *DB) Save(ctx context.Context, profile uuid.UUID, rec loadout.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sqlite: DB.Save(%s): encoding: %w", profile, err)
	}
	_, err = d.db.ExecContext(ctx, `
INSERT INTO loadouts(profile_id, data, updated_at_unix_ms) VALUES(?, ?, ?)
ON CONFLICT(profile_id) DO UPDATE SET data = excluded.data, updated_at_unix_ms = excluded.updated_at_unix_ms
`, profile.String(), string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite: DB.Save(%s): %w", profile, err)
	}
	return nil
}

// Delete removes the loadout of profile. Deleting a profile with no loadout is not an error.
func (d *DB) Delete(ctx context.Context, profile uuid.UUID) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM loadouts WHERE profile_id = ?`, profile.String()); err != nil {
		return fmt.Errorf("sqlite: DB.Delete(%s): %w", profile, err)
	}
	return nil
}

// Profiles lists every profile with a saved loadout, most recently saved first.
func (d *DB) Profiles(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT profile_id FROM loadouts ORDER BY updated_at_unix_ms DESC, profile_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: DB.Profiles: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("sqlite: DB.Profiles: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("sqlite: DB.Profiles: profile_id %q: %w", raw, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ForProfile returns a loadout.Store bound to one profile of d.
func (d *DB) ForProfile(profile uuid.UUID) loadout.Store {
	return &ProfileStore{db: d, profile: profile}
}

var _ loadout.Store = (*ProfileStore)(nil)

// ProfileStore adapts DB to loadout.Store for a single profile.
type ProfileStore struct {
	db      *DB
	profile uuid.UUID
}

// Load implements loadout.Store.
func (s *ProfileStore) Load(ctx context.Context) (loadout.Record, bool, error) {
	return s.db.Load(ctx, s.profile)
}

// Save implements loadout.Store.
func (s *ProfileStore) Save(ctx context.Context, rec loadout.Record) error {
	return s.db.Save(ctx, s.profile, rec)
}

// Delete implements loadout.Store.
func (s *ProfileStore) Delete(ctx context.Context) error {
	return s.db.Delete(ctx, s.profile)
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}
	return migrateSchema(db)
}

// schemaVersion is stored in PRAGMA user_version.
//   - 1: loadouts table
const schemaVersion = 1

func migrateSchema(db *sql.DB) error {
	var v int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("pragma user_version: %w", err)
	}
	if v >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS loadouts (
  profile_id TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);
`); err != nil {
		return fmt.Errorf("create loadouts: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version=%d;`, schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return tx.Commit()
}
