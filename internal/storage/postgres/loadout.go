package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

// ErrProfileNotFound is returned when a profile has no saved loadout.
var ErrProfileNotFound = errors.New("profile not found")

// SavedLoadout is one row of the loadouts table.
type SavedLoadout struct {
	ProfileID uuid.UUID
	Record    loadout.Record
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoadoutRepository provides loadout persistence operations.
type LoadoutRepository struct {
	db *pgxpool.Pool
}

// NewLoadoutRepository creates a LoadoutRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLoadoutRepository(db *pgxpool.Pool) *LoadoutRepository {
	return &LoadoutRepository{db: db}
}

// Get retrieves the saved loadout of a profile.
//
// Postcondition: Returns the SavedLoadout or ErrProfileNotFound.
func (r *LoadoutRepository) Get(ctx context.Context, profile uuid.UUID) (*SavedLoadout, error) {
	var (
		s    SavedLoadout
		id   string
		data []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT profile_id::text, data, created_at, updated_at
		FROM loadouts WHERE profile_id = $1::uuid`,
		profile.String(),
	).Scan(&id, &data, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying loadout: %w", err)
	}
	if s.ProfileID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing profile id %q: %w", id, err)
	}
	if err := json.Unmarshal(data, &s.Record); err != nil {
		return nil, fmt.Errorf("decoding loadout of profile %s: %w", profile, err)
	}
	return &s, nil
}

// Upsert stores rec as the loadout of profile, replacing any earlier one.
//
// Postcondition: Returns nil on success; a subsequent Get returns rec.
func (r *LoadoutRepository) Upsert(ctx context.Context, profile uuid.UUID, rec loadout.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding loadout: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO loadouts (profile_id, data)
		VALUES ($1::uuid, $2)
		ON CONFLICT (profile_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		profile.String(), data,
	)
	if err != nil {
		return fmt.Errorf("saving loadout: %w", err)
	}
	return nil
}

// Delete removes the loadout of profile.
//
// Postcondition: Returns nil on success, ErrProfileNotFound if no row was deleted.
func (r *LoadoutRepository) Delete(ctx context.Context, profile uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM loadouts WHERE profile_id = $1::uuid`, profile.String())
	if err != nil {
		return fmt.Errorf("deleting loadout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListProfiles returns every profile with a saved loadout, most recently updated first.
func (r *LoadoutRepository) ListProfiles(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT profile_id::text FROM loadouts ORDER BY updated_at DESC, profile_id`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]uuid.UUID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing profile id %q: %w", raw, err)
		}
		profiles = append(profiles, id)
	}
	return profiles, rows.Err()
}

// ForProfile returns a loadout.Store bound to one profile.
func (r *LoadoutRepository) ForProfile(profile uuid.UUID) *ProfileStore {
	return &ProfileStore{repo: r, profile: profile}
}

var _ loadout.Store = (*ProfileStore)(nil)

// ProfileStore adapts LoadoutRepository to loadout.Store for a single profile.
// A missing row is reported as "not found" by Load and ignored by Delete.
type ProfileStore struct {
	repo    *LoadoutRepository
	profile uuid.UUID
}

// Load implements loadout.Store.
func (s *ProfileStore) Load(ctx context.Context) (loadout.Record, bool, error) {
	saved, err := s.repo.Get(ctx, s.profile)
	if errors.Is(err, ErrProfileNotFound) {
		return loadout.Record{}, false, nil
	}
	if err != nil {
		return loadout.Record{}, false, err
	}
	return saved.Record, true, nil
}

// Save implements loadout.Store.
func (s *ProfileStore) Save(ctx context.Context, rec loadout.Record) error {
	return s.repo.Upsert(ctx, s.profile, rec)
}

// Delete implements loadout.Store.
func (s *ProfileStore) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.profile); err != nil && !errors.Is(err, ErrProfileNotFound) {
		return err
	}
	return nil
}
