// Package storage opens the loadout persistence backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/ironclad/internal/config"
	"github.com/cory-johannsen/ironclad/internal/game/loadout"
	"github.com/cory-johannsen/ironclad/internal/storage/memory"
	"github.com/cory-johannsen/ironclad/internal/storage/postgres"
	"github.com/cory-johannsen/ironclad/internal/storage/sqlite"
)

// Backend holds the loadouts of every save profile.
type Backend interface {
	// ForProfile returns the store holding one profile's loadout.
	ForProfile(profile uuid.UUID) loadout.Store
	// Profiles lists the profiles that have a saved loadout.
	Profiles(ctx context.Context) ([]uuid.UUID, error)
	// Health reports whether the backend can currently serve loads and saves.
	Health(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}

// healthTimeout bounds a postgres health ping.
const healthTimeout = 5 * time.Second

// Open opens the backend named by cfg.Driver.
//
// Precondition: cfg must have passed config.Validate; db is only read for the postgres driver.
// Postcondition: Returns an open Backend or a non-nil error.
func Open(ctx context.Context, cfg config.StorageConfig, db config.DatabaseConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	case config.DriverSQLite:
		d, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("storage: Open: %w", err)
		}
		return d, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("storage: Open: %w", err)
		}
		return &postgresBackend{pool: pool, repo: pool.Loadouts()}, nil
	default:
		return nil, fmt.Errorf("storage: Open: unknown driver %q", cfg.Driver)
	}
}

type postgresBackend struct {
	pool *postgres.Pool
	repo *postgres.LoadoutRepository
}

func (b *postgresBackend) ForProfile(profile uuid.UUID) loadout.Store {
	return b.repo.ForProfile(profile)
}

func (b *postgresBackend) Profiles(ctx context.Context) ([]uuid.UUID, error) {
	return b.repo.ListProfiles(ctx)
}

func (b *postgresBackend) Health(ctx context.Context) error {
	return b.pool.Health(ctx, healthTimeout)
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}

// MemoryBackend keeps one memory.Store per profile for the life of the process.
type MemoryBackend struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*memory.Store
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{stores: make(map[uuid.UUID]*memory.Store)}
}

// ForProfile returns the profile's store, creating it on first use.
func (b *MemoryBackend) ForProfile(profile uuid.UUID) loadout.Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.stores[profile]
	if !ok {
		s = memory.NewStore()
		b.stores[profile] = s
	}
	return s
}

// Profiles lists the profiles whose store currently holds a loadout.
func (b *MemoryBackend) Profiles(ctx context.Context) ([]uuid.UUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []uuid.UUID
	for id, s := range b.stores {
		_, found, err := s.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: MemoryBackend.Profiles: %w", err)
		}
		if found {
			out = append(out, id)
		}
	}
	return out, nil
}

// Health implements Backend; a memory backend is always available.
func (b *MemoryBackend) Health(context.Context) error { return nil }

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }
