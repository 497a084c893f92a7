// Package memory provides an in-process loadout store used by tests and by
// sessions that should not outlive the process.
package memory

import (
	"context"
	"sync"

	"github.com/cory-johannsen/ironclad/internal/game/loadout"
)

var _ loadout.Store = (*Store)(nil)

// Store holds at most one loadout Record in memory.
type Store struct {
	mu    sync.Mutex
	rec   loadout.Record
	found bool

	// LoadErr, when set, is returned by every Load call.
	LoadErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWith returns a Store pre-populated with rec.
//
// Postcondition: Load returns a copy of rec with found == true.
func NewStoreWith(rec loadout.Record) *Store {
	return &Store{rec: rec.Clone(), found: true}
}

// Load returns a copy of the held Record.
func (s *Store) Load(_ context.Context) (loadout.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return loadout.Record{}, false, s.LoadErr
	}
	if !s.found {
		return loadout.Record{}, false, nil
	}
	return s.rec.Clone(), true, nil
}

// Save replaces the held Record with a copy of rec.
func (s *Store) Save(_ context.Context, rec loadout.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec.Clone()
	s.found = true
	s.Saves++
	return nil
}

// Delete discards the held Record.
func (s *Store) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = loadout.Record{}
	s.found = false
	return nil
}
