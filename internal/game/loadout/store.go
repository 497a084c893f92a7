package loadout

import "context"

// Store persists a single loadout Record.
type Store interface {
	// Load returns the persisted Record; found is false when nothing has been saved.
	Load(ctx context.Context) (rec Record, found bool, err error)
	// Save replaces the persisted Record.
	Save(ctx context.Context, rec Record) error
	// Delete removes the persisted Record. Deleting when nothing is saved is not an error.
	Delete(ctx context.Context) error
}
