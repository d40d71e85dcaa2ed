package pipeline

import (
	"context"
	"fmt"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
)

// Store persists recording records. Implementations must apply Update
// mutations atomically per record so concurrent operations on the same
// recording serialize instead of clobbering each other.
type Store interface {
	// Create inserts a new record. It fails when the id or stored
	// filename is already taken.
	Create(ctx context.Context, rec *Record) (*Record, error)

	// Get returns the record with the given id, or (nil, nil) when no
	// such record exists.
	Get(ctx context.Context, id string) (*Record, error)

	// FindByFilename returns the record whose stored filename matches,
	// or (nil, nil) when none does.
	FindByFilename(ctx context.Context, filename string) (*Record, error)

	// Update loads the record, applies mutate to a private copy, and
	// persists the result. If mutate returns an error the record is
	// left untouched and the error is returned verbatim.
	Update(ctx context.Context, id string, mutate func(*Record) error) (*Record, error)

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]*Record, error)

	// Stats counts records per stage.
	Stats(ctx context.Context) (map[Stage]int, error)

	Close() error
}

// OpenStore constructs the store named by the configuration's backend.
func OpenStore(cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return OpenSQLiteStore(cfg)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
