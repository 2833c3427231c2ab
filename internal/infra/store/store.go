// Package store persists the last selected station and volume between runs.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// State is the persisted playback state.
type State struct {
	Selected    int       `yaml:"selected" db:"selected"`         // -1 when nothing was selected
	StationName string    `yaml:"station_name" db:"station_name"` // Name of the selected station
	Volume      int       `yaml:"volume" db:"volume"`
	SavedAt     time.Time `yaml:"saved_at" db:"saved_at"`
}

// HasSelection reports whether a station was selected when the state was saved.
func (s State) HasSelection() bool {
	return s.Selected >= 0
}

// Store loads and saves State.
type Store interface {
	// Load returns the saved state. found is false when nothing was saved yet.
	Load(ctx context.Context) (state State, found bool, err error)
	Save(ctx context.Context, state State) error
	Close() error
}

// Open returns the store for the configured driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "none":
		return nopStore{}, nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, errors.Newf("unsupported persistence driver: %s", driver)
	}
}

// nopStore stores nothing.
type nopStore struct{}

func (nopStore) Load(context.Context) (State, bool, error) { return State{}, false, nil }
func (nopStore) Save(context.Context, State) error         { return nil }
func (nopStore) Close() error                              { return nil }
