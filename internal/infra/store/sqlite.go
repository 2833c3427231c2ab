package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const createStateTable = `CREATE TABLE IF NOT EXISTS playback_state (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	selected     INTEGER NOT NULL,
	station_name TEXT    NOT NULL,
	volume       INTEGER NOT NULL,
	saved_at     DATETIME NOT NULL
)`

// SQLiteStore keeps the state in a single-row SQLite table.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state database")
	}
	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create state table")
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the saved row.
func (s *SQLiteStore) Load(ctx context.Context) (State, bool, error) {
	var state State
	err := s.db.GetContext(ctx, &state,
		`SELECT selected, station_name, volume, saved_at FROM playback_state WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, errors.Wrap(err, "failed to load state")
	}
	return state, true, nil
}

// Save upserts the row.
func (s *SQLiteStore) Save(ctx context.Context, state State) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO playback_state (id, selected, station_name, volume, saved_at)
		VALUES (1, :selected, :station_name, :volume, :saved_at)
		ON CONFLICT(id) DO UPDATE SET
			selected = excluded.selected,
			station_name = excluded.station_name,
			volume = excluded.volume,
			saved_at = excluded.saved_at`, state)
	return errors.Wrap(err, "failed to save state")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
