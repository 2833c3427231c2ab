package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileStore keeps the state in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the state file. A missing file is not an error.
func (s *FileStore) Load(ctx context.Context) (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, errors.Wrap(err, "failed to read state file")
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, false, errors.Wrap(err, "failed to parse state file")
	}
	return state, true, nil
}

// Save writes the state atomically (temp file, then rename).
func (s *FileStore) Save(ctx context.Context, state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create state directory")
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write state file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "failed to replace state file")
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
