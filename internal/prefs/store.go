// Package prefs persists the explicit theme choice on disk.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OddSageID/neuroshield-site/internal/theme"
)

// SchemaVersion is the current preference file schema version.
const SchemaVersion = 1

// record is the on-disk shape of the preference file.
type record struct {
	Schema    int    `json:"schema"`
	Theme     string `json:"theme"`
	UpdatedAt int64  `json:"updated_at"`
}

// FileStore implements theme.PreferenceStore backed by a single JSON file.
// A missing file means no explicit choice; a corrupted file or an unknown
// theme literal is treated the same way rather than surfaced as an error.
type FileStore struct {
	path string
}

// NewFileStore creates a store at path. The file is not created until the
// first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("prefs: empty store path")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored preference. Only an I/O failure other than
// not-exist is reported as an error; malformed content counts as absence.
func (s *FileStore) Load() (theme.Mode, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, nil
	}
	if rec.Schema > SchemaVersion {
		return "", false, nil
	}

	mode, ok := theme.ParseMode(rec.Theme)
	if !ok {
		return "", false, nil
	}
	return mode, true, nil
}

// Save writes the preference atomically: temp file in the same directory,
// then rename over the target. Parent directories are created as needed.
func (s *FileStore) Save(mode theme.Mode) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	data, err := json.Marshal(record{
		Schema:    SchemaVersion,
		Theme:     string(mode),
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".theme-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// DefaultPath returns the preference file location under the XDG state
// directory. Returns an empty string when no home directory is resolvable.
func DefaultPath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "neuroshield-site", "theme.json")
}
