package prefs

import (
	"sync"

	"github.com/OddSageID/neuroshield-site/internal/theme"
)

// MemoryStore is an in-process theme.PreferenceStore. It backs sessions
// where no state directory is available: the preference then lives for the
// process lifetime only, which keeps toggling functional without
// persistence.
type MemoryStore struct {
	mu      sync.Mutex
	mode    theme.Mode
	present bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the held preference, if any.
func (s *MemoryStore) Load() (theme.Mode, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.present, nil
}

// Save records the preference in memory.
func (s *MemoryStore) Save(mode theme.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.present = true
	return nil
}
