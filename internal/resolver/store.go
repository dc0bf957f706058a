package resolver

import (
	"sync/atomic"

	"staticmanifest/internal/manifest"
)

// Store holds the current manifest snapshot behind an atomic pointer.
// Readers always see a fully formed snapshot; a reload replaces the whole
// manifest in one swap, never a half-updated mapping. No locks are needed
// because snapshots are immutable.
type Store struct {
	current atomic.Pointer[manifest.Manifest]
}

// NewStore builds a store holding m. A nil m is replaced with an empty
// manifest so Snapshot never returns nil.
func NewStore(m *manifest.Manifest) *Store {
	if m == nil {
		m = manifest.New(nil)
	}
	s := &Store{}
	s.current.Store(m)
	return s
}

// Snapshot returns the current manifest. Never nil.
func (s *Store) Snapshot() *manifest.Manifest {
	return s.current.Load()
}

// Swap installs m as the current manifest and returns the previous one.
// Panics on nil: callers that failed to load a replacement must keep the
// old snapshot, not blank the store.
func (s *Store) Swap(m *manifest.Manifest) *manifest.Manifest {
	if m == nil {
		panic("resolver: Swap with nil manifest")
	}
	return s.current.Swap(m)
}
