// Package manifest models the precomputed mapping from logical static-asset
// paths to their cache-busted, content-fingerprinted counterparts.
//
// A Manifest is an immutable snapshot: it is built once from an externally
// produced file (the asset pipeline's output) and never mutated. Replacing
// a manifest means building a new one and swapping the reference.
package manifest

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Source records where a manifest snapshot came from.
type Source struct {
	Path     string // file path or fs.FS name; empty for in-memory manifests
	Format   Format
	LoadedAt time.Time
}

// Manifest is an immutable logical-key -> resolved-key mapping.
// Keys are unique; values need not be (though in practice the content
// fingerprint differs per file).
type Manifest struct {
	id      string
	source  Source
	entries map[string]string
}

// New builds a manifest from the given entries. The map is copied, so the
// caller may keep mutating its own copy without affecting the snapshot.
func New(entries map[string]string) *Manifest {
	m := &Manifest{
		id:      uuid.NewString(),
		entries: make(map[string]string, len(entries)),
	}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// newFromSource is New plus source metadata, used by the loaders.
func newFromSource(entries map[string]string, src Source) *Manifest {
	m := New(entries)
	src.LoadedAt = time.Now()
	m.source = src
	return m
}

// ID returns the snapshot's unique identifier. It changes on every load,
// which makes reload transitions traceable in logs.
func (m *Manifest) ID() string { return m.id }

// Source returns where this snapshot was loaded from.
func (m *Manifest) Source() Source { return m.source }

// Lookup returns the resolved key for a logical key, and whether the
// manifest contains it.
func (m *Manifest) Lookup(key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.entries) }

// Keys returns all logical keys in sorted order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the full mapping.
func (m *Manifest) Entries() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
