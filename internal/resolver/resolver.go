// Package resolver maps logical static-asset paths to the cache-busted
// paths clients should actually request.
//
// The policy knob is strictness: in strict mode a logical path with no
// manifest entry is a hard error; in non-strict mode it falls back to the
// logical path itself, so the unhashed original gets served. Non-strict is
// the default here: a missing entry usually means the asset pipeline has
// not run yet, and serving the unfingerprinted file beats failing the page.
package resolver

import (
	"fmt"

	"go.uber.org/zap"
)

// MissingEntryError is the only error Resolve produces: the logical key has
// no manifest entry. Retrying cannot help; only rebuilding the manifest can.
type MissingEntryError struct {
	Key string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("no manifest entry for %q (has the asset pipeline run?)", e.Key)
}

// Options configures a Resolver. The zero value is the non-strict fallback
// policy.
type Options struct {
	// Strict makes a missing manifest entry a MissingEntryError instead of
	// falling back to the logical key.
	Strict bool
}

// Resolver answers lookups against the store's current manifest snapshot.
// It is safe for concurrent use; Resolve does no I/O and takes no locks.
type Resolver struct {
	store  *Store
	strict bool
	log    *zap.Logger
}

// New builds a Resolver reading through store. log may be nil.
func New(store *Store, opts Options, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, strict: opts.Strict, log: log}
}

// Strict reports the configured policy.
func (r *Resolver) Strict() bool { return r.strict }

// Resolve maps a logical key to its resolved key. A key present in the
// manifest resolves to its mapped value regardless of policy. An absent key
// returns MissingEntryError in strict mode, or the key unchanged otherwise.
//
// The result is deterministic for a given manifest snapshot: repeated calls
// return the same value until the store swaps in a new snapshot.
func (r *Resolver) Resolve(key string) (string, error) {
	snap := r.store.Snapshot()
	if resolved, ok := snap.Lookup(key); ok {
		return resolved, nil
	}
	if r.strict {
		return "", &MissingEntryError{Key: key}
	}
	r.log.Debug("manifest miss, serving unhashed path",
		zap.String("key", key),
		zap.String("manifest", snap.ID()))
	return key, nil
}
