package registry

import (
	"sort"
	"sync"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
)

// LoadState tracks how much of an extension is present in the process.
type LoadState int

const (
	// StateMetadataOnly means only the extension's type records were
	// imported; its implementation is not in the process.
	StateMetadataOnly LoadState = iota
	// StateLoaded means the extension's implementation was loaded and its
	// registration entry point ran.
	StateLoaded
)

// String returns a string representation of the load state
func (s LoadState) String() string {
	switch s {
	case StateMetadataOnly:
		return "metadata-only"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Extension is one tracked extension: identity, load state, and the
// component types it contributes.
type Extension struct {
	ID      graphruntime.TID
	Name    string
	Version string
	Path    string // canonical path, set once fully loaded
	State   LoadState
	Types   []graphruntime.TID
}

// ExtensionRegistry tracks per-context extension identity and load state.
// An extension identity, once fully loaded, is never loaded again in the
// same context; metadata-only records of the same extension merge with a
// prior or later full load instead of conflicting.
//
// Extensions are only released at context teardown. Unloading earlier would
// leave dangling type resolutions for entities still holding components of
// the extension's types.
type ExtensionRegistry struct {
	byID   map[graphruntime.TID]*Extension
	byPath map[string]graphruntime.TID
	mu     sync.RWMutex
}

// NewExtensionRegistry creates an empty extension registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{
		byID:   make(map[graphruntime.TID]*Extension),
		byPath: make(map[string]graphruntime.TID),
	}
}

// CheckLoadable reports the duplicate-load condition for a path/identity
// pair before the loader is invoked. A nil error means a full load of this
// identity is permitted (either unknown or metadata-only so far).
func (r *ExtensionRegistry) CheckLoadable(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tid, ok := r.byPath[path]; ok {
		if ext := r.byID[tid]; ext != nil && ext.State == StateLoaded {
			return errors.AlreadyLoaded(errors.PhaseLoad, path)
		}
	}
	return nil
}

// RecordLoaded commits a successful full load. It upgrades a metadata-only
// record of the same identity rather than erroring, and rejects a second
// full load of the same identity or path.
func (r *ExtensionRegistry) RecordLoaded(path string, desc *graphruntime.ExtensionDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tid, ok := r.byPath[path]; ok {
		if ext := r.byID[tid]; ext != nil && ext.State == StateLoaded {
			return errors.AlreadyLoaded(errors.PhaseLoad, path)
		}
	}

	ext, known := r.byID[desc.ID]
	if known && ext.State == StateLoaded {
		return errors.AlreadyLoaded(errors.PhaseLoad, desc.Name)
	}

	if !known {
		ext = &Extension{ID: desc.ID}
		r.byID[desc.ID] = ext
	}
	ext.Name = desc.Name
	ext.Version = desc.Version
	ext.Path = path
	ext.State = StateLoaded
	ext.Types = mergeTypes(ext.Types, desc.Components)
	r.byPath[path] = desc.ID
	return nil
}

// RecordMetadata commits a metadata-only import. Importing metadata for an
// extension that is already fully loaded (or already imported) merges.
func (r *ExtensionRegistry) RecordMetadata(desc *graphruntime.ExtensionDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext, known := r.byID[desc.ID]
	if !known {
		ext = &Extension{
			ID:      desc.ID,
			Name:    desc.Name,
			Version: desc.Version,
			State:   StateMetadataOnly,
		}
		r.byID[desc.ID] = ext
	}
	ext.Types = mergeTypes(ext.Types, desc.Components)
	return nil
}

// IsLoaded reports whether the extension identity is fully loaded.
func (r *ExtensionRegistry) IsLoaded(tid graphruntime.TID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, ok := r.byID[tid]
	return ok && ext.State == StateLoaded
}

// IsPathLoaded reports whether the canonical path is fully loaded.
func (r *ExtensionRegistry) IsPathLoaded(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tid, ok := r.byPath[path]
	if !ok {
		return false
	}
	ext := r.byID[tid]
	return ext != nil && ext.State == StateLoaded
}

// Get returns the tracked extension for an identity.
func (r *ExtensionRegistry) Get(tid graphruntime.TID) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, ok := r.byID[tid]
	if !ok {
		return Extension{}, errors.NotFound(errors.PhaseRegistry, "extension", tid.String())
	}
	return *ext, nil
}

// TypesOf returns the TIDs contributed by an extension.
func (r *ExtensionRegistry) TypesOf(tid graphruntime.TID) ([]graphruntime.TID, error) {
	ext, err := r.Get(tid)
	if err != nil {
		return nil, err
	}
	out := make([]graphruntime.TID, len(ext.Types))
	copy(out, ext.Types)
	return out, nil
}

// Extensions returns all tracked extensions sorted by name.
func (r *ExtensionRegistry) Extensions() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Extension, 0, len(r.byID))
	for _, ext := range r.byID {
		out = append(out, *ext)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func mergeTypes(have []graphruntime.TID, comps []graphruntime.ComponentType) []graphruntime.TID {
	known := make(map[graphruntime.TID]bool, len(have))
	for _, t := range have {
		known[t] = true
	}
	for _, c := range comps {
		if !known[c.TID] {
			have = append(have, c.TID)
			known[c.TID] = true
		}
	}
	return have
}
