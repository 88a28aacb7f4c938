package loader

import (
	"context"
	"path/filepath"
	"sync"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
)

// StaticLoader resolves extension paths against a table of compiled-in
// descriptors instead of loading code at runtime. It serves environments
// where dynamic loading is undesirable or unavailable while satisfying the
// same contract as the dynamic loader: the caller's registries still enforce
// idempotency and type registration.
//
// Paths are matched by basename, so a manifest written for dynamically
// loaded modules also resolves against the compiled-in set.
type StaticLoader struct {
	table map[string]*graphruntime.ExtensionDescriptor
	mu    sync.RWMutex
}

// NewStaticLoader creates an empty static loader.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{
		table: make(map[string]*graphruntime.ExtensionDescriptor),
	}
}

// Register adds a compiled-in extension under the given filename. Extension
// packages call this from init(); registering the same filename twice is a
// programming error and reported as such.
func (l *StaticLoader) Register(filename string, desc *graphruntime.ExtensionDescriptor) error {
	if filename == "" {
		return errors.InvalidArgument(errors.PhaseLoad, "empty extension filename")
	}
	if desc == nil {
		return errors.InvalidArgument(errors.PhaseLoad, "nil extension descriptor")
	}

	key := filepath.Base(filename)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.table[key]; ok {
		return errors.AlreadyLoaded(errors.PhaseLoad, key)
	}
	l.table[key] = desc
	return nil
}

// Load resolves path against the compiled-in table.
func (l *StaticLoader) Load(_ context.Context, path string) (*graphruntime.ExtensionDescriptor, error) {
	l.mu.RLock()
	desc, ok := l.table[filepath.Base(path)]
	l.mu.RUnlock()

	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "extension", path)
	}
	return desc, nil
}

// Unload is a no-op; compiled-in extensions stay resident.
func (l *StaticLoader) Unload(context.Context, string) error {
	return nil
}

// Close is a no-op; compiled-in extensions have no resources to release.
func (l *StaticLoader) Close(context.Context) error {
	return nil
}

var defaultStatic = NewStaticLoader()

// Default returns the process-wide static loader populated by Register.
func Default() *StaticLoader {
	return defaultStatic
}

// Register adds a compiled-in extension to the process-wide static loader.
// Extension packages call this from init().
func Register(filename string, desc *graphruntime.ExtensionDescriptor) error {
	return defaultStatic.Register(filename, desc)
}
