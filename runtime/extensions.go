package runtime

import (
	"context"
	"path/filepath"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/manifest"
	"github.com/wippyai/graph-runtime/registry"
)

// LoadExtensions loads one or more extensions, directly by filename or
// indirectly through manifest files, in the resolved order. Each extension
// may only be fully loaded once per context; a duplicate identity fails with
// the already-loaded condition and stops the sequence.
//
// Registration is atomic per extension: a failure while committing an
// extension's types leaves no partial entries from that extension visible.
func (r *Runtime) LoadExtensions(ctx context.Context, info graphruntime.LoadExtensionsInfo) error {
	paths, err := manifest.Resolve(info)
	if err != nil {
		r.gate.Errorf("resolve extensions: %v", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}

	for _, path := range paths {
		if err := r.loadOne(ctx, canonical(path)); err != nil {
			r.gate.Errorf("load extension %q: %v", path, err)
			return err
		}
	}
	return nil
}

func (r *Runtime) loadOne(ctx context.Context, path string) error {
	if err := r.exts.CheckLoadable(path); err != nil {
		return err
	}

	desc, err := r.loader.Load(ctx, path)
	if err != nil {
		return err
	}

	if err := r.commit(path, desc); err != nil {
		// Back out the module so a rejected load leaves nothing resident.
		if uerr := r.loader.Unload(ctx, path); uerr != nil {
			r.gate.Warnf("unload rejected extension %q: %v", path, uerr)
		}
		return err
	}
	return nil
}

func (r *Runtime) commit(path string, desc *graphruntime.ExtensionDescriptor) error {
	if err := registry.ValidateDescriptor(desc); err != nil {
		return err
	}

	// Reject a known identity arriving from a new path before committing
	// types, so a failed load leaves no partial entries.
	if r.exts.IsLoaded(desc.ID) {
		return r.exts.RecordLoaded(path, desc)
	}

	if err := r.types.Register(desc.ID, desc.Components); err != nil {
		return err
	}
	return r.exts.RecordLoaded(path, desc)
}

// ImportMetadata imports metadata files produced by the registration tool,
// making the described component types resolvable without their
// implementation. Identical re-imports are no-ops; a disagreeing record for
// a known TID is a type conflict.
func (r *Runtime) ImportMetadata(_ context.Context, paths ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkOpen(); err != nil {
		return err
	}

	if err := registry.ImportMetadata(r.types, r.exts, paths...); err != nil {
		r.gate.Errorf("import metadata: %v", err)
		return err
	}
	return nil
}

// ResolveType resolves a TID. It succeeds for any type whose metadata or
// implementation has been imported.
func (r *Runtime) ResolveType(tid graphruntime.TID) (registry.TypeRecord, error) {
	return r.types.Resolve(tid)
}

// ResolveTypeName resolves a human-readable typename to its record.
func (r *Runtime) ResolveTypeName(typename string) (registry.TypeRecord, error) {
	return r.types.ResolveName(typename)
}

// Types returns all resolvable type records.
func (r *Runtime) Types() []registry.TypeRecord {
	return r.types.Types()
}

// IsExtensionLoaded reports whether the extension at path is fully loaded in
// this context.
func (r *Runtime) IsExtensionLoaded(path string) bool {
	return r.exts.IsPathLoaded(canonical(path))
}

// Extensions returns all tracked extensions, loaded or metadata-only.
func (r *Runtime) Extensions() []registry.Extension {
	return r.exts.Extensions()
}

// ExtensionTypes returns the TIDs contributed by an extension identity.
func (r *Runtime) ExtensionTypes(tid graphruntime.TID) ([]graphruntime.TID, error) {
	return r.exts.TypesOf(tid)
}

// canonical normalizes a path for duplicate-load identity.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
