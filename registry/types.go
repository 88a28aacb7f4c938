package registry

import (
	"sync"

	"github.com/coreos/go-semver/semver"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/logging"
)

// TypeRecord is one resolvable component type together with the extension
// that contributes it.
type TypeRecord struct {
	graphruntime.ComponentType
	Extension graphruntime.TID
}

// TypeRegistry maps TIDs to component type records across extensions. Records
// come from two sources with identical semantics: full extension loads and
// metadata-only imports. Resolution never requires the implementing extension
// to be loaded, only its record to be known.
type TypeRegistry struct {
	byTID  map[graphruntime.TID]TypeRecord
	byName map[string]graphruntime.TID
	gate   *logging.Gate
	mu     sync.RWMutex
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry(gate *logging.Gate) *TypeRegistry {
	if gate == nil {
		gate = logging.NewGate(nil)
	}
	return &TypeRegistry{
		byTID:  make(map[graphruntime.TID]TypeRecord),
		byName: make(map[string]graphruntime.TID),
		gate:   gate,
	}
}

// Register adds the component types of one extension. The batch is
// all-or-nothing: every record is checked against existing entries before any
// is inserted, so a failed registration leaves no partial type entries.
//
// A record identical to a known one is a no-op; a record disagreeing with a
// known one for the same TID, or reusing a known typename under a different
// TID, fails with a type conflict.
func (r *TypeRegistry) Register(ext graphruntime.TID, comps []graphruntime.ComponentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole batch first.
	seen := make(map[graphruntime.TID]string, len(comps))
	seenNames := make(map[string]graphruntime.TID, len(comps))
	for _, c := range comps {
		if c.TID.IsZero() {
			return errors.InvalidArgument(errors.PhaseRegistry,
				"component type with nil tid")
		}
		if c.TypeName == "" {
			return errors.New(errors.PhaseRegistry, errors.KindInvalidArg).
				Path(c.TID.String()).
				Detail("component type with empty typename").
				Build()
		}
		if prior, ok := seen[c.TID]; ok && prior != c.TypeName {
			return errors.TypeConflict(c.TID.String(), prior, c.TypeName)
		}
		seen[c.TID] = c.TypeName
		if other, ok := seenNames[c.TypeName]; ok && other != c.TID {
			return errors.New(errors.PhaseRegistry, errors.KindTypeConflict).
				Path(c.TypeName).
				Detail("typename duplicated within one batch under tids %s and %s", other, c.TID).
				Build()
		}
		seenNames[c.TypeName] = c.TID

		if existing, ok := r.byTID[c.TID]; ok {
			if existing.TypeName != c.TypeName || existing.BaseTypeName != c.BaseTypeName {
				return errors.TypeConflict(c.TID.String(), existing.TypeName, c.TypeName)
			}
			continue
		}
		if other, ok := r.byName[c.TypeName]; ok && other != c.TID {
			return errors.New(errors.PhaseRegistry, errors.KindTypeConflict).
				Path(c.TypeName).
				Detail("typename already registered under tid %s", other).
				Build()
		}
	}

	for _, c := range comps {
		if _, ok := r.byTID[c.TID]; ok {
			continue
		}
		r.byTID[c.TID] = TypeRecord{ComponentType: c, Extension: ext}
		r.byName[c.TypeName] = c.TID
		r.gate.Debugf("registered type %s (%s)", c.TypeName, c.TID)
	}
	return nil
}

// Resolve returns the record for a TID, or a distinct unknown-type condition.
func (r *TypeRegistry) Resolve(tid graphruntime.TID) (TypeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byTID[tid]
	if !ok {
		return TypeRecord{}, errors.NotFound(errors.PhaseRegistry, "type", tid.String())
	}
	return rec, nil
}

// ResolveName returns the record for a human-readable typename.
func (r *TypeRegistry) ResolveName(typename string) (TypeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tid, ok := r.byName[typename]
	if !ok {
		return TypeRecord{}, errors.NotFound(errors.PhaseRegistry, "type", typename)
	}
	return r.byTID[tid], nil
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTID)
}

// Types returns all records, unordered.
func (r *TypeRegistry) Types() []TypeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TypeRecord, 0, len(r.byTID))
	for _, rec := range r.byTID {
		out = append(out, rec)
	}
	return out
}

// ValidateDescriptor checks an extension descriptor before its types are
// committed: identity, name, a semver-parsable version, and well-formed
// component records.
func ValidateDescriptor(desc *graphruntime.ExtensionDescriptor) error {
	if desc == nil {
		return errors.InvalidArgument(errors.PhaseRegistry, "nil extension descriptor")
	}
	if desc.ID.IsZero() {
		return errors.New(errors.PhaseRegistry, errors.KindInvalidArg).
			Path(desc.Name).
			Detail("extension descriptor with nil id").
			Build()
	}
	if desc.Name == "" {
		return errors.New(errors.PhaseRegistry, errors.KindInvalidArg).
			Path(desc.ID.String()).
			Detail("extension descriptor with empty name").
			Build()
	}
	if _, err := semver.NewVersion(desc.Version); err != nil {
		return errors.New(errors.PhaseRegistry, errors.KindInvalidArg).
			Path(desc.Name).
			Cause(err).
			Detail("extension version %q is not a semantic version", desc.Version).
			Build()
	}
	for _, c := range desc.Components {
		if c.TID.IsZero() || c.TypeName == "" {
			return errors.New(errors.PhaseRegistry, errors.KindInvalidArg).
				Path(desc.Name).
				Detail("malformed component record %q (%s)", c.TypeName, c.TID).
				Build()
		}
	}
	return nil
}
