package entity

import (
	"fmt"
	"strings"
	"sync"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/logging"
	"github.com/wippyai/graph-runtime/registry"
)

// ReservedPrefix marks system-generated entity names. Caller-supplied names
// must not start with it.
const ReservedPrefix = "__"

// State represents the activation state of an entity
type State int

const (
	// StateCreated indicates the entity exists but its components are not running
	StateCreated State = iota
	// StateActivated indicates the entity's components are running
	StateActivated
	// StateDeactivated indicates the entity was activated and stopped again
	StateDeactivated
)

// String returns a string representation of the entity state
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActivated:
		return "activated"
	case StateDeactivated:
		return "deactivated"
	default:
		return "unknown"
	}
}

// Component is a typed unit owned by exactly one entity. It does not outlive
// its entity.
type Component struct {
	UID      graphruntime.UID
	TID      graphruntime.TID
	TypeName string
	Name     string
}

// TypeResolver resolves a component TID before attachment. Satisfied by
// registry.TypeRegistry.
type TypeResolver interface {
	Resolve(tid graphruntime.TID) (registry.TypeRecord, error)
}

type record struct {
	name       string
	components []Component
	flags      graphruntime.EntityCreateFlags
	state      State
}

// Manager creates, names, and tracks entities and their component
// membership. UIDs are allocated from one monotonic counter shared by
// entities and components and never reused, so a destroyed entity's id can
// never resolve to a later one.
//
// All mutating operations are safe under concurrent invocation; callers must
// not race lifecycle transitions on a single entity id, but distinct ids are
// fully independent.
type Manager struct {
	resolver      TypeResolver
	gate          *logging.Gate
	entities      map[graphruntime.UID]*record
	names         map[string]graphruntime.UID
	program       map[graphruntime.UID]bool
	nextUID       graphruntime.UID
	programActive bool
	mu            sync.RWMutex
}

// NewManager creates an empty entity manager.
func NewManager(resolver TypeResolver, gate *logging.Gate) *Manager {
	if gate == nil {
		gate = logging.NewGate(nil)
	}
	return &Manager{
		resolver: resolver,
		gate:     gate,
		entities: make(map[graphruntime.UID]*record),
		names:    make(map[string]graphruntime.UID),
		program:  make(map[graphruntime.UID]bool),
	}
}

// Create creates a new entity and returns its id. An empty name generates an
// internally unique one under the reserved prefix; explicit names must not
// use the prefix and must be unique among live entities.
//
// The program flag stores the entity with the program entities. If the
// program is already active the entity still starts created and needs an
// explicit Activate call; auto-activation only applies to entities that
// exist when the program itself transitions.
func (m *Manager) Create(info graphruntime.EntityCreateInfo) (graphruntime.UID, error) {
	name := info.Name
	if name != "" {
		if strings.HasPrefix(name, ReservedPrefix) {
			return graphruntime.NilUID, errors.InvalidArgument(errors.PhaseEntity,
				fmt.Sprintf("entity name %q uses the reserved %q prefix", name, ReservedPrefix))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		if _, ok := m.names[name]; ok {
			return graphruntime.NilUID, errors.DuplicateName(errors.PhaseEntity, name)
		}
	}

	m.nextUID++
	uid := m.nextUID
	if name == "" {
		name = fmt.Sprintf("%sentity_%d", ReservedPrefix, uid)
	}

	m.entities[uid] = &record{
		name:  name,
		flags: info.Flags,
		state: StateCreated,
	}
	m.names[name] = uid
	if info.Flags&graphruntime.EntityCreateProgram != 0 {
		m.program[uid] = true
	}

	m.gate.Debugf("created entity %d (%s)", uid, name)
	return uid, nil
}

// Destroy deactivates the entity if needed, then releases it and its owned
// components. Destroying a never-activated entity simply releases resources.
func (m *Manager) Destroy(uid graphruntime.UID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.entities[uid]
	if !ok {
		return errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}

	if rec.state == StateActivated {
		rec.state = StateDeactivated
		m.gate.Debugf("deactivated entity %d (%s) on destroy", uid, rec.name)
	}

	delete(m.names, rec.name)
	delete(m.program, uid)
	delete(m.entities, uid)
	rec.components = nil

	m.gate.Debugf("destroyed entity %d (%s)", uid, rec.name)
	return nil
}

// Activate starts the entity's components. Activating an already-active
// entity is a no-op success.
func (m *Manager) Activate(uid graphruntime.UID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activateLocked(uid)
}

func (m *Manager) activateLocked(uid graphruntime.UID) error {
	rec, ok := m.entities[uid]
	if !ok {
		return errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}
	if rec.state == StateActivated {
		return nil
	}
	rec.state = StateActivated
	m.gate.Debugf("activated entity %d (%s)", uid, rec.name)
	return nil
}

// Deactivate stops the entity's components. Deactivating an inactive entity
// is a no-op success.
func (m *Manager) Deactivate(uid graphruntime.UID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deactivateLocked(uid)
}

func (m *Manager) deactivateLocked(uid graphruntime.UID) error {
	rec, ok := m.entities[uid]
	if !ok {
		return errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}
	if rec.state != StateActivated {
		return nil
	}
	rec.state = StateDeactivated
	m.gate.Debugf("deactivated entity %d (%s)", uid, rec.name)
	return nil
}

// ActivateProgram activates every program entity that exists at this moment
// and marks the program active. Program entities created afterwards are not
// picked up retroactively.
func (m *Manager) ActivateProgram() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.programActive = true
	for uid := range m.program {
		if err := m.activateLocked(uid); err != nil {
			return err
		}
	}
	return nil
}

// DeactivateProgram deactivates the program entities and marks the program
// inactive.
func (m *Manager) DeactivateProgram() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.programActive = false
	for uid := range m.program {
		if err := m.deactivateLocked(uid); err != nil {
			return err
		}
	}
	return nil
}

// ProgramActive reports whether the program is currently active.
func (m *Manager) ProgramActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.programActive
}

// AddComponent attaches a component of the given type to an entity. The TID
// must resolve through the type resolver; an unresolved TID reports the
// unknown-type condition instead of crashing.
func (m *Manager) AddComponent(uid graphruntime.UID, tid graphruntime.TID, name string) (graphruntime.UID, error) {
	rec, err := m.resolver.Resolve(tid)
	if err != nil {
		return graphruntime.NilUID, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.entities[uid]
	if !ok {
		return graphruntime.NilUID, errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}

	m.nextUID++
	cid := m.nextUID
	ent.components = append(ent.components, Component{
		UID:      cid,
		TID:      tid,
		TypeName: rec.TypeName,
		Name:     name,
	})

	m.gate.Debugf("added component %d (%s) to entity %d (%s)", cid, rec.TypeName, uid, ent.name)
	return cid, nil
}

// Components returns the components owned by an entity.
func (m *Manager) Components(uid graphruntime.UID) ([]Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.entities[uid]
	if !ok {
		return nil, errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}
	out := make([]Component, len(rec.components))
	copy(out, rec.components)
	return out, nil
}

// Lookup returns the id of the live entity with the given name.
func (m *Manager) Lookup(name string) (graphruntime.UID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uid, ok := m.names[name]
	if !ok {
		return graphruntime.NilUID, errors.NotFound(errors.PhaseEntity, "entity", name)
	}
	return uid, nil
}

// State returns the activation state of a live entity.
func (m *Manager) State(uid graphruntime.UID) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.entities[uid]
	if !ok {
		return StateCreated, errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}
	return rec.state, nil
}

// Name returns the name of a live entity.
func (m *Manager) Name(uid graphruntime.UID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.entities[uid]
	if !ok {
		return "", errors.NotFound(errors.PhaseEntity, "entity", uid.String())
	}
	return rec.name, nil
}

// Len returns the number of live entities.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

// DestroyAll releases every live entity, deactivating active ones first.
// Used at context teardown.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for uid, rec := range m.entities {
		if rec.state == StateActivated {
			rec.state = StateDeactivated
		}
		delete(m.names, rec.name)
		delete(m.program, uid)
		delete(m.entities, uid)
	}
	m.programActive = false
}
