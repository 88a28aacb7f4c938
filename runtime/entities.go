package runtime

import (
	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/entity"
)

// CreateEntity creates a new entity and returns its id. See
// graphruntime.EntityCreateInfo for naming and flag semantics.
func (r *Runtime) CreateEntity(info graphruntime.EntityCreateInfo) (graphruntime.UID, error) {
	if err := r.checkOpen(); err != nil {
		return graphruntime.NilUID, err
	}
	eid, err := r.entities.Create(info)
	if err != nil {
		r.gate.Errorf("create entity %q: %v", info.Name, err)
		return graphruntime.NilUID, err
	}
	return eid, nil
}

// DestroyEntity deactivates (if active) and releases an entity and its
// owned components.
func (r *Runtime) DestroyEntity(eid graphruntime.UID) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.entities.Destroy(eid); err != nil {
		r.gate.Errorf("destroy entity %d: %v", eid, err)
		return err
	}
	return nil
}

// ActivateEntity starts the entity's components. Idempotent.
func (r *Runtime) ActivateEntity(eid graphruntime.UID) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.entities.Activate(eid); err != nil {
		r.gate.Errorf("activate entity %d: %v", eid, err)
		return err
	}
	return nil
}

// DeactivateEntity stops the entity's components. Idempotent.
func (r *Runtime) DeactivateEntity(eid graphruntime.UID) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := r.entities.Deactivate(eid); err != nil {
		r.gate.Errorf("deactivate entity %d: %v", eid, err)
		return err
	}
	return nil
}

// ActivateProgram activates all program entities existing at this moment.
func (r *Runtime) ActivateProgram() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.entities.ActivateProgram()
}

// DeactivateProgram deactivates the program entities.
func (r *Runtime) DeactivateProgram() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.entities.DeactivateProgram()
}

// AddComponent attaches a component of the given type to an entity. The TID
// must be resolvable, by full load or metadata import, before attachment
// succeeds.
func (r *Runtime) AddComponent(eid graphruntime.UID, tid graphruntime.TID, name string) (graphruntime.UID, error) {
	if err := r.checkOpen(); err != nil {
		return graphruntime.NilUID, err
	}
	cid, err := r.entities.AddComponent(eid, tid, name)
	if err != nil {
		r.gate.Errorf("add component %s to entity %d: %v", tid, eid, err)
		return graphruntime.NilUID, err
	}
	return cid, nil
}

// Components returns the components owned by an entity.
func (r *Runtime) Components(eid graphruntime.UID) ([]entity.Component, error) {
	return r.entities.Components(eid)
}

// FindEntity returns the id of the live entity with the given name.
func (r *Runtime) FindEntity(name string) (graphruntime.UID, error) {
	return r.entities.Lookup(name)
}

// EntityState returns the activation state of a live entity.
func (r *Runtime) EntityState(eid graphruntime.UID) (entity.State, error) {
	return r.entities.State(eid)
}

// EntityCount returns the number of live entities.
func (r *Runtime) EntityCount() int {
	return r.entities.Len()
}
