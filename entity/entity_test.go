package entity

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/registry"
)

var tidClock = graphruntime.MustTID("a47e7f07-1a5c-4e6e-b64b-6b3c3fd224c4")

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	types := registry.NewTypeRegistry(nil)
	require.NoError(t, types.Register(
		graphruntime.MustTID("f7cb7dca-4d3a-4b54-8c5e-1b1f0b1df282"),
		[]graphruntime.ComponentType{{TID: tidClock, TypeName: "builtin::Clock"}},
	))
	return NewManager(types, nil)
}

func TestManager_CreateNamed(t *testing.T) {
	m := newTestManager(t)

	uid, err := m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	require.NoError(t, err)
	assert.NotEqual(t, graphruntime.NilUID, uid)

	got, err := m.Lookup("camera")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	name, err := m.Name(uid)
	require.NoError(t, err)
	assert.Equal(t, "camera", name)

	state, err := m.State(uid)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, state)
}

func TestManager_ReservedName(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create(graphruntime.EntityCreateInfo{Name: "__reserved"})
	assert.True(t, errors.IsKind(err, errors.KindInvalidArg))
}

func TestManager_DuplicateName(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	require.NoError(t, err)

	_, err = m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	assert.True(t, errors.IsKind(err, errors.KindDuplicateName))
}

func TestManager_GeneratedNamesAlwaysSucceed(t *testing.T) {
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		uid, err := m.Create(graphruntime.EntityCreateInfo{})
		require.NoError(t, err)
		name, err := m.Name(uid)
		require.NoError(t, err)
		assert.True(t, len(name) > 0)
		assert.Contains(t, name, ReservedPrefix)
		assert.False(t, seen[name], "generated names must be unique")
		seen[name] = true
	}
}

func TestManager_NameReleasedOnDestroy(t *testing.T) {
	m := newTestManager(t)

	uid, err := m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	require.NoError(t, err)
	require.NoError(t, m.Destroy(uid))

	// Name becomes available again, but the id is fresh.
	uid2, err := m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	require.NoError(t, err)
	assert.NotEqual(t, uid, uid2, "ids are never reused")
}

func TestManager_DestroyUnknown(t *testing.T) {
	m := newTestManager(t)

	err := m.Destroy(graphruntime.UID(42))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestManager_DestroyReleasesLookups(t *testing.T) {
	m := newTestManager(t)

	uid, err := m.Create(graphruntime.EntityCreateInfo{Name: "camera"})
	require.NoError(t, err)
	require.NoError(t, m.Destroy(uid))

	_, err = m.State(uid)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	_, err = m.Lookup("camera")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.True(t, errors.IsKind(m.Destroy(uid), errors.KindNotFound))
}

func TestManager_DestroyNeverActivated(t *testing.T) {
	m := newTestManager(t)

	uid, err := m.Create(graphruntime.EntityCreateInfo{})
	require.NoError(t, err)
	assert.NoError(t, m.Destroy(uid))
}

func TestManager_ActivateDeactivateIdempotent(t *testing.T) {
	m := newTestManager(t)
	uid, err := m.Create(graphruntime.EntityCreateInfo{})
	require.NoError(t, err)

	// Deactivating a created entity is a no-op success.
	require.NoError(t, m.Deactivate(uid))
	state, _ := m.State(uid)
	assert.Equal(t, StateCreated, state)

	require.NoError(t, m.Activate(uid))
	require.NoError(t, m.Activate(uid))
	state, _ = m.State(uid)
	assert.Equal(t, StateActivated, state)

	require.NoError(t, m.Deactivate(uid))
	require.NoError(t, m.Deactivate(uid))
	state, _ = m.State(uid)
	assert.Equal(t, StateDeactivated, state)

	// Reactivation after deactivation is permitted.
	require.NoError(t, m.Activate(uid))
	state, _ = m.State(uid)
	assert.Equal(t, StateActivated, state)
}

func TestManager_LifecycleUnknownEntity(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, errors.IsKind(m.Activate(graphruntime.UID(9)), errors.KindNotFound))
	assert.True(t, errors.IsKind(m.Deactivate(graphruntime.UID(9)), errors.KindNotFound))
}

func TestManager_ProgramLifecycle(t *testing.T) {
	m := newTestManager(t)

	prog, err := m.Create(graphruntime.EntityCreateInfo{Name: "prog", Flags: graphruntime.EntityCreateProgram})
	require.NoError(t, err)
	plain, err := m.Create(graphruntime.EntityCreateInfo{Name: "plain"})
	require.NoError(t, err)

	require.NoError(t, m.ActivateProgram())
	assert.True(t, m.ProgramActive())

	state, _ := m.State(prog)
	assert.Equal(t, StateActivated, state, "program entities auto-activate with the program")
	state, _ = m.State(plain)
	assert.Equal(t, StateCreated, state, "non-program entities are untouched")

	require.NoError(t, m.DeactivateProgram())
	assert.False(t, m.ProgramActive())
	state, _ = m.State(prog)
	assert.Equal(t, StateDeactivated, state)
}

func TestManager_ProgramEntityCreatedAfterActivation(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.ActivateProgram())

	// Created after the program transition: starts created, needs manual
	// activation. The asymmetry is deliberate.
	late, err := m.Create(graphruntime.EntityCreateInfo{Name: "late", Flags: graphruntime.EntityCreateProgram})
	require.NoError(t, err)

	state, _ := m.State(late)
	assert.Equal(t, StateCreated, state)

	require.NoError(t, m.Activate(late))
	require.NoError(t, m.DeactivateProgram())

	// It joined the program set, so program deactivation picks it up.
	state, _ = m.State(late)
	assert.Equal(t, StateDeactivated, state)
}

func TestManager_AddComponent(t *testing.T) {
	m := newTestManager(t)
	uid, err := m.Create(graphruntime.EntityCreateInfo{Name: "clocked"})
	require.NoError(t, err)

	cid, err := m.AddComponent(uid, tidClock, "tick")
	require.NoError(t, err)
	assert.NotEqual(t, graphruntime.NilUID, cid)
	assert.NotEqual(t, uid, cid)

	comps, err := m.Components(uid)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "builtin::Clock", comps[0].TypeName)
	assert.Equal(t, "tick", comps[0].Name)
	assert.Equal(t, tidClock, comps[0].TID)
}

func TestManager_AddComponentUnknownType(t *testing.T) {
	m := newTestManager(t)
	uid, err := m.Create(graphruntime.EntityCreateInfo{})
	require.NoError(t, err)

	_, err = m.AddComponent(uid, graphruntime.MustTID("00000000-0000-0000-0000-000000000001"), "x")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	comps, err := m.Components(uid)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestManager_AddComponentUnknownEntity(t *testing.T) {
	m := newTestManager(t)

	_, err := m.AddComponent(graphruntime.UID(77), tidClock, "x")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestManager_DestroyAll(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 5; i++ {
		_, err := m.Create(graphruntime.EntityCreateInfo{Name: fmt.Sprintf("e%d", i)})
		require.NoError(t, err)
	}

	m.DestroyAll()
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.ProgramActive())
}

func TestManager_ConcurrentCreateDestroy(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				uid, err := m.Create(graphruntime.EntityCreateInfo{})
				if err != nil {
					t.Error(err)
					return
				}
				if err := m.Activate(uid); err != nil {
					t.Error(err)
					return
				}
				if err := m.Destroy(uid); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, m.Len())
}
