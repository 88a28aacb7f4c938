package loader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/logging"
)

// WASMLoader loads extensions compiled to WebAssembly through a wazero
// runtime. Loaded modules stay instantiated until Close so their exported
// state remains addressable for the lifetime of the owning context.
//
// The wazero runtime is process-local but module code is shared state: two
// loaders in one process each compile their own copy, so prefer a single
// loader per process.
type WASMLoader struct {
	runtime wazero.Runtime
	gate    *logging.Gate
	modules map[string]api.Module
	mu      sync.Mutex
}

// NewWASMLoader creates a loader backed by a fresh wazero runtime.
func NewWASMLoader(ctx context.Context, gate *logging.Gate) (*WASMLoader, error) {
	if gate == nil {
		gate = logging.NewGate(nil)
	}
	return &WASMLoader{
		runtime: wazero.NewRuntime(ctx),
		gate:    gate,
		modules: make(map[string]api.Module),
	}, nil
}

// Load reads, compiles, and instantiates the module at path, then invokes
// its registration entry point and parses the descriptor it addresses.
// Nothing is retained on failure.
func (l *WASMLoader) Load(ctx context.Context, path string) (*graphruntime.ExtensionDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(errors.PhaseLoad, "extension", path)
		}
		return nil, errors.LoadFailure(fmt.Sprintf("read extension %q", path), err)
	}

	compiled, err := l.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.LoadFailure(fmt.Sprintf("compile extension %q", path), err)
	}

	if _, ok := compiled.ExportedFunctions()[EntryPoint]; !ok {
		_ = compiled.Close(ctx)
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailure).
			Path(path).
			Detail("missing registration entry point %q", EntryPoint).
			Build()
	}

	mod, err := l.runtime.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName(path))
	if err != nil {
		return nil, errors.LoadFailure(fmt.Sprintf("instantiate extension %q", path), err)
	}

	desc, err := l.describe(ctx, path, mod)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}

	l.mu.Lock()
	l.modules[path] = mod
	l.mu.Unlock()

	l.gate.Infof("loaded extension %s %s from %s", desc.Name, desc.Version, path)
	return desc, nil
}

func (l *WASMLoader) describe(ctx context.Context, path string, mod api.Module) (*graphruntime.ExtensionDescriptor, error) {
	fn := mod.ExportedFunction(EntryPoint)
	if fn == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailure).
			Path(path).
			Detail("missing registration entry point %q", EntryPoint).
			Build()
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return nil, errors.LoadFailure(fmt.Sprintf("registration entry point of %q", path), err)
	}
	if len(results) != 2 {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailure).
			Path(path).
			Detail("malformed registration entry point: want (ptr, len), got %d results", len(results)).
			Build()
	}

	ptr, length := uint32(results[0]), uint32(results[1])
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailure).
			Path(path).
			Detail("extension exports no memory").
			Build()
	}
	raw, ok := mem.Read(ptr, length)
	if !ok {
		return nil, errors.New(errors.PhaseLoad, errors.KindLoadFailure).
			Path(path).
			Detail("descriptor at %d+%d is out of memory bounds", ptr, length).
			Build()
	}

	return ParseDescriptor(raw)
}

// Unload closes the module loaded from path and releases its name so the
// path can be loaded again.
func (l *WASMLoader) Unload(ctx context.Context, path string) error {
	l.mu.Lock()
	mod, ok := l.modules[path]
	delete(l.modules, path)
	l.mu.Unlock()

	if !ok {
		return errors.NotFound(errors.PhaseLoad, "extension", path)
	}
	if err := mod.Close(ctx); err != nil {
		return errors.LoadFailure(fmt.Sprintf("unload extension %q", path), err)
	}
	return nil
}

// Close closes every loaded module and the wazero runtime itself.
func (l *WASMLoader) Close(ctx context.Context) error {
	l.mu.Lock()
	l.modules = nil
	l.mu.Unlock()

	// Closing the runtime closes all modules instantiated in it.
	return l.runtime.Close(ctx)
}
