package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/graph-runtime/entity"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/loader"
	"github.com/wippyai/graph-runtime/logging"
	"github.com/wippyai/graph-runtime/registry"
)

// Runtime is the context handle owning all extension, registry, and entity
// state. It is created once, passed explicitly to every operation, and torn
// down once; multiple independent Runtimes may exist, subject to the
// process-global loading hazard documented in the root package.
type Runtime struct {
	gate     *logging.Gate
	types    *registry.TypeRegistry
	exts     *registry.ExtensionRegistry
	loader   loader.Loader
	entities *entity.Manager
	mu       sync.Mutex
	closed   atomic.Bool
}

// Option configures a Runtime at creation.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	loader   loader.Loader
	severity logging.Severity
	hasSev   bool
}

// WithLogger sets the zap logger behind the severity gate. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithLoader sets the extension loader. The default is a wazero-backed
// dynamic loader; pass loader.Default() to resolve against compiled-in
// extensions instead.
func WithLoader(l loader.Loader) Option {
	return func(c *config) { c.loader = l }
}

// WithSeverity sets the initial severity threshold.
func WithSeverity(s logging.Severity) Option {
	return func(c *config) { c.severity = s; c.hasSev = true }
}

// New creates a Runtime.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	gate := logging.NewGate(cfg.logger)
	if cfg.hasSev {
		if err := gate.SetSeverity(cfg.severity); err != nil {
			return nil, err
		}
	}

	ld := cfg.loader
	if ld == nil {
		var err error
		ld, err = loader.NewWASMLoader(ctx, gate)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInternal, err, "create loader")
		}
	}

	types := registry.NewTypeRegistry(gate)
	return &Runtime{
		gate:     gate,
		types:    types,
		exts:     registry.NewExtensionRegistry(),
		loader:   ld,
		entities: entity.NewManager(types, gate),
	}, nil
}

// Close tears the context down: program deactivation, entity destruction,
// then extension release. Extensions are only unloaded here, never earlier,
// so no live entity can be left with a dangling type resolution.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.entities.DestroyAll()
	if err := r.loader.Close(ctx); err != nil {
		r.gate.Errorf("close loader: %v", err)
		return errors.Wrap(errors.PhaseRuntime, errors.KindInternal, err, "close loader")
	}
	return nil
}

// SetSeverity sets the severity threshold observed by all subsequent log
// emissions from this context.
func (r *Runtime) SetSeverity(s logging.Severity) error {
	return r.gate.SetSeverity(s)
}

// Severity returns the current severity threshold.
func (r *Runtime) Severity() logging.Severity {
	return r.gate.Severity()
}

// Gate returns the context's severity gate.
func (r *Runtime) Gate() *logging.Gate {
	return r.gate
}

// checkOpen guards every mutating operation, extension and entity alike; a
// torn-down context accepts no further mutations.
func (r *Runtime) checkOpen() error {
	if r.closed.Load() {
		return errors.InvalidArgument(errors.PhaseRuntime, "context is closed")
	}
	return nil
}
