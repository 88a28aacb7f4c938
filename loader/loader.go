package loader

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	graphruntime "github.com/wippyai/graph-runtime"
	"github.com/wippyai/graph-runtime/errors"
	"github.com/wippyai/graph-runtime/registry"
)

// EntryPoint is the registration entry point every extension module must
// export. It takes no parameters and returns a pointer/length pair
// addressing the extension's YAML descriptor in module memory.
const EntryPoint = "ext-describe"

// Loader loads an extension by filesystem path and yields its descriptor.
//
// Implementations carry the process-global side effects of code loading;
// the duplicate-load and type-registration bookkeeping stays with the
// caller's registries, so both implementations satisfy the same idempotency
// contract.
type Loader interface {
	// Load loads the extension at path and returns its validated
	// descriptor. Failure modes are distinct: a missing file, a module
	// that fails to load or link, and a missing or malformed registration
	// entry point each report their own condition.
	Load(ctx context.Context, path string) (*graphruntime.ExtensionDescriptor, error)

	// Unload releases the module previously loaded from path. The runtime
	// uses it to back out a load whose registration was rejected; a
	// registered extension is never unloaded before Close.
	Unload(ctx context.Context, path string) error

	// Close releases every module this loader has loaded. Only safe at
	// context teardown; see the registry package for why.
	Close(ctx context.Context) error
}

// ParseDescriptor parses and validates the YAML descriptor bytes a
// registration entry point produced.
func ParseDescriptor(data []byte) (*graphruntime.ExtensionDescriptor, error) {
	var desc graphruntime.ExtensionDescriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindLoadFailure, err,
			"parse extension descriptor")
	}
	if err := registry.ValidateDescriptor(&desc); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindLoadFailure, err,
			fmt.Sprintf("invalid extension descriptor %q", desc.Name))
	}
	return &desc, nil
}
