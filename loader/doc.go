// Package loader loads extension modules and extracts their descriptors.
//
// Two implementations satisfy the same Loader contract. WASMLoader loads
// independently compiled wasm modules through wazero: it compiles the module,
// requires the exported "ext-describe" registration entry point, and reads
// the YAML extension descriptor the entry point addresses in module memory.
// StaticLoader resolves paths against descriptors compiled into the binary
// for environments without runtime loading.
//
// Loaders load and, when a registration is rejected, unload; the
// duplicate-load guard and type registration belong to the registries, which
// treat both implementations identically.
package loader
