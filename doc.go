// Package graphruntime provides the extension-loading and entity/component
// lifecycle core of a dataflow graph execution runtime.
//
// Independently compiled capability modules ("extensions") are loaded into a
// process-wide Runtime, their component types registered and resolved across
// extensions, and lightweight containers ("entities") are created, populated
// with typed components, and activated for execution by a scheduler outside
// this module.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	graph-runtime/       Root package with shared identifiers and descriptors
//	├── runtime/         High-level API: the Runtime context handle
//	├── loader/          Extension loaders (wazero-backed dynamic, compiled-in static)
//	├── registry/        Cross-extension type registry and extension bookkeeping
//	├── entity/          Entity/component table and activation lifecycle
//	├── manifest/        Manifest file resolution
//	├── logging/         Process-wide severity gate over zap
//	└── errors/          Structured error types
//
// # Quick Start
//
// Load extensions from a manifest and create an entity:
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	err = rt.LoadExtensions(ctx, graphruntime.LoadExtensionsInfo{
//	    ManifestFilenames: []string{"app_manifest.yaml"},
//	    BaseDirectory:     "/opt/extensions",
//	})
//
//	eid, err := rt.CreateEntity(graphruntime.EntityCreateInfo{Name: "camera"})
//	cid, err := rt.AddComponent(eid, allocatorTID, "pool")
//	err = rt.ActivateEntity(eid)
//
// # Extensions
//
// A dynamic extension is a wasm module exporting the registration entry point
// "ext-describe", which returns a pointer/length pair addressing a YAML
// descriptor in module memory. The descriptor names the extension, its
// version, and the component types it contributes. Extensions may also be
// compiled into the embedding binary and registered through loader.Register.
//
// Type identity is cross-extension: importing a metadata file produced by the
// registration tool makes an extension's component types resolvable without
// loading its implementation, so dependent extensions can load first.
//
// # Process-Global Loading Hazard
//
// Loading extension code is a process-wide side effect even though Runtime
// bookkeeping is per-instance. Two Runtimes in one process sharing a loader
// will each observe the other's loaded code; keep one active Runtime per
// process unless every loaded extension is stateless.
package graphruntime
