// Package registry maintains cross-extension type identity and per-context
// extension bookkeeping.
//
// The TypeRegistry maps stable type identifiers (TIDs) to component type
// records. Records enter it two ways: a full extension load committing the
// types its registration entry point declared, or a metadata-only import of
// a file produced by the registration tool. Both sources merge: identical
// records are a no-op, disagreeing records are a type conflict. Resolution
// only needs the record, never the implementation, which is what lets an
// extension declare dependencies on another's types by importing its
// metadata file and deferring (or skipping) the full load.
//
// The ExtensionRegistry enforces the single-full-load invariant: an
// extension identity fully loaded once in a context is rejected on a second
// load, while a full load over a metadata-only record upgrades it.
package registry
