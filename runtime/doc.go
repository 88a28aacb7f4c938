// Package runtime provides the high-level context handle of the graph
// runtime core.
//
// A Runtime owns the severity gate, the type and extension registries, the
// extension loader, and the entity manager. Every operation takes the
// Runtime explicitly; there is no hidden singleton, so a process can host
// independent contexts and reason about teardown order directly. All
// mutating operations are safe under concurrent invocation on one Runtime;
// callers must not race lifecycle transitions on a single entity id.
package runtime
