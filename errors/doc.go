// Package errors provides structured error types for the graph-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Every public runtime operation reports failure through these
// values; there are no silent partial successes and no panics on recoverable
// conditions.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegistry, errors.KindTypeConflict).
//		Path(tid.String()).
//		Detail("typename mismatch").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseEntity, "entity", eid.String())
//	err := errors.AlreadyLoaded(errors.PhaseLoad, path)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
