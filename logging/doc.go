// Package logging provides the severity gate shared by all runtime
// components.
//
// A Gate pairs a zap logger with a single mutable severity threshold in the
// closed set {none, error, warning, info, debug}. Emission call sites compare
// their fixed level against the threshold and emit iff level <= threshold.
// The threshold is read and written atomically, so a change is observed by
// all subsequent emissions without retroactive effect.
package logging
