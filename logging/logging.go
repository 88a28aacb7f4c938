package logging

import (
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/graph-runtime/errors"
)

// Severity is the closed set of diagnostic levels, strictly ordered by
// increasing verbosity. Setting a threshold of L enables emission of all
// levels <= L; SeverityNone suppresses everything.
type Severity int32

const (
	SeverityNone    Severity = 0
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
	SeverityDebug   Severity = 4
)

// String returns a string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int32(s))
	}
}

// ParseSeverity parses a severity name as used by CLI flags.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SeverityNone, nil
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "debug":
		return SeverityDebug, nil
	default:
		return SeverityNone, errors.InvalidArgument(errors.PhaseRuntime,
			fmt.Sprintf("unknown severity %q", s))
	}
}

// Gate is the process-wide severity filter applied by every emission call
// site in the runtime. The threshold is mutated atomically and observed by
// all subsequent emissions; already-emitted output is unaffected.
type Gate struct {
	logger *zap.Logger
	level  atomic.Int32
}

// NewGate creates a gate writing through the given zap logger. A nil logger
// uses a no-op logger, matching the library default. The initial threshold
// is SeverityInfo.
func NewGate(logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{logger: logger}
	g.level.Store(int32(SeverityInfo))
	return g
}

// SetSeverity sets the threshold. It takes effect for all subsequent
// emissions from any component sharing this gate.
func (g *Gate) SetSeverity(s Severity) error {
	if s < SeverityNone || s > SeverityDebug {
		return errors.InvalidArgument(errors.PhaseRuntime,
			fmt.Sprintf("severity %d out of range", int32(s)))
	}
	g.level.Store(int32(s))
	return nil
}

// Severity returns the current threshold.
func (g *Gate) Severity() Severity {
	return Severity(g.level.Load())
}

// Enabled reports whether an emission at level s passes the gate.
func (g *Gate) Enabled(s Severity) bool {
	return s != SeverityNone && s <= g.Severity()
}

// Logger returns the underlying zap logger, ungated.
func (g *Gate) Logger() *zap.Logger {
	return g.logger
}

// Errorf emits at error level if the gate permits.
func (g *Gate) Errorf(format string, args ...any) {
	if g.Enabled(SeverityError) {
		g.logger.Sugar().Errorf(format, args...)
	}
}

// Warnf emits at warning level if the gate permits.
func (g *Gate) Warnf(format string, args ...any) {
	if g.Enabled(SeverityWarning) {
		g.logger.Sugar().Warnf(format, args...)
	}
}

// Infof emits at info level if the gate permits.
func (g *Gate) Infof(format string, args ...any) {
	if g.Enabled(SeverityInfo) {
		g.logger.Sugar().Infof(format, args...)
	}
}

// Debugf emits at debug level if the gate permits.
func (g *Gate) Debugf(format string, args ...any) {
	if g.Enabled(SeverityDebug) {
		g.logger.Sugar().Debugf(format, args...)
	}
}
