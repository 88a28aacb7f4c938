package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedGate() (*Gate, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGate(zap.New(core)), logs
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "none", SeverityNone.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "debug", SeverityDebug.String())
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"none", SeverityNone, true},
		{"error", SeverityError, true},
		{"WARN", SeverityWarning, true},
		{"warning", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{" debug ", SeverityDebug, true},
		{"verbose", SeverityNone, false},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got, tt.in)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestGate_DefaultThreshold(t *testing.T) {
	g, logs := newObservedGate()

	assert.Equal(t, SeverityInfo, g.Severity())

	g.Infof("visible")
	g.Debugf("suppressed")
	assert.Equal(t, 1, logs.Len())
}

func TestGate_ThresholdSuppression(t *testing.T) {
	g, logs := newObservedGate()

	require.NoError(t, g.SetSeverity(SeverityError))

	g.Debugf("d")
	g.Infof("i")
	g.Warnf("w")
	assert.Equal(t, 0, logs.Len(), "levels above threshold must be suppressed")

	g.Errorf("e")
	assert.Equal(t, 1, logs.Len(), "error level must pass an error threshold")
}

func TestGate_NoneSuppressesAll(t *testing.T) {
	g, logs := newObservedGate()

	require.NoError(t, g.SetSeverity(SeverityNone))

	g.Errorf("e")
	g.Warnf("w")
	g.Infof("i")
	g.Debugf("d")
	assert.Equal(t, 0, logs.Len())
}

func TestGate_MutationTakesImmediateEffect(t *testing.T) {
	g, logs := newObservedGate()

	g.Debugf("before")
	assert.Equal(t, 0, logs.Len())

	require.NoError(t, g.SetSeverity(SeverityDebug))
	g.Debugf("after")
	assert.Equal(t, 1, logs.Len())

	// No retroactive effect: emitting again after lowering only stops new output.
	require.NoError(t, g.SetSeverity(SeverityError))
	g.Debugf("late")
	assert.Equal(t, 1, logs.Len())
}

func TestGate_SetSeverityRange(t *testing.T) {
	g := NewGate(nil)

	assert.Error(t, g.SetSeverity(Severity(-1)))
	assert.Error(t, g.SetSeverity(Severity(5)))
	assert.NoError(t, g.SetSeverity(SeverityDebug))
}

func TestGate_NilLogger(t *testing.T) {
	g := NewGate(nil)
	require.NotNil(t, g.Logger())

	// Must not panic.
	g.Errorf("e")
	g.Infof("i")
}
