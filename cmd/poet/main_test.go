package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMutexExampleReportsFalseWithoutError(t *testing.T) {
	cmd := runCmd()
	require.NoError(t, cmd.Flags().Set("property", "../../testdata/mutex/property.pctl"))
	require.NoError(t, cmd.Flags().Set("trace", "../../testdata/mutex/trace.json"))

	// A FALSE verdict is not an error: exit code 0 regardless of verdict
	// (spec.md §6).
	err := run(cmd)
	require.NoError(t, err)
}

func TestRunHandshakeExampleReportsTrueWithoutError(t *testing.T) {
	cmd := runCmd()
	require.NoError(t, cmd.Flags().Set("property", "../../testdata/handshake/property.pctl"))
	require.NoError(t, cmd.Flags().Set("trace", "../../testdata/handshake/trace.json"))

	err := run(cmd)
	require.NoError(t, err)
}

func TestRunMissingTraceIsFormatError(t *testing.T) {
	cmd := runCmd()
	require.NoError(t, cmd.Flags().Set("property", "../../testdata/mutex/property.pctl"))
	require.NoError(t, cmd.Flags().Set("trace", "../../testdata/does-not-exist.json"))

	err := run(cmd)
	require.Error(t, err)
	require.Equal(t, exitFormatError, exitCodeFor(err))
}

// TestRunCausalGapIsCaughtAtLoad exercises a trace with a causal gap (an
// event whose vc skips a local index). trace.Load runs tevent.ValidateSequence
// before the State Manager ever sees the events, so this surfaces as a
// TraceFormatError (exitFormatError), not as the engine's own
// *engine.CausalityError — which unit tests in internal/engine exercise
// directly by handing the State Manager a hand-built Event that bypasses
// this pre-check.
func TestRunCausalGapIsCaughtAtLoad(t *testing.T) {
	cmd := runCmd()

	dir := t.TempDir()
	propPath := dir + "/always-true.pctl"
	require.NoError(t, os.WriteFile(propPath, []byte("TRUE"), 0o644))
	require.NoError(t, cmd.Flags().Set("property", propPath))

	tracePath := dir + "/gap.json"
	require.NoError(t, os.WriteFile(tracePath, []byte(`{"processes":1,"events":[["e1",["P1"],[],[2]]]}`), 0o644))
	require.NoError(t, cmd.Flags().Set("trace", tracePath))

	err := run(cmd)
	require.Error(t, err)
	require.Equal(t, exitFormatError, exitCodeFor(err))
}
