package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidTrace(t *testing.T) {
	path := writeTrace(t, `{
		"processes": 2,
		"process_names": ["alice", "bob"],
		"events": [
			["e1", ["P1"], ["a"], [1, 0]],
			["e2", ["P2"], ["b"], [0, 1]],
			["e3", ["P1", "P2"], ["c"], [2, 2]]
		]
	}`)

	tr, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Width)
	require.Equal(t, []string{"alice", "bob"}, tr.ProcessNames)
	require.Len(t, tr.Events, 3)
	require.True(t, tr.Events[0].Participates(0))
	require.False(t, tr.Events[0].Participates(1))
}

func TestLoadRejectsBadParticipant(t *testing.T) {
	path := writeTrace(t, `{
		"processes": 2,
		"events": [["e1", ["P3"], [], [1, 0]]]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	var fmtErr *TraceFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestLoadRejectsWrongVCWidth(t *testing.T) {
	path := writeTrace(t, `{
		"processes": 2,
		"events": [["e1", ["P1"], [], [1]]]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	var fmtErr *TraceFormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestLoadRejectsCausalGap(t *testing.T) {
	path := writeTrace(t, `{
		"processes": 2,
		"events": [["e1", ["P1"], [], [2, 0]]]
	}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingProcesses(t *testing.T) {
	path := writeTrace(t, `{"events": []}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeTrace(t, `not json`)
	_, err := Load(path)
	require.Error(t, err)
}
