package tevent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moraneus/PoET/internal/vclock"
)

func TestNewRejectsEmptyProcesses(t *testing.T) {
	vc, err := vclock.FromInts([]int{1, 0})
	require.NoError(t, err)

	_, err = New("e1", nil, []string{"a"}, vc)
	require.Error(t, err)
}

func TestNewAllowsEmptyPropositions(t *testing.T) {
	vc, err := vclock.FromInts([]int{1, 0})
	require.NoError(t, err)

	e, err := New("e1", []int{0}, nil, vc)
	require.NoError(t, err)
	require.Equal(t, 0, e.Propositions.Len())
}

func TestParticipates(t *testing.T) {
	vc, err := vclock.FromInts([]int{1, 1})
	require.NoError(t, err)

	e, err := New("e3", []int{0, 1}, []string{"c"}, vc)
	require.NoError(t, err)
	require.True(t, e.Participates(0))
	require.True(t, e.Participates(1))
	require.False(t, e.Participates(2))
}
