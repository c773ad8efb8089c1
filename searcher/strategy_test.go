package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("constructs every registered strategy", func(t *testing.T) {
		for _, name := range Names() {
			strategy, err := New(name)
			require.NoError(t, err)
			require.Equal(t, name, strategy.Name())
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		strategy, err := New("quantum")
		require.ErrorIs(t, err, ErrUnknownStrategy)
		require.Nil(t, strategy)
	})

	t.Run("returns fresh instances", func(t *testing.T) {
		a, err := New(NameMCTSOptimized)
		require.NoError(t, err)
		b, err := New(NameMCTSOptimized)
		require.NoError(t, err)
		require.NotSame(t, a, b, "strategies carry per-instance state")
	})
}

func TestNames(t *testing.T) {
	names := Names()

	require.Contains(t, names, NameDefault)
	require.Contains(t, names, NameMinimax)
	require.Contains(t, names, NameMCTS)
	require.Contains(t, names, NameMCTSOptimized)
	require.Contains(t, names, NameMCTSHybrid)
	require.Contains(t, names, NameMCTSOpponent)
	require.Len(t, names, 6)
}
