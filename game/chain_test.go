package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestSimulateChainPlacement(t *testing.T) {
	t.Run("placing on an empty cell adds one owned orb", func(t *testing.T) {
		b := NewBoard(3, 3)

		result, err := SimulateChain(b, Move{Row: 1, Col: 1, Player: 1})

		require.NoError(t, err)
		require.Equal(t, 0, result.Steps, "an interior single orb should not explode")
		require.Equal(t, 1, result.Board.At(1, 1).Orbs)
		require.Equal(t, 1, result.Board.At(1, 1).Owner)
		require.Equal(t, 0, b.At(1, 1).Orbs, "the caller's board must not be modified")
	})

	t.Run("placing on an enemy cell is rejected", func(t *testing.T) {
		b := NewBoard(3, 3)
		b.At(1, 1).Orbs = 1
		b.At(1, 1).Owner = 2

		_, err := SimulateChain(b, Move{Row: 1, Col: 1, Player: 1})

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("placing off the board is rejected", func(t *testing.T) {
		b := NewBoard(3, 3)

		_, err := SimulateChain(b, Move{Row: 5, Col: 0, Player: 1})

		require.ErrorIs(t, err, ErrIllegalMove)
	})
}

func TestSimulateChainExplosions(t *testing.T) {
	t.Run("a corner at critical mass explodes into its two neighbors", func(t *testing.T) {
		b := NewBoard(3, 3)
		b.At(0, 0).Orbs = 1
		b.At(0, 0).Owner = 1

		result, err := SimulateChain(b, Move{Row: 0, Col: 0, Player: 1})

		require.NoError(t, err)
		require.Equal(t, 1, result.Steps)
		require.Equal(t, 1, result.Explosions)
		require.Equal(t, 0, result.Board.At(0, 0).Orbs)
		require.Equal(t, NoOwner, result.Board.At(0, 0).Owner)
		require.Equal(t, 1, result.Board.At(0, 1).Orbs)
		require.Equal(t, 1, result.Board.At(1, 0).Orbs)
	})

	t.Run("explosions convert enemy neighbors", func(t *testing.T) {
		b := NewBoard(3, 3)
		b.At(0, 0).Orbs = 1
		b.At(0, 0).Owner = 1
		b.At(0, 1).Orbs = 1
		b.At(0, 1).Owner = 2

		result, err := SimulateChain(b, Move{Row: 0, Col: 0, Player: 1})

		require.NoError(t, err)
		require.Equal(t, 1, result.Steps)
		require.Equal(t, 1, result.Board.At(0, 1).Owner, "the edge cell should flip to the exploder's owner")
		require.Equal(t, 2, result.Board.At(0, 1).Orbs)
	})

	t.Run("simultaneous detonation resolves all overloaded cells in one step", func(t *testing.T) {
		b := NewBoard(3, 3)
		b.At(0, 0).Orbs = 2 // already at corner capacity
		b.At(0, 0).Owner = 1
		b.At(2, 2).Orbs = 2
		b.At(2, 2).Owner = 1
		b.At(1, 1).Orbs = 0

		result, err := SimulateChain(b, Move{Row: 1, Col: 1, Player: 1})

		require.NoError(t, err)
		var firstStep []CellDelta
		for _, d := range result.Deltas {
			if d.Step == 1 {
				firstStep = append(firstStep, d)
			}
		}
		cells := map[[2]int]bool{}
		for _, d := range firstStep {
			cells[[2]int{d.Row, d.Col}] = true
		}
		require.True(t, cells[[2]int{0, 0}], "both corners should detonate in the same step")
		require.True(t, cells[[2]int{2, 2}], "both corners should detonate in the same step")
	})

	t.Run("deltas start with the placement at step zero", func(t *testing.T) {
		b := NewBoard(3, 3)

		result, err := SimulateChain(b, Move{Row: 2, Col: 2, Player: 2})

		require.NoError(t, err)
		require.Len(t, result.Deltas, 1)
		require.Equal(t, CellDelta{Step: 0, Row: 2, Col: 2, OldOrbs: 0, NewOrbs: 1, OldOwner: NoOwner, NewOwner: 2}, result.Deltas[0])
	})
}

func TestSimulateChainConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		rows := 2 + rng.Intn(5)
		cols := 2 + rng.Intn(5)
		b := NewBoard(rows, cols)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if rng.Float64() < 0.5 {
					continue
				}
				cell := b.At(row, col)
				cell.Orbs = 1 + rng.Intn(b.CriticalMass(row, col))
				cell.Owner = 1 + rng.Intn(2)
			}
		}

		player := 1 + rng.Intn(2)
		var legal []Move
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if m := (Move{Row: row, Col: col, Player: player}); IsLegal(b, m) {
					legal = append(legal, m)
				}
			}
		}
		if len(legal) == 0 {
			continue
		}

		before := b.TotalOrbs()
		result, err := SimulateChain(b, legal[rng.Intn(len(legal))])
		require.NoError(t, err)
		require.Equal(t, before+1, result.Board.TotalOrbs(),
			"a chain must redistribute orbs, never create or destroy them (trial %d)", trial)
	}
}

func TestSimulateChainStepCeiling(t *testing.T) {
	// A fully saturated board chains forever; the ceiling must cut the
	// simulation off instead of spinning.
	b := NewBoard(6, 6)
	for row := 0; row < 6; row++ {
		for col := 0; col < 6; col++ {
			cell := b.At(row, col)
			cell.Orbs = b.CriticalMass(row, col) - 1
			cell.Owner = 1
		}
	}

	result, err := SimulateChain(b, Move{Row: 0, Col: 0, Player: 1})

	require.NoError(t, err)
	require.LessOrEqual(t, result.Steps, MaxChainSteps)
	require.Equal(t, b.TotalOrbs()+1, result.Board.TotalOrbs(),
		"conservation must hold even when the ceiling truncates the chain")
}

func TestBoardAdvantage(t *testing.T) {
	b := NewBoard(3, 3)
	b.At(0, 0).Orbs = 3
	b.At(0, 0).Owner = 1
	b.At(2, 2).Orbs = 1
	b.At(2, 2).Owner = 2

	require.Equal(t, 2, BoardAdvantage(b, 1))
	require.Equal(t, -2, BoardAdvantage(b, 2))
}

func TestPlayerHasOrbs(t *testing.T) {
	b := NewBoard(2, 2)
	require.False(t, PlayerHasOrbs(b, 1))

	b.At(0, 0).Orbs = 1
	b.At(0, 0).Owner = 1
	require.True(t, PlayerHasOrbs(b, 1))
	require.False(t, PlayerHasOrbs(b, 2))
}

func TestCriticalMass(t *testing.T) {
	b := NewBoard(4, 5)
	require.Equal(t, 2, b.CriticalMass(0, 0), "corner")
	require.Equal(t, 2, b.CriticalMass(3, 4), "corner")
	require.Equal(t, 3, b.CriticalMass(0, 2), "edge")
	require.Equal(t, 3, b.CriticalMass(2, 0), "edge")
	require.Equal(t, 4, b.CriticalMass(1, 2), "interior")
}
