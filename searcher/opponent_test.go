package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

func TestOpponentMCTSEarlyGame(t *testing.T) {
	// Below the orb threshold the strategy defers to the greedy
	// heuristic, so both must pick the same move.
	gs := game.NewGameState(5, 5, []int{1, 2})
	gs.Board.At(2, 2).Orbs = 1
	gs.Board.At(2, 2).Owner = 1
	gs.Board.At(0, 4).Orbs = 1
	gs.Board.At(0, 4).Owner = 2
	require.Less(t, gs.Board.TotalOrbs(), 8)

	o := NewOpponentMCTS()
	legal := gs.LegalMoves()

	got, err := o.DecideMove(gs, legal, fixedContext(1, time.Second))
	require.NoError(t, err)

	want, err := NewDefaultBot().DecideMove(gs, legal, fixedContext(1, time.Second))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOpponentMCTSRemembersLastMove(t *testing.T) {
	o := NewOpponentMCTS()

	_, ok := o.LastMove()
	require.False(t, ok, "no move has been decided yet")

	gs := game.NewGameState(3, 3, []int{1, 2})
	move, err := o.DecideMove(gs, gs.LegalMoves(), fixedContext(1, time.Second))
	require.NoError(t, err)

	last, ok := o.LastMove()
	require.True(t, ok)
	require.Equal(t, move, last)
}

func TestModelReply(t *testing.T) {
	o := NewOpponentMCTS()

	t.Run("finds the adjacent counter-blast", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		gs.CurrentPlayer = 2
		gs.MovesPlayed = 2
		gs.Board.At(1, 1).Orbs = 1
		gs.Board.At(1, 1).Owner = 1
		gs.Board.At(0, 1).Orbs = 2 // edge, one placement from critical
		gs.Board.At(0, 1).Owner = 2

		reply, ok := o.modelReply(gs, game.Move{Row: 1, Col: 1, Player: 1})

		require.True(t, ok)
		require.Equal(t, game.Move{Row: 0, Col: 1, Player: 2}, reply)
	})

	t.Run("ignores explosive moves out of reach", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		gs.CurrentPlayer = 2
		gs.MovesPlayed = 2
		gs.Board.At(1, 1).Orbs = 1
		gs.Board.At(1, 1).Owner = 1
		gs.Board.At(2, 0).Orbs = 1 // corner two steps away
		gs.Board.At(2, 0).Owner = 2

		_, ok := o.modelReply(gs, game.Move{Row: 1, Col: 1, Player: 1})

		require.False(t, ok, "only replies adjacent to the last placement count")
	})

	t.Run("reports nothing when the opponent has no explosion", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		gs.CurrentPlayer = 2
		gs.MovesPlayed = 2
		gs.Board.At(1, 1).Orbs = 1
		gs.Board.At(1, 1).Owner = 1

		_, ok := o.modelReply(gs, game.Move{Row: 1, Col: 1, Player: 1})

		require.False(t, ok)
	})
}

func TestOpponentMCTSPunishesRetaliation(t *testing.T) {
	// Past the early-game threshold, a candidate the enemy can blast
	// should score no better than the same candidate with no threat.
	gs := game.NewGameState(4, 4, []int{1, 2})
	gs.MovesPlayed = 4
	gs.Board.At(3, 3).Orbs = 3
	gs.Board.At(3, 3).Owner = 1
	gs.Board.At(0, 0).Orbs = 1
	gs.Board.At(0, 0).Owner = 1
	gs.Board.At(1, 2).Orbs = 3
	gs.Board.At(1, 2).Owner = 2
	gs.Board.At(2, 1).Orbs = 1
	gs.Board.At(2, 1).Owner = 2
	require.GreaterOrEqual(t, gs.Board.TotalOrbs(), 8)

	o := NewOpponentMCTS()
	o.MaxIterations = 1500

	move, err := o.DecideMove(gs, gs.LegalMoves(), fixedContext(7, 5*time.Second))

	require.NoError(t, err)
	require.True(t, game.IsLegal(gs.Board, move))
	require.Equal(t, 1, move.Player)
}
