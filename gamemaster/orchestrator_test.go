package gamemaster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrirei/chain-reaction-game-sub001/game"
	"github.com/jrirei/chain-reaction-game-sub001/searcher"
)

// stubStrategy returns a canned move or error regardless of the state.
type stubStrategy struct {
	name string
	move game.Move
	err  error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) DecideMove(*game.GameState, []game.Move, *searcher.Context) (game.Move, error) {
	return s.move, s.err
}

func TestPlayTurn(t *testing.T) {
	t.Run("returns the strategy's move with telemetry", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		want := game.Move{Row: 1, Col: 1, Player: 1}
		o := New()

		result, err := o.PlayTurn(&stubStrategy{name: "stub", move: want}, gs, &searcher.Context{})

		require.NoError(t, err)
		require.Equal(t, want, result.Move)
		require.Equal(t, "stub", result.Strategy)
		require.GreaterOrEqual(t, result.Thinking, time.Duration(0))
	})

	t.Run("fails when no legal moves exist", func(t *testing.T) {
		gs := game.NewGameState(2, 2, []int{1, 2})
		gs.MovesPlayed = 2
		gs.Board.At(0, 0).Orbs = 1
		gs.Board.At(0, 0).Owner = 1 // sole orb owner, game decided
		o := New()

		_, err := o.PlayTurn(&stubStrategy{name: "stub"}, gs, &searcher.Context{})

		require.ErrorIs(t, err, searcher.ErrNoLegalMoves)
	})

	t.Run("rejects a move outside the legal set", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		gs.Board.At(1, 1).Orbs = 1
		gs.Board.At(1, 1).Owner = 2 // enemy cell, not playable by player 1
		o := New()

		_, err := o.PlayTurn(&stubStrategy{
			name: "rogue",
			move: game.Move{Row: 1, Col: 1, Player: 1},
		}, gs, &searcher.Context{})

		var invalid *InvalidMoveError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "rogue", invalid.Strategy)
		require.Contains(t, invalid.Error(), "rogue",
			"the offending strategy must be named in the message")
	})

	t.Run("wraps a strategy failure with its name", func(t *testing.T) {
		gs := game.NewGameState(3, 3, []int{1, 2})
		boom := errors.New("boom")
		o := New()

		_, err := o.PlayTurn(&stubStrategy{name: "stub", err: boom}, gs, &searcher.Context{})

		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "stub")
	})
}

func TestPlayTurnMinDelay(t *testing.T) {
	t.Run("pads an instant decision up to the minimum", func(t *testing.T) {
		now := time.Unix(100, 0)
		var slept time.Duration
		o := New(
			WithMinDelay(800*time.Millisecond),
			WithClock(func() time.Time { return now }),
			WithSleep(func(d time.Duration) { slept = d }),
		)
		gs := game.NewGameState(3, 3, []int{1, 2})

		result, err := o.PlayTurn(&stubStrategy{
			name: "stub",
			move: game.Move{Row: 0, Col: 0, Player: 1},
		}, gs, &searcher.Context{})

		require.NoError(t, err)
		require.Equal(t, 800*time.Millisecond, slept)
		require.Equal(t, 800*time.Millisecond, result.DelayApplied)
		require.Zero(t, result.Thinking)
	})

	t.Run("does not pad a slow decision", func(t *testing.T) {
		now := time.Unix(100, 0)
		var slept time.Duration
		o := New(
			WithMinDelay(time.Millisecond),
			WithClock(func() time.Time {
				now = now.Add(time.Second) // every reading advances the clock
				return now
			}),
			WithSleep(func(d time.Duration) { slept = d }),
		)
		gs := game.NewGameState(3, 3, []int{1, 2})

		result, err := o.PlayTurn(&stubStrategy{
			name: "stub",
			move: game.Move{Row: 0, Col: 0, Player: 1},
		}, gs, &searcher.Context{})

		require.NoError(t, err)
		require.Zero(t, slept)
		require.Zero(t, result.DelayApplied)
		require.Equal(t, time.Second, result.Thinking)
	})
}
