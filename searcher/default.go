package searcher

import (
	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// DefaultBot plays the highest-scoring move under a single weight
// preset, with no lookahead. It is the baseline the search engines are
// measured against, and the fallback behavior of the opponent-model
// engine in the early game.
type DefaultBot struct {
	Weights game.EvalWeights
}

func NewDefaultBot() *DefaultBot {
	return &DefaultBot{Weights: game.Balanced}
}

func (d *DefaultBot) Name() string { return NameDefault }

func (d *DefaultBot) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		return move, err
	}

	best := legal[0]
	bestScore := game.EvaluateMove(state.Board, best, d.Weights)
	for _, m := range legal[1:] {
		if score := game.EvaluateMove(state.Board, m, d.Weights); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, nil
}
