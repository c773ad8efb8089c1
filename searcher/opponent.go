package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// OpponentMCTS defers to the greedy heuristic while the board is nearly
// empty, then switches to MCTS whose simulation assumes a simplified
// opponent: one who greedily looks for explosive replies adjacent to
// the engine's own last placement. The threshold is a fixed orb count;
// it deliberately does not scale with board size.
type OpponentMCTS struct {
	Budget        time.Duration
	MaxIterations int
	EarlyGameOrbs int
	// RetaliationWeight scales how much a modeled enemy counter-blast
	// discounts a candidate.
	RetaliationWeight float64

	greedy   *DefaultBot
	lastMove game.Move
	hasLast  bool
	metrics  Collector
}

func NewOpponentMCTS() *OpponentMCTS {
	return &OpponentMCTS{
		Budget:            2 * time.Second,
		MaxIterations:     IterationCeiling,
		EarlyGameOrbs:     8,
		RetaliationWeight: 1.0,
		greedy:            NewDefaultBot(),
		metrics:           NewNoopCollector(),
	}
}

func (o *OpponentMCTS) Name() string { return NameMCTSOpponent }

func (o *OpponentMCTS) SetCollector(collector Collector) {
	if collector != nil {
		o.metrics = collector
	}
}

func (o *OpponentMCTS) Metrics() Collector { return o.metrics }

// LastMove returns the engine's previously chosen move, the rollout
// context for the opponent model.
func (o *OpponentMCTS) LastMove() (game.Move, bool) {
	return o.lastMove, o.hasLast
}

func (o *OpponentMCTS) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		if err == nil {
			o.remember(move)
		}
		return move, err
	}

	if state.Board.TotalOrbs() < o.EarlyGameOrbs {
		move, err := o.greedy.DecideMove(state, legal, ctx)
		if err == nil {
			o.remember(move)
		}
		return move, err
	}

	o.metrics.Begin()
	move := runSearch(state, legal, ctx, searchParams{
		budget:        o.Budget,
		maxIterations: o.MaxIterations,
		simulate:      o.simulate,
		metrics:       o.metrics,
	})
	o.remember(move)
	return move, nil
}

func (o *OpponentMCTS) remember(m game.Move) {
	o.lastMove = m
	o.hasLast = true
}

// simulate scores a candidate, then lets the modeled opponent answer
// with its best explosive move adjacent to the candidate's cell and
// charges the resulting advantage swing against the score.
func (o *OpponentMCTS) simulate(parent *game.GameState, m game.Move, rng *rand.Rand) float64 {
	score := game.EvaluateMove(parent.Board, m, game.Aggressive)

	mid, err := parent.Play(m)
	if err != nil {
		return clampProb(pseudoWinProb(game.SimulationPenalty, rng))
	}
	if reply, ok := o.modelReply(mid, m); ok {
		if result, err := game.SimulateChain(mid.Board, reply); err == nil {
			swing := game.BoardAdvantage(result.Board, m.Player) - game.BoardAdvantage(mid.Board, m.Player)
			if swing < 0 {
				score += float64(swing) * o.RetaliationWeight
			}
		}
	}
	return pseudoWinProb(score, rng)
}

// modelReply picks the opponent's explosive move adjacent to the
// engine's placement with the longest chain, if any exists.
func (o *OpponentMCTS) modelReply(state *game.GameState, last game.Move) (game.Move, bool) {
	var best game.Move
	bestSteps := -1
	for _, m := range state.LegalMoves() {
		if m.Player == last.Player {
			continue
		}
		if manhattan(m, last) != 1 {
			continue
		}
		if !game.IsExplosiveMove(state.Board, m) {
			continue
		}
		if steps := game.CountChainSteps(state.Board, m); steps > bestSteps {
			best, bestSteps = m, steps
		}
	}
	return best, bestSteps >= 0
}
