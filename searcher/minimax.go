package searcher

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// gamePhase is derived once per decision from the board fill ratio and
// selects the weight table tuned for that stretch of the game.
type gamePhase int

const (
	phaseEarly gamePhase = iota
	phaseMid
	phaseLate
)

func (p gamePhase) String() string {
	switch p {
	case phaseEarly:
		return "early"
	case phaseMid:
		return "mid"
	default:
		return "late"
	}
}

func detectPhase(b *game.Board) gamePhase {
	fill := b.FillRatio()
	switch {
	case fill < 0.3:
		return phaseEarly
	case fill <= 0.7:
		return phaseMid
	default:
		return phaseLate
	}
}

// Early play grabs corners and edges; late play chases chains and
// tolerates contact.
func phaseWeights(p gamePhase) game.EvalWeights {
	switch p {
	case phaseEarly:
		return game.EvalWeights{
			Name:         "minimax-early",
			CriticalMass: 1.5,
			Explosion:    2.0,
			ChainStep:    1.0,
			Corner:       2.0,
			Edge:         1.2,
			Interior:     0.3,
			Threat:       -0.8,
			Advantage:    0.4,
		}
	case phaseMid:
		return game.EvalWeights{
			Name:         "minimax-mid",
			CriticalMass: 2.0,
			Explosion:    3.5,
			ChainStep:    2.0,
			Corner:       1.2,
			Edge:         0.8,
			Interior:     0.5,
			Threat:       -0.3,
			Advantage:    0.7,
		}
	default:
		return game.EvalWeights{
			Name:         "minimax-late",
			CriticalMass: 2.5,
			Explosion:    5.0,
			ChainStep:    4.0,
			Corner:       0.8,
			Edge:         0.6,
			Interior:     0.6,
			Threat:       0.2,
			Advantage:    1.0,
		}
	}
}

const winValue = 1_000_000.0

// Minimax is the depth-limited alpha-beta engine: phase-adaptive
// weights, an immediate-win short-circuit, a heuristic beam to bound
// branching, and graceful degradation to static evaluation when the
// deadline passes mid-recursion.
type Minimax struct {
	Budget    time.Duration
	BeamWidth int
	// A move whose isolated chain reaches this many steps is played
	// immediately without deeper search.
	KillerChainSteps int
	// Remaining budget at or above DeepBudget searches one ply deeper.
	DeepBudget time.Duration
}

func NewMinimax() *Minimax {
	return &Minimax{
		Budget:           1500 * time.Millisecond,
		BeamWidth:        8,
		KillerChainSteps: 4,
		DeepBudget:       1200 * time.Millisecond,
	}
}

func (mm *Minimax) Name() string { return NameMinimax }

type scoredMove struct {
	move  game.Move
	score float64
}

func (mm *Minimax) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		return move, err
	}

	clock := ctx.clock()
	deadline := ctx.deadline(mm.Budget)
	phase := detectPhase(state.Board)
	weights := phaseWeights(phase)

	// Killer short-circuit: a winning move, or one whose chain potential
	// is already decisive, skips the deeper search entirely.
	if wins := game.FindWinningMoves(state.Board, legal); len(wins) > 0 {
		return wins[0], nil
	}
	for _, m := range legal {
		if game.IsExplosiveMove(state.Board, m) && game.CountChainSteps(state.Board, m) >= mm.KillerChainSteps {
			return m, nil
		}
	}

	// Beam: keep only the heuristically best candidates for the
	// expensive search below.
	scored := make([]scoredMove, len(legal))
	for i, m := range legal {
		scored[i] = scoredMove{move: m, score: game.EvaluateMove(state.Board, m, weights)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	beam := scored
	if len(beam) > mm.BeamWidth {
		beam = beam[:mm.BeamWidth]
	}

	depth := 2
	if deadline.Sub(clock()) >= mm.DeepBudget {
		depth = 3
	}
	log.Debug().
		Str("phase", phase.String()).
		Int("depth", depth).
		Int("beam", len(beam)).
		Msg("minimax search")

	// The top heuristic move wins unless the search strictly improves
	// on some candidate.
	best := beam[0].move
	bestValue := math.Inf(-1)
	for _, candidate := range beam {
		child, err := state.Play(candidate.move)
		if err != nil {
			continue
		}
		value := mm.alphabeta(child, depth-1, math.Inf(-1), math.Inf(1), false, state.CurrentPlayer, weights, clock, deadline)
		if value > bestValue {
			best, bestValue = candidate.move, value
		}
	}
	return best, nil
}

// alphabeta recurses to the given depth, alternating maximizing and
// minimizing turns and pruning when beta <= alpha. The deadline is
// checked at every node; once passed, the static evaluation is returned
// instead of recursing further.
func (mm *Minimax) alphabeta(state *game.GameState, depth int, alpha, beta float64, maximizing bool, me int, weights game.EvalWeights, clock func() time.Time, deadline time.Time) float64 {
	if winner := state.Winner(); winner != game.NoOwner {
		if winner == me {
			return winValue + float64(depth)
		}
		return -winValue - float64(depth)
	}
	if depth <= 0 || !clock().Before(deadline) {
		return mm.static(state, me)
	}

	moves := state.LegalMoves()
	if len(moves) == 0 {
		return mm.static(state, me)
	}
	moves = mm.orderedBeam(state, moves, weights)

	if maximizing {
		value := math.Inf(-1)
		for _, m := range moves {
			child, err := state.Play(m)
			if err != nil {
				continue
			}
			value = math.Max(value, mm.alphabeta(child, depth-1, alpha, beta, false, me, weights, clock, deadline))
			alpha = math.Max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, m := range moves {
		child, err := state.Play(m)
		if err != nil {
			continue
		}
		value = math.Min(value, mm.alphabeta(child, depth-1, alpha, beta, true, me, weights, clock, deadline))
		beta = math.Min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value
}

// orderedBeam bounds inner-node branching the same way the root does.
func (mm *Minimax) orderedBeam(state *game.GameState, moves []game.Move, weights game.EvalWeights) []game.Move {
	if len(moves) <= mm.BeamWidth {
		return moves
	}
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: game.EvaluateMove(state.Board, m, weights)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	beam := make([]game.Move, mm.BeamWidth)
	for i := range beam {
		beam[i] = scored[i].move
	}
	return beam
}

func (mm *Minimax) static(state *game.GameState, me int) float64 {
	return float64(game.BoardAdvantage(state.Board, me))
}
