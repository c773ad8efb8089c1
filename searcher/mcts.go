package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

const (
	// IterationCeiling stops a search that a long deadline never would.
	IterationCeiling = 100_000

	// winProbScale maps raw evaluator scores onto [0,1] around 0.5.
	winProbScale = 20.0
	// simulationJitter breaks ties between equally-scored simulations.
	simulationJitter = 0.02
)

// simulateFn scores the position reached by playing m from parent and
// returns a pseudo win probability in (0,1) for the mover.
type simulateFn func(parent *game.GameState, m game.Move, rng *rand.Rand) float64

// searchParams configures one run of the shared MCTS skeleton.
type searchParams struct {
	budget        time.Duration
	maxIterations int
	simulate      simulateFn
	metrics       Collector
}

// MCTS is the plain UCB1 engine: uniform random expansion,
// evaluation-based simulation, robust-child selection.
type MCTS struct {
	budget        time.Duration
	maxIterations int
	weights       game.EvalWeights
	metrics       Collector
}

type MCTSOption func(*MCTS)

func WithBudget(budget time.Duration) MCTSOption {
	return func(m *MCTS) {
		if budget > 0 {
			m.budget = budget
		}
	}
}

func WithIterationCeiling(iterations int) MCTSOption {
	return func(m *MCTS) {
		if iterations > 0 {
			m.maxIterations = iterations
		}
	}
}

func WithCollector(collector Collector) MCTSOption {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(options ...MCTSOption) *MCTS {
	m := &MCTS{
		budget:        2 * time.Second,
		maxIterations: IterationCeiling,
		weights:       game.Aggressive,
		metrics:       NewNoopCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) Name() string { return NameMCTS }

// Metrics returns the engine's collector for telemetry readers.
func (m *MCTS) Metrics() Collector { return m.metrics }

func (m *MCTS) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		return move, err
	}
	m.metrics.Begin()
	move := runSearch(state, legal, ctx, searchParams{
		budget:        m.budget,
		maxIterations: m.maxIterations,
		simulate:      evalSimulation(m.weights),
		metrics:       m.metrics,
	})
	return move, nil
}

// runSearch drives select/expand/simulate/backpropagate cycles until
// the deadline or the iteration ceiling, whichever comes first. The
// deadline is resolved once at entry and polled once per cycle; at
// least one cycle always runs so the root has an expanded child.
func runSearch(state *game.GameState, rootMoves []game.Move, ctx *Context, p searchParams) game.Move {
	rng := ctx.rng()
	clock := ctx.clock()
	deadline := ctx.deadline(p.budget)

	t := newTree(rootMoves)
	for iteration := 0; ; iteration++ {
		if iteration > 0 && (iteration >= p.maxIterations || !clock().Before(deadline)) {
			break
		}
		runCycle(t, state, rng, p.simulate)
		p.metrics.AddIteration()
	}
	return t.bestMove(rootID)
}

// runCycle performs one selection, expansion, simulation, and
// backpropagation pass over the arena.
func runCycle(t *tree, rootState *game.GameState, rng *rand.Rand, simulate simulateFn) {
	id := rootID
	state := rootState

	// Selection: descend fully-expanded nodes via UCB1.
	for len(t.at(id).untried) == 0 && len(t.at(id).children) > 0 {
		id = selectUCB(t, id)
		next, err := state.Play(t.at(id).move)
		if err != nil {
			// Simulator rejected a stored move; degrade to a loss for
			// the mover rather than aborting the search.
			t.backup(id, t.at(id).player, 0)
			return
		}
		state = next
	}

	n := t.at(id)
	if len(n.untried) == 0 {
		// Terminal node: score the decided game directly.
		outcome := 0.0
		if state.Winner() == n.player {
			outcome = 1.0
		}
		t.backup(id, n.player, outcome)
		return
	}

	// Expansion: pop one untried move at random.
	m := t.popUntried(id, rng.Intn(len(n.untried)))
	childState, err := state.Play(m)
	if err != nil {
		t.backup(id, m.Player, 0)
		return
	}
	child := t.add(id, m, childState.LegalMoves())

	outcome := simulate(state, m, rng)
	t.backup(child, m.Player, outcome)
}

// selectUCB returns the child of id with the highest UCB1 value.
func selectUCB(t *tree, id nodeID) nodeID {
	n := t.at(id)
	best := n.children[0]
	bestScore := ucb1(t.at(best).wins, t.at(best).visits, n.visits)
	for _, child := range n.children[1:] {
		score := ucb1(t.at(child).wins, t.at(child).visits, n.visits)
		if score > bestScore {
			best, bestScore = child, score
		}
	}
	return best
}

// evalSimulation replaces a full random playout with one evaluator call
// under the given weights, rescaled to a pseudo win probability and
// jittered to avoid ties.
func evalSimulation(weights game.EvalWeights) simulateFn {
	return func(parent *game.GameState, m game.Move, rng *rand.Rand) float64 {
		return pseudoWinProb(game.EvaluateMove(parent.Board, m, weights), rng)
	}
}

func pseudoWinProb(score float64, rng *rand.Rand) float64 {
	p := 0.5 + score/winProbScale
	p += (rng.Float64() - 0.5) * simulationJitter
	return clampProb(p)
}

func clampProb(p float64) float64 {
	if p < 0.01 {
		return 0.01
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}
