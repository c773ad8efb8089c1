package searcher

import (
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// OptimizedMCTS layers four refinements on the plain skeleton: move
// ordering at expansion, RAVE statistics shared across related moves, a
// transposition table over simulation outcomes, progressive widening,
// and pruning of persistently losing nodes. The tunable fields are
// policy, not contract; the defaults come from self-play.
type OptimizedMCTS struct {
	Budget        time.Duration
	MaxIterations int
	Weights       game.EvalWeights

	// Progressive widening caps a node's children at k*(visits+1)^p.
	WideningK float64
	WideningP float64

	// RAVE: moves within this Manhattan distance are related; the blend
	// kicks in after MinRaveVisits and fades with real visits.
	RaveDistance    int
	RaveEquivalence float64
	MinRaveVisits   float64

	// Nodes below PruneWinRate after PruneVisits are excluded from
	// selection but stay in the tree.
	PruneVisits  float64
	PruneWinRate float64

	metrics Collector
	table   *transpositionTable
}

func NewOptimizedMCTS() *OptimizedMCTS {
	return &OptimizedMCTS{
		Budget:          3 * time.Second,
		MaxIterations:   IterationCeiling,
		Weights:         game.Aggressive,
		WideningK:       2.0,
		WideningP:       0.5,
		RaveDistance:    2,
		RaveEquivalence: 350,
		MinRaveVisits:   8,
		PruneVisits:     30,
		PruneWinRate:    0.15,
		metrics:         NewNoopCollector(),
		table:           newTranspositionTable(50_000),
	}
}

func (o *OptimizedMCTS) Name() string { return NameMCTSOptimized }

func (o *OptimizedMCTS) SetCollector(collector Collector) {
	if collector != nil {
		o.metrics = collector
	}
}

func (o *OptimizedMCTS) Metrics() Collector { return o.metrics }

// TableSize exposes the transposition-table entry count for telemetry.
func (o *OptimizedMCTS) TableSize() int { return o.table.len() }

func (o *OptimizedMCTS) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		return move, err
	}
	o.metrics.Begin()

	rng := ctx.rng()
	clock := ctx.clock()
	deadline := ctx.deadline(o.Budget)

	t := newTree(legal)
	for iteration := 0; ; iteration++ {
		if iteration > 0 && (iteration >= o.MaxIterations || !clock().Before(deadline)) {
			break
		}
		o.runCycle(t, state, rng)
		o.metrics.AddIteration()
	}
	return t.bestMove(rootID), nil
}

func (o *OptimizedMCTS) runCycle(t *tree, rootState *game.GameState, rng *rand.Rand) {
	id := rootID
	state := rootState

	// Selection, bounded by progressive widening: expand only once the
	// node has earned wider branching.
	for {
		n := t.at(id)
		widened := int(o.WideningK * math.Pow(n.visits+1, o.WideningP))
		if len(n.untried) > 0 && len(n.children) < max(widened, 1) {
			break
		}
		if len(n.children) == 0 {
			break
		}
		id = o.selectChild(t, id)
		next, err := state.Play(t.at(id).move)
		if err != nil {
			t.backup(id, t.at(id).player, 0)
			return
		}
		state = next
	}

	n := t.at(id)
	if len(n.untried) == 0 && len(n.children) == 0 {
		outcome := 0.0
		if state.Winner() == n.player {
			outcome = 1.0
		}
		t.backup(id, n.player, outcome)
		return
	}

	// Expansion, ordered: take the heuristically best untried move
	// instead of a uniform draw.
	m := t.popUntried(id, o.bestUntried(t.at(id), state))
	childState, err := state.Play(m)
	if err != nil {
		t.backup(id, m.Player, 0)
		return
	}
	child := t.add(id, m, childState.LegalMoves())
	t.at(child).order = game.EvaluateMove(state.Board, m, o.Weights)

	outcome := o.simulate(state, m, rng)
	t.backup(child, m.Player, outcome)
	o.updateRave(t, child, m, outcome)
	o.prunePath(t, child)
}

// bestUntried returns the index of the highest-scoring untried move.
func (o *OptimizedMCTS) bestUntried(n *node, state *game.GameState) int {
	best := 0
	bestScore := math.Inf(-1)
	for i, m := range n.untried {
		if score := game.EvaluateMove(state.Board, m, o.Weights); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// simulate consults the transposition table before paying for an
// evaluation, and feeds fresh outcomes back into its running averages.
func (o *OptimizedMCTS) simulate(parent *game.GameState, m game.Move, rng *rand.Rand) float64 {
	key := ttKey(parent, m)
	if cached, ok := o.table.lookup(key); ok {
		o.metrics.AddCacheHit()
		return clampProb(cached)
	}
	outcome := pseudoWinProb(game.EvaluateMove(parent.Board, m, o.Weights), rng)
	o.table.record(key, outcome)
	return outcome
}

// selectChild blends UCB1 with RAVE once a child has enough RAVE
// visits, and skips pruned children while any alternative remains.
func (o *OptimizedMCTS) selectChild(t *tree, id nodeID) nodeID {
	n := t.at(id)
	best := noNode
	bestScore := math.Inf(-1)
	for _, childID := range n.children {
		child := t.at(childID)
		if child.pruned {
			continue
		}
		score := o.childValue(child, n.visits)
		if score > bestScore {
			best, bestScore = childID, score
		}
	}
	if best == noNode {
		// Every child pruned; fall back to plain UCB1 over all of them.
		return selectUCB(t, id)
	}
	return best
}

func (o *OptimizedMCTS) childValue(child *node, parentVisits float64) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	q := child.wins / child.visits
	if child.raveVisits >= o.MinRaveVisits {
		// Confidence-weighted mix: RAVE dominates young nodes and fades
		// as real visits accumulate.
		beta := child.raveVisits /
			(child.visits + child.raveVisits + child.visits*child.raveVisits/o.RaveEquivalence)
		q = (1-beta)*q + beta*(child.raveWins/child.raveVisits)
	}
	return q + explorationC*math.Sqrt(math.Log(parentVisits)/child.visits)
}

// updateRave credits the outcome to every sibling along the backup path
// whose move is related to the simulated move: same mover, Manhattan
// distance at most RaveDistance.
func (o *OptimizedMCTS) updateRave(t *tree, from nodeID, simMove game.Move, outcome float64) {
	for id := t.at(from).parent; id != noNode; id = t.at(id).parent {
		for _, childID := range t.at(id).children {
			child := t.at(childID)
			if child.move.Player != simMove.Player {
				continue
			}
			if manhattan(child.move, simMove) > o.RaveDistance {
				continue
			}
			child.raveVisits++
			child.raveWins += outcome
		}
	}
}

// prunePath marks nodes on the backup path whose win rate stays low
// after enough visits. Pruned nodes keep their statistics; they are
// only excluded from future selection.
func (o *OptimizedMCTS) prunePath(t *tree, from nodeID) {
	for id := from; id != rootID && id != noNode; id = t.at(id).parent {
		n := t.at(id)
		if !n.pruned && n.visits >= o.PruneVisits && n.wins/n.visits < o.PruneWinRate {
			n.pruned = true
			o.metrics.AddPruned()
		}
	}
}

func manhattan(a, b game.Move) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
