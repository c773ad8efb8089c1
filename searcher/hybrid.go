package searcher

import (
	"sort"
	"time"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// HybridMCTS pre-filters candidates with the phase-aware heuristic and
// hands only the survivors to the plain MCTS loop. Early positions keep
// a wide candidate set; late positions search only a handful. The
// pre-filter carries its own suicide-risk term on top of the generic
// evaluator.
type HybridMCTS struct {
	Budget        time.Duration
	MaxIterations int
	MaxCandidates int
	MinCandidates int
	// SuicidePenalty is charged when a non-exploding placement sits next
	// to an enemy cell one orb from critical, scaled by how exposed the
	// placement is.
	SuicidePenalty float64

	metrics Collector
}

func NewHybridMCTS() *HybridMCTS {
	return &HybridMCTS{
		Budget:         2500 * time.Millisecond,
		MaxIterations:  IterationCeiling,
		MaxCandidates:  12,
		MinCandidates:  4,
		SuicidePenalty: 25.0,
		metrics:        NewNoopCollector(),
	}
}

func (h *HybridMCTS) Name() string { return NameMCTSHybrid }

func (h *HybridMCTS) SetCollector(collector Collector) {
	if collector != nil {
		h.metrics = collector
	}
}

func (h *HybridMCTS) Metrics() Collector { return h.metrics }

func (h *HybridMCTS) DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error) {
	if move, done, err := guardMoves(legal); done || err != nil {
		return move, err
	}
	h.metrics.Begin()

	survivors := h.prefilter(state, legal)
	if move, done, err := guardMoves(survivors); done || err != nil {
		return move, err
	}

	move := runSearch(state, survivors, ctx, searchParams{
		budget:        h.Budget,
		maxIterations: h.MaxIterations,
		simulate:      evalSimulation(game.Aggressive),
		metrics:       h.metrics,
	})
	return move, nil
}

// prefilter keeps the top candidates by phase-weighted score minus
// suicide risk. The candidate count shrinks as the board fills.
func (h *HybridMCTS) prefilter(state *game.GameState, legal []game.Move) []game.Move {
	weights := phaseWeights(detectPhase(state.Board))
	progress := state.Board.FillRatio()

	quota := h.MaxCandidates - int(progress*float64(h.MaxCandidates-h.MinCandidates))
	if quota < h.MinCandidates {
		quota = h.MinCandidates
	}
	if quota >= len(legal) {
		return legal
	}

	scored := make([]scoredMove, len(legal))
	for i, m := range legal {
		score := game.EvaluateMove(state.Board, m, weights)
		score -= h.suicideRisk(state.Board, m)
		scored[i] = scoredMove{move: m, score: score}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	survivors := make([]game.Move, quota)
	for i := range survivors {
		survivors[i] = scored[i].move
	}
	return survivors
}

// suicideRisk is strictly positive when a non-exploding placement
// leaves an orb adjacent to an enemy cell one orb short of exploding:
// the enemy's next detonation captures it. Exposed placements (fewer
// escape neighbors) are penalized harder.
func (h *HybridMCTS) suicideRisk(b *game.Board, m game.Move) float64 {
	if game.IsExplosiveMove(b, m) {
		return 0
	}
	risk := 0.0
	for _, n := range b.Neighbors(m.Row, m.Col) {
		cell := b.At(n[0], n[1])
		if cell.Owner == game.NoOwner || cell.Owner == m.Player {
			continue
		}
		if cell.Orbs == b.CriticalMass(n[0], n[1])-1 {
			risk += h.SuicidePenalty * positionVulnerability(b.ClassOf(m.Row, m.Col))
		}
	}
	return risk
}

// Corners have nowhere to spread, so a capture there costs the most.
func positionVulnerability(class game.PositionClass) float64 {
	switch class {
	case game.Corner:
		return 1.5
	case game.Edge:
		return 1.2
	default:
		return 1.0
	}
}
