package game

// EvalWeights parameterizes the shared move evaluator. The same formula
// serves every search engine; only the weights change.
type EvalWeights struct {
	Name          string
	CriticalMass  float64 // Weight on how close the placement brings the cell to critical mass
	Explosion     float64 // Flat bonus when the placement detonates
	ChainStep     float64 // Per explosion step of the resulting chain
	Corner        float64 // Position-class bonuses
	Edge          float64
	Interior      float64
	Threat        float64 // Added once per orthogonally-adjacent enemy cell
	Advantage     float64 // Weight on the orb-advantage swing of the chain
}

// The three stock presets. Aggressive chases chains and contact,
// conservative avoids both, balanced sits between.
var (
	Balanced = EvalWeights{
		Name:         "balanced",
		CriticalMass: 2.0,
		Explosion:    3.0,
		ChainStep:    1.5,
		Corner:       1.2,
		Edge:         0.8,
		Interior:     0.4,
		Threat:       -0.4,
		Advantage:    0.5,
	}
	Aggressive = EvalWeights{
		Name:         "aggressive",
		CriticalMass: 2.5,
		Explosion:    5.0,
		ChainStep:    2.5,
		Corner:       1.0,
		Edge:         0.7,
		Interior:     0.5,
		Threat:       0.3,
		Advantage:    0.8,
	}
	Conservative = EvalWeights{
		Name:         "conservative",
		CriticalMass: 1.5,
		Explosion:    2.0,
		ChainStep:    1.0,
		Corner:       1.5,
		Edge:         1.0,
		Interior:     0.3,
		Threat:       -1.0,
		Advantage:    0.4,
	}
)

// SimulationPenalty is the score applied when the simulator rejects a
// candidate during evaluation, instead of aborting the search.
const SimulationPenalty = -5.0

func (w EvalWeights) positionBonus(class PositionClass) float64 {
	switch class {
	case Corner:
		return w.Corner
	case Edge:
		return w.Edge
	default:
		return w.Interior
	}
}

// EvaluateMove scores a candidate placement for its mover. Higher is
// better; there is no fixed range. The function is pure: it never
// modifies the board and holds no state between calls.
func EvaluateMove(b *Board, m Move, w EvalWeights) float64 {
	if !IsLegal(b, m) {
		return SimulationPenalty
	}

	capacity := b.CriticalMass(m.Row, m.Col)
	orbsAfter := b.At(m.Row, m.Col).Orbs + 1

	score := 1.0
	score += float64(orbsAfter) / float64(capacity) * w.CriticalMass
	score += w.positionBonus(b.ClassOf(m.Row, m.Col))

	if orbsAfter >= capacity {
		result, err := SimulateChain(b, m)
		if err != nil {
			score += SimulationPenalty
		} else {
			before := BoardAdvantage(b, m.Player)
			after := BoardAdvantage(result.Board, m.Player)
			score += w.Explosion
			score += float64(result.Steps) * w.ChainStep
			score += float64(after-before) * w.Advantage
		}
	}

	for _, n := range b.Neighbors(m.Row, m.Col) {
		neighbor := b.At(n[0], n[1])
		if neighbor.Owner != NoOwner && neighbor.Owner != m.Player && neighbor.Orbs > 0 {
			score += w.Threat
		}
	}

	return score
}

// IsExplosiveMove reports whether the placement reaches the target
// cell's critical mass.
func IsExplosiveMove(b *Board, m Move) bool {
	if !IsLegal(b, m) {
		return false
	}
	return b.At(m.Row, m.Col).Orbs+1 >= b.CriticalMass(m.Row, m.Col)
}

// CountChainSteps returns the number of explosion steps the placement
// would trigger, or 0 if the simulation fails.
func CountChainSteps(b *Board, m Move) int {
	result, err := SimulateChain(b, m)
	if err != nil {
		return 0
	}
	return result.Steps
}

// FindWinningMoves returns the subset of moves whose resulting chain
// leaves exactly one player holding orbs on the board.
func FindWinningMoves(b *Board, moves []Move) []Move {
	var winning []Move
	for _, m := range moves {
		result, err := SimulateChain(b, m)
		if err != nil {
			continue
		}
		if len(OrbOwners(result.Board)) == 1 {
			winning = append(winning, m)
		}
	}
	return winning
}
