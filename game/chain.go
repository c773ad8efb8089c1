package game

import (
	"errors"
	"fmt"
)

// MaxChainSteps bounds the number of explosion steps resolved for a
// single placement. Legitimate games stay far below this; the ceiling is
// a safety valve against pathological inputs.
const MaxChainSteps = 50

// ErrIllegalMove is returned when a placement targets a cell owned by
// another player or a position off the board.
var ErrIllegalMove = errors.New("illegal move")

// CellDelta records how one cell changed during one explosion step.
// Step 0 is the initial placement, steps 1..N are explosion waves.
type CellDelta struct {
	Step     int
	Row      int
	Col      int
	OldOrbs  int
	NewOrbs  int
	OldOwner int
	NewOwner int
}

// ChainResult is the outcome of resolving one placement: the number of
// explosion steps, the total number of cell explosions, the final board,
// and the ordered per-step cell deltas. It is immutable once returned.
type ChainResult struct {
	Steps      int
	Explosions int
	Board      *Board
	Deltas     []CellDelta
}

// SimulateChain applies a single placement to a copy of b and resolves
// all resulting explosions. Every cell at or above its critical mass
// within one scan detonates simultaneously: it spends one orb per
// orthogonal neighbor, converting each neighbor to the exploding cell's
// owner, and loses its own owner once drained. Scanning repeats until
// the board is calm or MaxChainSteps is reached.
//
// Orbs are conserved: the final board holds exactly one orb more than b.
func SimulateChain(b *Board, m Move) (*ChainResult, error) {
	if !b.InBounds(m.Row, m.Col) {
		return nil, fmt.Errorf("%w: %s is off the %dx%d board", ErrIllegalMove, m, b.Rows, b.Cols)
	}
	if !IsLegal(b, m) {
		return nil, fmt.Errorf("%w: %s targets an enemy cell", ErrIllegalMove, m)
	}

	work := b.Clone()
	result := &ChainResult{Board: work}

	target := work.At(m.Row, m.Col)
	result.Deltas = append(result.Deltas, CellDelta{
		Step:     0,
		Row:      m.Row,
		Col:      m.Col,
		OldOrbs:  target.Orbs,
		NewOrbs:  target.Orbs + 1,
		OldOwner: target.Owner,
		NewOwner: m.Player,
	})
	target.Orbs++
	target.Owner = m.Player

	for result.Steps < MaxChainSteps {
		exploding := overloadedCells(work)
		if len(exploding) == 0 {
			break
		}
		result.Steps++
		result.Explosions += len(exploding)
		applyExplosionStep(work, exploding, result)
	}

	return result, nil
}

// overloadedCells returns the indices of all cells at or above critical
// mass, in row-major order.
func overloadedCells(b *Board) []int {
	var indices []int
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			if b.At(row, col).Orbs >= b.CriticalMass(row, col) {
				indices = append(indices, b.index(row, col))
			}
		}
	}
	return indices
}

// applyExplosionStep detonates all the given cells as one synchronous
// step and appends the resulting per-cell deltas.
func applyExplosionStep(b *Board, exploding []int, result *ChainResult) {
	before := make(map[int]Cell, len(exploding)*4)
	snapshot := func(idx int) {
		if _, seen := before[idx]; !seen {
			before[idx] = b.Cells[idx]
		}
	}

	// Drain every exploding cell first so simultaneous detonations do
	// not feed each other within the same step. Each detonation spends
	// exactly the critical mass: one orb per neighbor. A cell pushed
	// past its capacity keeps the remainder (and its owner) and
	// detonates again next step, so no orb is ever destroyed.
	owners := make([]int, len(exploding))
	for i, idx := range exploding {
		snapshot(idx)
		row, col := idx/b.Cols, idx%b.Cols
		owners[i] = b.Cells[idx].Owner
		b.Cells[idx].Orbs -= b.CriticalMass(row, col)
		if b.Cells[idx].Orbs == 0 {
			b.Cells[idx].Owner = NoOwner
		}
	}

	for i, idx := range exploding {
		row, col := idx/b.Cols, idx%b.Cols
		for _, n := range b.Neighbors(row, col) {
			nIdx := b.index(n[0], n[1])
			snapshot(nIdx)
			b.Cells[nIdx].Orbs++
			b.Cells[nIdx].Owner = owners[i]
		}
	}

	// One delta per changed cell, ordered row-major within the step.
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			idx := b.index(row, col)
			old, changed := before[idx]
			if !changed || old == b.Cells[idx] {
				continue
			}
			result.Deltas = append(result.Deltas, CellDelta{
				Step:     result.Steps,
				Row:      row,
				Col:      col,
				OldOrbs:  old.Orbs,
				NewOrbs:  b.Cells[idx].Orbs,
				OldOwner: old.Owner,
				NewOwner: b.Cells[idx].Owner,
			})
		}
	}
}

// BoardAdvantage returns the player's orb count minus all other players'
// orb counts.
func BoardAdvantage(b *Board, player int) int {
	advantage := 0
	for i := range b.Cells {
		switch b.Cells[i].Owner {
		case player:
			advantage += b.Cells[i].Orbs
		case NoOwner:
		default:
			advantage -= b.Cells[i].Orbs
		}
	}
	return advantage
}

// PlayerHasOrbs reports whether the player owns any cell holding orbs.
func PlayerHasOrbs(b *Board, player int) bool {
	for i := range b.Cells {
		if b.Cells[i].Owner == player && b.Cells[i].Orbs > 0 {
			return true
		}
	}
	return false
}

// OrbOwners returns every player currently holding orbs on the board.
func OrbOwners(b *Board) []int {
	seen := make(map[int]bool)
	var owners []int
	for i := range b.Cells {
		owner := b.Cells[i].Owner
		if owner != NoOwner && b.Cells[i].Orbs > 0 && !seen[owner] {
			seen[owner] = true
			owners = append(owners, owner)
		}
	}
	return owners
}
