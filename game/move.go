package game

import "fmt"

// Move is the intent to add one orb to a cell. It is legal iff the cell
// is empty or already owned by the mover.
type Move struct {
	Row    int
	Col    int
	Player int
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d) by player %d", m.Row, m.Col, m.Player)
}

// IsLegal reports whether m may be played on b.
func IsLegal(b *Board, m Move) bool {
	if !b.InBounds(m.Row, m.Col) || m.Player == NoOwner {
		return false
	}
	cell := b.At(m.Row, m.Col)
	return cell.Owner == NoOwner || cell.Owner == m.Player
}
