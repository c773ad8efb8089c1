package game

import "fmt"

// PositionClass categorizes a cell by how many orthogonal neighbors it has.
type PositionClass int

const (
	Interior PositionClass = iota
	Edge
	Corner
)

func (pc PositionClass) String() string {
	switch pc {
	case Corner:
		return "corner"
	case Edge:
		return "edge"
	default:
		return "interior"
	}
}

// NoOwner marks a cell that no player controls.
const NoOwner = 0

// Cell holds the mutable contents of one board square. Position and
// critical mass are derived from the board geometry, not stored here.
type Cell struct {
	Orbs  int
	Owner int
}

// Board is a fixed-size rectangular grid of cells, row-major. Dimensions
// never change after creation; simulation always works on a Clone, never
// on the caller's board.
type Board struct {
	Rows  int
	Cols  int
	Cells []Cell
}

var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// NewBoard creates an empty rows x cols board.
func NewBoard(rows, cols int) *Board {
	if rows < 2 || cols < 2 {
		panic(fmt.Sprintf("board must be at least 2x2, got %dx%d", rows, cols))
	}
	return &Board{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
}

func (b *Board) index(row, col int) int {
	return row*b.Cols + col
}

// InBounds reports whether (row, col) is on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

// At returns a pointer to the cell at (row, col).
func (b *Board) At(row, col int) *Cell {
	return &b.Cells[b.index(row, col)]
}

// Clone returns a structural copy sharing no memory with the receiver.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.Cells))
	copy(cells, b.Cells)
	return &Board{Rows: b.Rows, Cols: b.Cols, Cells: cells}
}

// ClassOf returns the position class of (row, col).
func (b *Board) ClassOf(row, col int) PositionClass {
	onRowEdge := row == 0 || row == b.Rows-1
	onColEdge := col == 0 || col == b.Cols-1
	switch {
	case onRowEdge && onColEdge:
		return Corner
	case onRowEdge || onColEdge:
		return Edge
	default:
		return Interior
	}
}

// CriticalMass returns the orb count at which the cell at (row, col)
// explodes: 2 for corners, 3 for edges, 4 for interior cells. It equals
// the cell's number of orthogonal neighbors and is immutable for the
// cell's lifetime.
func (b *Board) CriticalMass(row, col int) int {
	switch b.ClassOf(row, col) {
	case Corner:
		return 2
	case Edge:
		return 3
	default:
		return 4
	}
}

// Neighbors returns the in-bounds orthogonal neighbors of (row, col) as
// {row, col} pairs.
func (b *Board) Neighbors(row, col int) [][2]int {
	neighbors := make([][2]int, 0, 4)
	for _, offset := range neighborOffsets {
		r, c := row+offset[0], col+offset[1]
		if b.InBounds(r, c) {
			neighbors = append(neighbors, [2]int{r, c})
		}
	}
	return neighbors
}

// TotalOrbs sums every cell's orb count.
func (b *Board) TotalOrbs() int {
	total := 0
	for i := range b.Cells {
		total += b.Cells[i].Orbs
	}
	return total
}

// FillRatio returns the fraction of cells holding at least one orb.
func (b *Board) FillRatio() float64 {
	occupied := 0
	for i := range b.Cells {
		if b.Cells[i].Orbs > 0 {
			occupied++
		}
	}
	return float64(occupied) / float64(len(b.Cells))
}
