package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// GameState is the dynamic state of a match: the board plus turn
// bookkeeping. Play always returns a new state; existing states are
// never mutated.
type GameState struct {
	Board         *Board
	Players       []int
	CurrentPlayer int
	MovesPlayed   int
	LastResult    *ChainResult // Chain outcome of the most recent move, nil before the first move
}

// NewGameState creates a fresh match on an empty rows x cols board.
// Players take turns in the order given.
func NewGameState(rows, cols int, players []int) *GameState {
	if len(players) < 2 {
		panic("need at least two players")
	}
	return &GameState{
		Board:         NewBoard(rows, cols),
		Players:       append([]int(nil), players...),
		CurrentPlayer: players[0],
	}
}

// Copy returns a deep copy of the state.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		Board:         gs.Board.Clone(),
		Players:       append([]int(nil), gs.Players...),
		CurrentPlayer: gs.CurrentPlayer,
		MovesPlayed:   gs.MovesPlayed,
		LastResult:    gs.LastResult,
	}
}

// LegalMoves returns every placement available to the current player, in
// row-major order. It returns nil once the game is over.
func (gs *GameState) LegalMoves() []Move {
	if gs.GameOver() {
		return nil
	}
	var moves []Move
	for row := 0; row < gs.Board.Rows; row++ {
		for col := 0; col < gs.Board.Cols; col++ {
			m := Move{Row: row, Col: col, Player: gs.CurrentPlayer}
			if IsLegal(gs.Board, m) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// Play applies a move and returns the resulting state with the turn
// advanced to the next surviving player.
func (gs *GameState) Play(m Move) (*GameState, error) {
	if m.Player != gs.CurrentPlayer {
		return nil, fmt.Errorf("%w: %s played out of turn", ErrIllegalMove, m)
	}
	result, err := SimulateChain(gs.Board, m)
	if err != nil {
		return nil, err
	}

	next := &GameState{
		Board:         result.Board,
		Players:       append([]int(nil), gs.Players...),
		MovesPlayed:   gs.MovesPlayed + 1,
		LastResult:    result,
		CurrentPlayer: gs.CurrentPlayer,
	}
	next.CurrentPlayer = next.nextSurvivor(gs.CurrentPlayer)
	return next, nil
}

// nextSurvivor returns the next player in turn order who still has orbs
// on the board, or is still waiting for a first move.
func (gs *GameState) nextSurvivor(after int) int {
	pos := 0
	for i, p := range gs.Players {
		if p == after {
			pos = i
			break
		}
	}
	for i := 1; i <= len(gs.Players); i++ {
		candidate := gs.Players[(pos+i)%len(gs.Players)]
		if gs.MovesPlayed < len(gs.Players) || PlayerHasOrbs(gs.Board, candidate) {
			return candidate
		}
	}
	return after
}

// Winner returns the sole surviving player, or NoOwner while the game is
// still contested. No winner exists until every player has moved once.
func (gs *GameState) Winner() int {
	if gs.MovesPlayed < len(gs.Players) {
		return NoOwner
	}
	owners := OrbOwners(gs.Board)
	if len(owners) == 1 {
		return owners[0]
	}
	return NoOwner
}

// GameOver reports whether the match has been decided.
func (gs *GameState) GameOver() bool {
	return gs.Winner() != NoOwner
}

// Hash returns a canonical hash of the position: board contents plus the
// player to move.
func (gs *GameState) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[:4], uint32(gs.Board.Rows))
	binary.LittleEndian.PutUint32(buf[4:], uint32(gs.Board.Cols))
	h.Write(buf)
	for i := range gs.Board.Cells {
		binary.LittleEndian.PutUint32(buf[:4], uint32(gs.Board.Cells[i].Orbs))
		binary.LittleEndian.PutUint32(buf[4:], uint32(gs.Board.Cells[i].Owner))
		h.Write(buf)
	}
	binary.LittleEndian.PutUint64(buf, uint64(gs.CurrentPlayer))
	h.Write(buf)
	return h.Sum64()
}
