package searcher

import (
	"errors"
	"fmt"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// ErrNoLegalMoves is returned when a strategy is asked to decide between
// zero moves. Callers must not invoke DecideMove on a finished game.
var ErrNoLegalMoves = errors.New("no legal moves")

// ErrUnknownStrategy is returned by New for names outside the registry.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is the uniform contract every search engine implements.
// DecideMove must return an element of legal. Implementations share two
// short-circuits: an empty legal set is ErrNoLegalMoves, and a
// single-element set is returned without any search.
type Strategy interface {
	Name() string
	DecideMove(state *game.GameState, legal []game.Move, ctx *Context) (game.Move, error)
}

// The closed set of registered strategy names.
const (
	NameDefault       = "default"
	NameMinimax       = "minimax"
	NameMCTS          = "mcts"
	NameMCTSOptimized = "mcts-optimized"
	NameMCTSHybrid    = "mcts-hybrid"
	NameMCTSOpponent  = "mcts-opponent"
)

// Names lists every registered strategy name.
func Names() []string {
	return []string{
		NameDefault,
		NameMinimax,
		NameMCTS,
		NameMCTSOptimized,
		NameMCTSHybrid,
		NameMCTSOpponent,
	}
}

// New constructs a strategy by registered name. The switch is
// exhaustive over the name constants; unknown names are an error, never
// a silent fallback.
func New(name string) (Strategy, error) {
	switch name {
	case NameDefault:
		return NewDefaultBot(), nil
	case NameMinimax:
		return NewMinimax(), nil
	case NameMCTS:
		return NewMCTS(), nil
	case NameMCTSOptimized:
		return NewOptimizedMCTS(), nil
	case NameMCTSHybrid:
		return NewHybridMCTS(), nil
	case NameMCTSOpponent:
		return NewOpponentMCTS(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// guardMoves applies the shared short-circuits. The second return is
// true when the sole legal move should be played without searching.
func guardMoves(legal []game.Move) (game.Move, bool, error) {
	switch len(legal) {
	case 0:
		return game.Move{}, false, ErrNoLegalMoves
	case 1:
		return legal[0], true, nil
	default:
		return game.Move{}, false, nil
	}
}
