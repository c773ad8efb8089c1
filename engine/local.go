// Package engine closes the loop around the decision core: it feeds
// board states to strategies through the orchestrator and applies the
// chosen moves until one player holds the whole board.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/jrirei/chain-reaction-game-sub001/experiments/metrics"
	"github.com/jrirei/chain-reaction-game-sub001/game"
	"github.com/jrirei/chain-reaction-game-sub001/gamemaster"
	"github.com/jrirei/chain-reaction-game-sub001/searcher"
)

// MaxTurns caps runaway games that neither side can close out.
const MaxTurns = 500

// Bot binds a player id to a strategy and its thinking budget.
type Bot struct {
	Player   int
	Strategy searcher.Strategy
	Budget   time.Duration
}

// Engine runs one local game to completion.
type Engine struct {
	state        *game.GameState
	bots         map[int]Bot
	orchestrator *gamemaster.Orchestrator
	seed         uint64
	maxTurns     int
}

type Option func(*Engine)

// WithOrchestrator replaces the default (no minimum delay) orchestrator.
func WithOrchestrator(o *gamemaster.Orchestrator) Option {
	return func(e *Engine) {
		if o != nil {
			e.orchestrator = o
		}
	}
}

// WithSeed fixes the RNG seed for reproducible games.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithMaxTurns overrides the runaway-game cap.
func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func NewLocalEngine(state *game.GameState, bots []Bot, options ...Option) *Engine {
	if len(bots) != len(state.Players) {
		panic("number of bots does not match number of players")
	}
	byPlayer := make(map[int]Bot, len(bots))
	for _, bot := range bots {
		byPlayer[bot.Player] = bot
	}
	e := &Engine{
		state:        state,
		bots:         byPlayer,
		orchestrator: gamemaster.New(),
		seed:         uint64(time.Now().UnixNano()),
		maxTurns:     MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// State returns the current (possibly final) game state.
func (e *Engine) State() *game.GameState { return e.state }

// Run plays the game until a winner emerges or the turn cap is hit.
// A strategy failure is not fatal to the session: the engine falls back
// to a uniformly random legal move and keeps the game alive.
func (e *Engine) Run() (int, []metrics.MoveRecord, error) {
	rng := rand.New(rand.NewSource(e.seed))
	var records []metrics.MoveRecord

	for turn := 1; turn <= e.maxTurns; turn++ {
		if e.state.GameOver() {
			break
		}
		bot, ok := e.bots[e.state.CurrentPlayer]
		if !ok {
			return game.NoOwner, records, fmt.Errorf("no bot registered for player %d", e.state.CurrentPlayer)
		}

		ctx := &searcher.Context{
			Rand:        rand.New(rand.NewSource(rng.Uint64())),
			MaxThinking: bot.Budget,
		}
		result, err := e.orchestrator.PlayTurn(bot.Strategy, e.state, ctx)
		if err != nil {
			fallback, ferr := e.randomMove(rng)
			if ferr != nil {
				return game.NoOwner, records, ferr
			}
			log.Warn().
				Err(err).
				Str("strategy", bot.Strategy.Name()).
				Stringer("fallback", fallback).
				Msg("strategy failed, playing random move")
			result = &gamemaster.TurnResult{Move: fallback, Strategy: bot.Strategy.Name()}
		}

		next, err := e.state.Play(result.Move)
		if err != nil {
			return game.NoOwner, records, fmt.Errorf("applying move %s: %w", result.Move, err)
		}

		records = append(records, metrics.MoveRecord{
			Step:       turn,
			Player:     result.Move.Player,
			Strategy:   result.Strategy,
			Row:        result.Move.Row,
			Col:        result.Move.Col,
			ThinkingMs: result.Thinking.Milliseconds(),
			DelayMs:    result.DelayApplied.Milliseconds(),
			ChainSteps: next.LastResult.Steps,
		})
		e.state = next
	}

	winner := e.state.Winner()
	log.Info().
		Int("winner", winner).
		Int("turns", len(records)).
		Msg("game finished")
	return winner, records, nil
}

func (e *Engine) randomMove(rng *rand.Rand) (game.Move, error) {
	legal := e.state.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, fmt.Errorf("%w: cannot fall back for player %d", searcher.ErrNoLegalMoves, e.state.CurrentPlayer)
	}
	return legal[rng.Intn(len(legal))], nil
}
