// Package gamemaster runs single turns: it times a strategy's decision,
// validates the returned move, and pads visibly short turns up to a
// minimum thinking delay.
package gamemaster

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrirei/chain-reaction-game-sub001/game"
	"github.com/jrirei/chain-reaction-game-sub001/searcher"
)

// InvalidMoveError reports a strategy that returned a move outside the
// legal set. The strategy's name is carried for diagnosis.
type InvalidMoveError struct {
	Strategy string
	Move     game.Move
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("strategy %q returned illegal move %s", e.Strategy, e.Move)
}

// TurnResult is the orchestrator's output: the chosen move plus timing
// telemetry. It has no behavior of its own.
type TurnResult struct {
	Move         game.Move
	Thinking     time.Duration
	DelayApplied time.Duration
	Strategy     string
}

// Orchestrator mediates one decision at a time. Two orchestrators may
// run concurrently for different games; a single instance holds no
// mutable state between turns.
type Orchestrator struct {
	minDelay time.Duration
	clock    func() time.Time
	sleep    func(time.Duration)
}

type Option func(*Orchestrator)

// WithMinDelay sets the minimum visible thinking duration; decisions
// finishing earlier are padded with a sleep.
func WithMinDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.minDelay = d
		}
	}
}

// WithClock injects the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithSleep injects the suspension function (tests).
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		clock: time.Now,
		sleep: time.Sleep,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// PlayTurn obtains the legal moves, runs the strategy under the given
// context, validates its answer, and returns the move with timing
// telemetry. An empty legal set and an out-of-set move are the only
// failure modes; everything else is the strategy's business.
func (o *Orchestrator) PlayTurn(strategy searcher.Strategy, state *game.GameState, ctx *searcher.Context) (*TurnResult, error) {
	legal := state.LegalMoves()
	if len(legal) == 0 {
		return nil, fmt.Errorf("%w for player %d", searcher.ErrNoLegalMoves, state.CurrentPlayer)
	}

	start := o.clock()
	move, err := strategy.DecideMove(state, legal, ctx)
	thinking := o.clock().Sub(start)
	if err != nil {
		return nil, fmt.Errorf("strategy %q failed: %w", strategy.Name(), err)
	}

	if !containsMove(legal, move) {
		return nil, &InvalidMoveError{Strategy: strategy.Name(), Move: move}
	}

	var delay time.Duration
	if extra := o.minDelay - thinking; extra > 0 {
		delay = extra
		o.sleep(extra)
	}

	log.Debug().
		Str("strategy", strategy.Name()).
		Stringer("move", move).
		Dur("thinking", thinking).
		Dur("delay", delay).
		Msg("turn decided")

	return &TurnResult{
		Move:         move,
		Thinking:     thinking,
		DelayApplied: delay,
		Strategy:     strategy.Name(),
	}, nil
}

func containsMove(moves []game.Move, m game.Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
