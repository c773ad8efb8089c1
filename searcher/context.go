package searcher

import (
	"time"

	"golang.org/x/exp/rand"
)

// Context carries the per-decision resources a strategy may use: a
// random source, an optional thinking budget, and an optional absolute
// deadline. The clock is injectable so searches stay testable without
// wall-clock dependence. A Context is never retained across decisions.
type Context struct {
	Rand        *rand.Rand
	MaxThinking time.Duration
	Deadline    time.Time
	Clock       func() time.Time
}

func (c *Context) clock() func() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock
	}
	return time.Now
}

func (c *Context) rng() *rand.Rand {
	if c != nil && c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

// deadline resolves the absolute time at which a search must wind down.
// An explicit deadline wins; otherwise the budget (or the engine's
// fallback) is added to the current clock reading. The result is
// computed once per decision and then polled, never re-derived.
func (c *Context) deadline(fallback time.Duration) time.Time {
	if c != nil && !c.Deadline.IsZero() {
		return c.Deadline
	}
	budget := fallback
	if c != nil && c.MaxThinking > 0 {
		budget = c.MaxThinking
	}
	return c.clock()().Add(budget)
}
