package searcher

import (
	"sync/atomic"
	"time"
)

// DecisionMetrics summarizes one decideMove invocation.
type DecisionMetrics struct {
	StartTime  time.Time
	Duration   time.Duration
	Iterations int64
	CacheHits  int64
	Pruned     int64
}

// Collector accumulates search counters during a decision. Engines hold
// a collector per instance; the no-op variant keeps the hot loop free of
// bookkeeping when telemetry is not wanted.
type Collector interface {
	Begin()
	AddIteration()
	AddCacheHit()
	AddPruned()
	Complete() DecisionMetrics
}

type collector struct {
	startTime  time.Time
	iterations atomic.Int64
	cacheHits  atomic.Int64
	pruned     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Begin() {
	c.startTime = time.Now()
	c.iterations.Store(0)
	c.cacheHits.Store(0)
	c.pruned.Store(0)
}

func (c *collector) AddIteration() { c.iterations.Add(1) }
func (c *collector) AddCacheHit()  { c.cacheHits.Add(1) }
func (c *collector) AddPruned()    { c.pruned.Add(1) }

func (c *collector) Complete() DecisionMetrics {
	return DecisionMetrics{
		StartTime:  c.startTime,
		Duration:   time.Since(c.startTime),
		Iterations: c.iterations.Load(),
		CacheHits:  c.cacheHits.Load(),
		Pruned:     c.pruned.Load(),
	}
}

type noopCollector struct{}

// NewNoopCollector returns a collector that records nothing.
func NewNoopCollector() Collector {
	return noopCollector{}
}

func (noopCollector) Begin()                    {}
func (noopCollector) AddIteration()             {}
func (noopCollector) AddCacheHit()              {}
func (noopCollector) AddPruned()                {}
func (noopCollector) Complete() DecisionMetrics { return DecisionMetrics{} }
