package searcher

import (
	"fmt"
	"sort"

	"github.com/jrirei/chain-reaction-game-sub001/game"
)

// transpositionTable caches the running-average simulation outcome per
// canonical position+move key, so repeated simulations of the same
// placement short-circuit. It is private, per-strategy-instance mutable
// state and is not safe to share across concurrent decisions.
type transpositionTable struct {
	capacity  int
	keepRatio float64
	entries   map[string]*ttEntry
}

type ttEntry struct {
	outcome float64 // Running average
	visits  int
}

func newTranspositionTable(capacity int) *transpositionTable {
	return &transpositionTable{
		capacity:  capacity,
		keepRatio: 0.7,
		entries:   make(map[string]*ttEntry),
	}
}

// ttKey canonicalizes a position plus candidate move into a string key.
func ttKey(state *game.GameState, m game.Move) string {
	return fmt.Sprintf("%016x:%d:%d:%d", state.Hash(), m.Row, m.Col, m.Player)
}

func (tt *transpositionTable) lookup(key string) (float64, bool) {
	entry, ok := tt.entries[key]
	if !ok {
		return 0, false
	}
	entry.visits++
	return entry.outcome, true
}

func (tt *transpositionTable) record(key string, outcome float64) {
	if entry, ok := tt.entries[key]; ok {
		entry.visits++
		entry.outcome += (outcome - entry.outcome) / float64(entry.visits)
		return
	}
	if len(tt.entries) >= tt.capacity {
		tt.evict()
	}
	tt.entries[key] = &ttEntry{outcome: outcome, visits: 1}
}

// evict keeps only the most-visited entries, dropping the rest. The
// keep ratio is tunable policy, not a correctness requirement.
func (tt *transpositionTable) evict() {
	type kv struct {
		key   string
		entry *ttEntry
	}
	all := make([]kv, 0, len(tt.entries))
	for key, entry := range tt.entries {
		all = append(all, kv{key, entry})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].entry.visits > all[j].entry.visits
	})

	keep := int(float64(len(all)) * tt.keepRatio)
	kept := make(map[string]*ttEntry, keep)
	for _, item := range all[:keep] {
		kept[item.key] = item.entry
	}
	tt.entries = kept
}

func (tt *transpositionTable) len() int {
	return len(tt.entries)
}
