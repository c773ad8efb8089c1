// Package metrics holds the flat records the arena writes out after a
// run, one row per game and one per move.
package metrics

import "time"

// GameRecord summarizes one finished game.
type GameRecord struct {
	ID        int
	Strategy1 string
	Strategy2 string
	Winner    int
	Turns     int
	StartTime time.Time
	Duration  time.Duration
}

// MoveRecord summarizes one decision inside a game.
type MoveRecord struct {
	Game       int
	Step       int
	Player     int
	Strategy   string
	Row        int
	Col        int
	ThinkingMs int64
	DelayMs    int64
	ChainSteps int
}
