package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jrirei/chain-reaction-game-sub001/engine"
	"github.com/jrirei/chain-reaction-game-sub001/experiments/metrics"
	"github.com/jrirei/chain-reaction-game-sub001/game"
	"github.com/jrirei/chain-reaction-game-sub001/searcher"
)

type pairing struct {
	strategy1 string
	strategy2 string
}

const (
	gamesPerPairing = 4
	boardRows       = 6
	boardCols       = 9
	moveBudget      = 500 * time.Millisecond
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	names := searcher.Names()
	var pairings []pairing
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			pairings = append(pairings, pairing{strategy1: names[i], strategy2: names[j]})
		}
	}

	if err := runArena(pairings); err != nil {
		log.Fatal().Err(err).Msg("arena failed")
	}
}

func runArena(pairings []pairing) error {
	var mu sync.Mutex
	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord

	var group errgroup.Group
	group.SetLimit(4)

	gameID := 0
	for _, p := range pairings {
		for i := 0; i < gamesPerPairing; i++ {
			gameID++
			id := gameID
			p := p
			seed := uint64(id)
			group.Go(func() error {
				record, moves, err := runGame(id, p, seed)
				if err != nil {
					return err
				}
				mu.Lock()
				gameRecords = append(gameRecords, record)
				moveRecords = append(moveRecords, moves...)
				mu.Unlock()
				printResult(p, record)
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return err
	}

	writer, err := metrics.NewWriter("experiments/arena")
	if err != nil {
		return err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Int("games", len(gameRecords)).Msg("arena records written")
	return nil
}

func runGame(id int, p pairing, seed uint64) (metrics.GameRecord, []metrics.MoveRecord, error) {
	strategy1, err := searcher.New(p.strategy1)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	strategy2, err := searcher.New(p.strategy2)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	state := game.NewGameState(boardRows, boardCols, []int{1, 2})
	bots := []engine.Bot{
		{Player: 1, Strategy: strategy1, Budget: moveBudget},
		{Player: 2, Strategy: strategy2, Budget: moveBudget},
	}
	e := engine.NewLocalEngine(state, bots, engine.WithSeed(seed))

	start := time.Now()
	winner, moves, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	for i := range moves {
		moves[i].Game = id
	}
	record := metrics.GameRecord{
		ID:        id,
		Strategy1: p.strategy1,
		Strategy2: p.strategy2,
		Winner:    winner,
		Turns:     len(moves),
		StartTime: start,
		Duration:  time.Since(start),
	}
	return record, moves, nil
}

func printResult(p pairing, record metrics.GameRecord) {
	profile := termenv.ColorProfile()
	outcome := termenv.String("draw").Foreground(profile.Color("3"))
	switch record.Winner {
	case 1:
		outcome = termenv.String(p.strategy1).Foreground(profile.Color("2"))
	case 2:
		outcome = termenv.String(p.strategy2).Foreground(profile.Color("2"))
	}
	fmt.Printf("game %3d  %s vs %s  winner: %s  (%d turns, %s)\n",
		record.ID, p.strategy1, p.strategy2, outcome, record.Turns, record.Duration.Round(time.Millisecond))
}
