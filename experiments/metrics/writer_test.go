package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	t.Run("writes game records", func(t *testing.T) {
		start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
		err := w.WriteGameRecords([]GameRecord{
			{ID: 1, Strategy1: "minimax", Strategy2: "mcts", Winner: 2, Turns: 31,
				StartTime: start, Duration: 42 * time.Second},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"id", "strategy1", "strategy2", "winner", "turns", "start_time", "duration"}, rows[0])
		require.Equal(t, []string{"1", "minimax", "mcts", "2", "31", "2025-03-14T09:00:00Z", "42s"}, rows[1])
	})

	t.Run("writes move records", func(t *testing.T) {
		err := w.WriteMoveRecords([]MoveRecord{
			{Game: 1, Step: 1, Player: 1, Strategy: "minimax", Row: 2, Col: 3,
				ThinkingMs: 120, DelayMs: 380, ChainSteps: 4},
			{Game: 1, Step: 2, Player: 2, Strategy: "mcts", Row: 0, Col: 0},
		})
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"1", "1", "1", "minimax", "2", "3", "120", "380", "4"}, rows[1])
		require.Equal(t, []string{"1", "2", "2", "mcts", "0", "0", "0", "0", "0"}, rows[2])
	})

	t.Run("tolerates empty record sets", func(t *testing.T) {
		require.NoError(t, w.WriteGameRecords(nil))
		rows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, rows, 1, "only the header remains")
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
