package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := newApp(&buf).Run(context.Background(), append([]string{"candysim"}, args...))
	return buf.String(), err
}

func TestPlayGame(t *testing.T) {
	cfg := engine.DefaultConfig()

	first, err := playGame(cfg, 11)
	require.NoError(t, err)
	second, err := playGame(cfg, 11)
	require.NoError(t, err)

	assert.Equal(t, first, second, "a seed replays the same game")
	assert.GreaterOrEqual(t, first.Winner, 0)
	assert.Less(t, first.Winner, engine.PlayerCount)
	assert.Positive(t, first.Rounds)
	assert.Positive(t, first.Draws)
}

func TestSummarize(t *testing.T) {
	results := []GameResult{
		{Winner: 0, Rounds: 30},
		{Winner: 1, Rounds: 10},
		{Winner: 1, Rounds: 20},
		{Winner: 3, Rounds: 40},
	}

	s := summarize(results)

	assert.Equal(t, 4, s.Games)
	assert.Equal(t, [engine.PlayerCount]int{1, 2, 0, 1}, s.Wins)
	assert.Equal(t, 10, s.MinRounds)
	assert.Equal(t, 30, s.MedianRound)
	assert.Equal(t, 40, s.P90Rounds)
	assert.Equal(t, 40, s.MaxRounds)

	assert.Equal(t, Summary{}, summarize(nil))
}

func TestSimulateCommand(t *testing.T) {
	out, err := run(t, "simulate", "--games", "12", "--difficulty", "extreme", "--seed", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "Games: 12 (extreme)")
	assert.Contains(t, out, "Rounds: min")
	assert.Contains(t, out, "Computer 3")

	_, err = run(t, "simulate", "--difficulty", "impossible")
	assert.Error(t, err)

	_, err = run(t, "simulate", "--games", "0")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--config-dir", "../../configs")
	require.NoError(t, err)
	assert.Contains(t, out, "classic.json")
	assert.Contains(t, out, "configuration(s) valid")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": `), 0o644))
	out, err = run(t, "validate", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "❌ broken.json")

	_, err = run(t, "validate", "--config-dir", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	rec := &savegame.Record{
		Players: []engine.SavedPlayer{
			{TokenIndex: 0, Position: 5},
			{TokenIndex: 1, Position: 12, SkipNextTurn: true},
			{TokenIndex: 2, Position: 0},
			{TokenIndex: 3, Position: 40},
		},
		Deck: []engine.Card{engine.Single(engine.Red), engine.Destination(engine.PeppermintForest)},
	}
	require.NoError(t, savegame.NewSlotStore(dir).Write(2, rec))

	out, err := run(t, "inspect", "--saves-dir", dir, "--slot", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Slot 2")
	assert.Contains(t, out, "Cookie")
	assert.Contains(t, out, "(loses next turn)")
	assert.Contains(t, out, "Deck (2)")

	_, err = run(t, "inspect", "--saves-dir", dir, "--slot", "1")
	assert.Error(t, err)

	_, err = run(t, "inspect", "--saves-dir", dir, "--slot", "4")
	assert.ErrorIs(t, err, savegame.ErrInvalidSlot)
}
