package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/candyland-game/game/engine"
)

// maxDraws bounds one simulated game. A real game ends long before this.
const maxDraws = 10000

var errRunaway = errors.New("game did not finish")

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed   uint64
	Winner int
	Rounds int
	Draws  int
}

// Summary aggregates a batch of games.
type Summary struct {
	Games       int
	Wins        [engine.PlayerCount]int
	MinRounds   int
	MedianRound int
	P90Rounds   int
	MaxRounds   int
}

// playGame plays one game to the end, drawing for the human every time the
// engine waits for input.
func playGame(cfg *engine.GameConfig, seed uint64) (GameResult, error) {
	eng, err := engine.NewEngine(cfg, engine.WithSeed(seed))
	if err != nil {
		return GameResult{}, err
	}

	result := GameResult{Seed: seed}
	for !eng.IsGameOver() {
		if result.Draws >= maxDraws {
			return result, fmt.Errorf("seed %d: %w after %d draws", seed, errRunaway, result.Draws)
		}
		if _, err := eng.Draw(); err != nil {
			return result, fmt.Errorf("seed %d: %w", seed, err)
		}
		result.Draws++
	}

	state := eng.GetState()
	result.Winner = state.Winner
	result.Rounds = state.Round
	return result, nil
}

// simulate plays games with consecutive seeds starting at seed. Games run
// in parallel; results keep seed order.
func simulate(ctx context.Context, cfg *engine.GameConfig, games int, seed uint64) ([]GameResult, error) {
	results := make([]GameResult, games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := playGame(cfg, seed+uint64(i))
			if err != nil {
				return err
			}
			results[i] = res
			log.WithFields(log.Fields{
				"seed":   res.Seed,
				"winner": engine.PlayerName(res.Winner),
				"rounds": res.Rounds,
			}).Debug("game finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize computes win counts and the round distribution.
func summarize(results []GameResult) Summary {
	s := Summary{Games: len(results)}
	if len(results) == 0 {
		return s
	}

	rounds := make([]int, len(results))
	for i, r := range results {
		rounds[i] = r.Rounds
		if r.Winner >= 0 && r.Winner < engine.PlayerCount {
			s.Wins[r.Winner]++
		}
	}
	sort.Ints(rounds)

	s.MinRounds = rounds[0]
	s.MaxRounds = rounds[len(rounds)-1]
	s.MedianRound = rounds[len(rounds)/2]
	p90 := len(rounds) * 9 / 10
	if p90 >= len(rounds) {
		p90 = len(rounds) - 1
	}
	s.P90Rounds = rounds[p90]
	return s
}
