// Command candysim is an offline toolbox for the Candy Land engine.
//
//	candysim simulate --games 1000 --difficulty extreme
//	candysim validate --config-dir configs
//	candysim inspect --saves-dir . --slot 1
//
// simulate plays whole games without a server and reports how long they
// last and who wins. validate checks every configuration file. inspect
// decodes a save slot.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/candyland-game/game/config"
	"github.com/wricardo/candyland-game/game/engine"
	"github.com/wricardo/candyland-game/game/savegame"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "candysim",
		Usage:  "simulate, validate and inspect Candy Land games",
		Writer: w,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every game"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.SetOutput(os.Stderr)
			if cmd.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			simulateCommand(),
			validateCommand(),
			inspectCommand(),
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play games to completion and report statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 100, Usage: "number of games"},
			&cli.StringFlag{Name: "difficulty", Value: string(engine.Normal), Usage: "normal or extreme"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed of the first game; later games count up"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			games := cmd.Int("games")
			if games <= 0 {
				return fmt.Errorf("games must be positive, got %d", games)
			}

			cfg := engine.DefaultConfig()
			cfg.Difficulty = engine.Difficulty(cmd.String("difficulty"))
			if err := engine.ValidateGameConfig(cfg); err != nil {
				return err
			}

			results, err := simulate(ctx, cfg, games, uint64(cmd.Int64("seed")))
			if err != nil {
				return err
			}
			printSummary(cmd.Root().Writer, cfg.Difficulty, summarize(results))
			return nil
		},
	}
}

func printSummary(w io.Writer, difficulty engine.Difficulty, s Summary) {
	fmt.Fprintf(w, "Games: %d (%s)\n", s.Games, difficulty)
	fmt.Fprintf(w, "Rounds: min %d, median %d, p90 %d, max %d\n", s.MinRounds, s.MedianRound, s.P90Rounds, s.MaxRounds)
	fmt.Fprintln(w, "Wins:")
	for i, wins := range s.Wins {
		pct := 0.0
		if s.Games > 0 {
			pct = 100 * float64(wins) / float64(s.Games)
		}
		fmt.Fprintf(w, "  %-11s %6d  %5.1f%%\n", engine.PlayerName(i), wins, pct)
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check every configuration file in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			failures, err := manager.ValidateAll()
			if err != nil {
				return err
			}
			configs, err := manager.ListConfigs()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			for _, c := range configs {
				fmt.Fprintf(w, "✅ %s (%s)\n", c.Filename, c.Name)
			}
			names := make([]string, 0, len(failures))
			for name := range failures {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "❌ %s: %v\n", name, failures[name])
			}

			if len(failures) > 0 {
				return fmt.Errorf("%d invalid configuration file(s)", len(failures))
			}
			fmt.Fprintf(w, "All %d configuration(s) valid\n", len(configs))
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "decode a save slot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "saves-dir", Value: ".", Sources: cli.EnvVars("SAVES_DIR")},
			&cli.IntFlag{Name: "slot", Value: savegame.MinSlot},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			slot := cmd.Int("slot")
			if !savegame.ValidSlot(slot) {
				return savegame.ErrInvalidSlot
			}

			rec, ok := savegame.NewSlotStore(cmd.String("saves-dir")).Read(slot)
			if !ok {
				return fmt.Errorf("slot %d is empty or unreadable", slot)
			}
			printRecord(cmd.Root().Writer, slot, rec)
			return nil
		},
	}
}

func printRecord(w io.Writer, slot int, rec *savegame.Record) {
	fmt.Fprintf(w, "Slot %d\n", slot)
	for i, p := range rec.Players {
		skip := ""
		if p.SkipNextTurn {
			skip = " (loses next turn)"
		}
		token := "?"
		if p.TokenIndex >= 0 && p.TokenIndex < len(engine.TokenNames) {
			token = engine.TokenNames[p.TokenIndex]
		}
		fmt.Fprintf(w, "  %-11s %-10s space %3d%s\n", engine.PlayerName(i), token, p.Position, skip)
	}

	labels := make([]string, 0, len(rec.Deck))
	for _, c := range rec.Deck {
		labels = append(labels, c.Label())
	}
	fmt.Fprintf(w, "Deck (%d): %s\n", len(rec.Deck), strings.Join(labels, ", "))
}
