// Command selfplay drives complete games against a running server. Both
// seats are played over the REST API with random legal moves, which makes
// it a smoke and load test for setup, move validation, turn order and
// change notification.
//
//	selfplay --url http://localhost:8080 --games 20 --parallel 4
//
// The server does not decide winners; selfplay ends a game when a flag is
// captured or the side to move has no legal move.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/warboard/game/engine"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "selfplay",
		Usage: "play Warboard games against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("WARBOARD_URL"),
			},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "number of games to play"},
			&cli.IntFlag{Name: "parallel", Value: 1, Usage: "games played at the same time"},
			&cli.IntFlag{Name: "max-moves", Value: 2000, Usage: "moves before a game is abandoned"},
			&cli.StringFlag{Name: "preset", Value: "classic", Usage: "preset for the primary side"},
			&cli.StringFlag{Name: "opponent-preset", Usage: "preset for the secondary side (defaults to --preset)"},
			&cli.StringFlag{Name: "primary", Value: "Red", Usage: "primary side"},
			&cli.FloatFlag{Name: "aggression", Value: 0.5, Usage: "chance of preferring an attack"},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed (0 uses the clock)"},
			&cli.BoolFlag{Name: "keep", Usage: "keep finished games on the server"},
			&cli.BoolFlag{Name: "v", Usage: "log every move"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	primary, err := engine.ParseSide(cmd.String("primary"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := zap.NewNop()
	if cmd.Bool("v") {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	opponentPreset := cmd.String("opponent-preset")
	if opponentPreset == "" {
		opponentPreset = cmd.String("preset")
	}

	cfg := Config{
		Primary:    primary,
		Presets:    [2]string{cmd.String("preset"), opponentPreset},
		MaxMoves:   int(cmd.Int("max-moves")),
		Aggression: cmd.Float("aggression"),
		Cleanup:    !cmd.Bool("keep"),
	}

	seed := cmd.Uint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	start := time.Now()
	results, err := PlayMany(ctx, NewClient(cmd.String("url")), cfg, int(cmd.Int("games")), int(cmd.Int("parallel")), seed, logger)
	if err != nil {
		return err
	}

	printSummary(cmd.Root().Writer, results, time.Since(start))
	return nil
}

// PlayMany plays games with at most parallel running at once. Each game gets
// its own random stream derived from seed.
func PlayMany(ctx context.Context, c *Client, cfg Config, games, parallel int, seed uint64, logger *zap.Logger) ([]*Result, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]*Result, games)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := 0; i < games; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			result, err := PlayGame(ctx, c, cfg, rng, logger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printSummary(w io.Writer, results []*Result, took time.Duration) {
	wins := map[engine.Side]int{}
	reasons := map[string]int{}
	moves, captures, missed := 0, 0, 0

	for _, r := range results {
		if r.Winner != nil {
			wins[*r.Winner]++
		}
		reasons[r.Reason]++
		moves += r.Moves
		captures += r.Captures
		missed += r.Missed
	}

	fmt.Fprintf(w, "Games: %d in %s\n", len(results), took.Round(time.Millisecond))
	fmt.Fprintf(w, "Wins: Red %d, Blue %d\n", wins[engine.Red], wins[engine.Blue])
	for _, reason := range []string{ReasonFlagCaptured, ReasonNoMoves, ReasonMoveLimit} {
		fmt.Fprintf(w, "  %-18s %d\n", reason, reasons[reason])
	}
	if len(results) > 0 {
		fmt.Fprintf(w, "Moves: %d (avg %d), captures: %d\n", moves, moves/len(results), captures)
	}
	if missed > 0 {
		fmt.Fprintf(w, "Change polls that missed a move: %d\n", missed)
	}
}
