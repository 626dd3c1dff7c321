package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/notify"
	"github.com/vovakirdan/blockfall/internal/runner"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

var (
	flagMaxPieces int
	flagMoveDelay time.Duration
	flagNoSave    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a headless game with the built-in planner",
	Long: `Run a game without any observer except the log. A simple placement
planner plays every piece while the runner ticks gravity in the background.
The game ends on game over or after --pieces pieces; the result is saved to
the scores database unless --no-save is given.

Examples:
  blockfall run
  blockfall run --seed 42 --pieces 1000
  blockfall run --log-level debug --delay 100ms`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagMaxPieces, "pieces", 500, "Stop after this many pieces (0 = until game over)")
	runCmd.Flags().DurationVar(&flagMoveDelay, "delay", 0, "Pause between pieces")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the result")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, "blockfall")

	var store *storage.Store
	if !flagNoSave {
		store, err = storage.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	notifier := notify.Multi{notify.NewLogger(logger.WithPrefix("events"))}
	if store != nil {
		// Records the result on game over.
		keeper := notify.NewScoreKeeper(store, logger)
		defer keeper.Close()
		notifier = append(notifier, keeper)
	}

	game, err := tetris.NewGame(cfg.Runtime(), notifier, logger)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}
	r := runner.New(game, cfg.Runtime(), logger)
	defer r.Close()

	if err := r.Start(); err != nil {
		return err
	}

	pieces := 0
	for flagMaxPieces == 0 || pieces < flagMaxPieces {
		played := r.Do(func(g *tetris.Game) bool {
			pl, ok := g.BestPlacement()
			if !ok {
				return false
			}
			logger.Debug("placement", "piece", string(g.Current().Name()),
				"rotations", pl.Rotations, "shift", pl.Shift, "clears", pl.Cleared)
			return g.Play(pl)
		})
		if !played {
			break
		}
		pieces++
		if flagMoveDelay > 0 {
			time.Sleep(flagMoveDelay)
		}
	}
	r.Pause()

	s := r.Snapshot()
	if !s.GameOver() && store != nil {
		result := storage.Result{Score: s.Score, Level: s.Level, Lines: s.Lines}
		if _, err := store.SaveScore(result); err != nil {
			return err
		}
	}

	fmt.Printf("Pieces: %d  Score: %d  Level: %d  Lines: %d", pieces, s.Score, s.Level, s.Lines)
	if s.GameOver() {
		fmt.Print("  (game over)")
	}
	fmt.Println()
	return nil
}
