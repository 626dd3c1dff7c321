package main

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/notify"
	"github.com/vovakirdan/blockfall/internal/runner"
	"github.com/vovakirdan/blockfall/internal/server"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

var (
	flagAddr      string
	flagAutoStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP command API and websocket event stream",
	Long: `Start an HTTP server hosting one game.

Commands:
  POST /api/start | /api/pause | /api/reset | /api/drop
  POST /api/arrow/{down|left|right}
  POST /api/rotate/{clockwise|counter-clockwise}
  GET  /api/state | /api/board-size | /api/scores
  GET  /ws          websocket stream of engine events

Finished games are recorded in the scores database.

Examples:
  blockfall serve                     # Listen on the configured address
  blockfall serve --addr :9000        # Listen on port 9000
  blockfall serve --start             # Start ticking immediately`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagAutoStart, "start", false, "Start the game without waiting for /api/start")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Address = flagAddr
	}
	logger := newLogger(cfg, "blockfall")

	hub := notify.NewHub(notify.HubOptions{
		CheckOrigin: originChecker(cfg.Server.AllowedOrigins),
		Logger:      logger.WithPrefix("ws"),
	})
	notifier := notify.Multi{hub, notify.NewLogger(logger.WithPrefix("events"))}

	var scores server.ScoreLister
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	} else {
		defer store.Close()
		scores = store
		keeper := notify.NewScoreKeeper(store, logger)
		defer keeper.Close()
		notifier = append(notifier, keeper)
	}

	game, err := tetris.NewGame(cfg.Runtime(), notifier, logger)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}
	r := runner.New(game, cfg.Runtime(), logger)

	srv := server.New(server.Config{
		Address:        cfg.Server.Address,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, r, hub, scores, logger.WithPrefix("http"))

	if flagAutoStart {
		if err := r.Start(); err != nil {
			return err
		}
	}

	fmt.Printf("Blockfall listening on %s\n", cfg.Server.Address)
	fmt.Println("Press Ctrl+C to stop")
	return srv.ListenAndServe()
}

// originChecker applies the CORS origin list to websocket upgrades.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
