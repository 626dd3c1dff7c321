// Package runner drives a game on a fixed-rate background ticker and
// serializes player commands against it.
package runner

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// ErrGameOver is returned by Start when the game has ended and needs a Reset.
var ErrGameOver = errors.New("runner: game is over")

// Runner owns a game and the goroutine that ticks it.
//
// The mutex guards the game and the stop channel. The running flag is read
// without the lock by player commands and IsRunning.
type Runner struct {
	mu       sync.Mutex
	game     *tetris.Game
	stop     chan struct{} // closed to end the current loop; nil when idle
	interval time.Duration

	running atomic.Bool
	wg      sync.WaitGroup
	logger  *log.Logger
}

// New creates a paused runner for game.
func New(game *tetris.Game, cfg core.RuntimeConfig, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		game:     game,
		interval: cfg.TickInterval(),
		logger:   logger,
	}
}

// Start publishes the full game state and begins ticking.
// It is a no-op while already running.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game.Over() {
		return ErrGameOver
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}

	stop := make(chan struct{})
	r.stop = stop
	r.game.EmitState()

	r.wg.Add(1)
	go r.loop(stop)
	r.logger.Info("runner started", "interval", r.interval)
	return nil
}

func (r *Runner) loop(stop chan struct{}) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if !r.tick(stop) {
			return
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// tick runs one game tick unless the loop was stopped. It reports whether
// the loop should keep going.
func (r *Runner) tick(stop chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-stop:
		return false
	default:
	}

	if r.game.Tick() {
		return true
	}

	// Game over ends this loop; a later Start needs a Reset first.
	r.running.Store(false)
	close(stop)
	r.stop = nil
	r.logger.Info("runner stopped", "reason", "game over", "score", r.game.Score())
	return false
}

// halt ends the current loop. Callers hold the mutex.
func (r *Runner) halt() {
	r.running.Store(false)
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Pause stops ticking. A tick already in progress completes first.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		r.logger.Info("runner paused")
	}
	r.halt()
}

// Reset stops ticking and starts a new game. The runner stays paused.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.halt()
	r.game.Reset()
	r.logger.Info("game reset")
}

// IsRunning reports whether the background loop is active.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// Close pauses the runner and waits for the loop goroutine to exit.
func (r *Runner) Close() {
	r.Pause()
	r.wg.Wait()
}

// ApplyArrow moves the current piece. It refuses while paused or over.
func (r *Runner) ApplyArrow(dir core.Direction) bool {
	return r.Do(func(g *tetris.Game) bool { return g.ApplyArrow(dir) })
}

// Rotate turns the current piece. It refuses while paused or over.
func (r *Runner) Rotate(rot core.Rotation) bool {
	return r.Do(func(g *tetris.Game) bool { return g.Rotate(rot) })
}

// HardDrop drops and locks the current piece. It refuses while paused or over.
func (r *Runner) HardDrop() bool {
	return r.Do(func(g *tetris.Game) bool { return g.HardDrop() })
}

// Do runs fn against the game under the runner's lock. Like the player
// commands it refuses while paused or after game over.
func (r *Runner) Do(fn func(*tetris.Game) bool) bool {
	if !r.running.Load() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Checked under the lock: the loop may have ended the game meanwhile.
	if r.game.Over() {
		return false
	}
	return fn(r.game)
}

// Inspect runs fn against the game under the runner's lock, whether or not
// the runner is ticking. fn must not call back into the runner.
func (r *Runner) Inspect(fn func(*tetris.Game)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.game)
}

// Snapshot returns a consistent copy of the game state.
func (r *Runner) Snapshot() tetris.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// BoardSize returns the field dimensions as (rows, cols).
func (r *Runner) BoardSize() (rows, cols int) {
	return tetris.Dimensions()
}
