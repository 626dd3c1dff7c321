package notify

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// ScoreSaver persists a finished game. *storage.Store satisfies it.
type ScoreSaver interface {
	SaveScore(r storage.Result) (int64, error)
}

// DefaultSaveQueue is how many finished games may wait for the store.
const DefaultSaveQueue = 16

// ScoreKeeper follows the score and level events of a game and records the
// final result when the game ends. Cleared lines are derived from each
// score increase and the level it was awarded at.
//
// Results are written by a background worker; the emit path only queues
// them. Close flushes the queue.
type ScoreKeeper struct {
	mu     sync.Mutex
	store  ScoreSaver
	logger *log.Logger

	score int
	level int
	lines int

	lastID int64
	over   bool

	queue  chan storage.Result
	closed bool
	done   chan struct{}
}

// NewScoreKeeper returns a keeper writing to store and starts its worker.
func NewScoreKeeper(store ScoreSaver, logger *log.Logger) *ScoreKeeper {
	if logger == nil {
		logger = log.Default()
	}
	k := &ScoreKeeper{
		store:  store,
		logger: logger,
		queue:  make(chan storage.Result, DefaultSaveQueue),
		done:   make(chan struct{}),
	}
	go k.saveLoop()
	return k
}

func (k *ScoreKeeper) saveLoop() {
	defer close(k.done)
	for result := range k.queue {
		id, err := k.store.SaveScore(result)
		if err != nil {
			// Storage failures are logged, never returned to the engine.
			k.logger.Error("cannot save score", "score", result.Score, "error", err)
			continue
		}
		k.mu.Lock()
		k.lastID = id
		k.mu.Unlock()
		k.logger.Info("score saved", "id", id, "score", result.Score, "level", result.Level, "lines", result.Lines)
	}
}

// Close stops accepting results and waits until queued ones are stored.
func (k *ScoreKeeper) Close() {
	k.mu.Lock()
	if !k.closed {
		k.closed = true
		close(k.queue)
	}
	k.mu.Unlock()
	<-k.done
}

func (k *ScoreKeeper) EmitPiece(tetris.Channel, tetris.PieceView) error { return nil }
func (k *ScoreKeeper) EmitBoard(tetris.Channel, []string) error         { return nil }

func (k *ScoreKeeper) EmitNumber(ch tetris.Channel, v int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch ch {
	case tetris.ChannelScore:
		// Anything after a game over, or a score going down, is a new game.
		if k.over || v < k.score {
			k.restart()
		}
		k.score = v
	case tetris.ChannelScoreIncrease:
		k.lines += linesForIncrease(v, k.level)
	case tetris.ChannelLevel:
		if k.over || v < k.level {
			k.restart()
		}
		k.level = v
	}
	return nil
}

func (k *ScoreKeeper) restart() {
	k.score = 0
	k.level = 0
	k.lines = 0
	k.over = false
}

func (k *ScoreKeeper) EmitString(ch tetris.Channel, _ string) error {
	if ch != tetris.ChannelGameOver {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.over {
		return nil
	}
	k.over = true
	result := k.result()
	if k.closed {
		k.logger.Warn("score keeper closed, result not saved", "score", result.Score)
		return nil
	}
	select {
	case k.queue <- result:
	default:
		k.logger.Error("score queue full, result dropped", "score", result.Score)
	}
	return nil
}

// Result returns what would be recorded if the game ended now.
func (k *ScoreKeeper) Result() storage.Result {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.result()
}

func (k *ScoreKeeper) result() storage.Result {
	return storage.Result{Score: k.score, Level: k.level, Lines: k.lines}
}

// LastSaved returns the ID of the most recently stored result.
func (k *ScoreKeeper) LastSaved() (int64, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastID, k.lastID != 0
}

// linesForIncrease recovers the number of rows cleared from a score increase.
func linesForIncrease(points, level int) int {
	base := points / (level + 1)
	for n := 1; n <= 4; n++ {
		if tetris.LineClearPoints(n) == base {
			return n
		}
	}
	return 0
}
