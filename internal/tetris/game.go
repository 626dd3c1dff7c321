package tetris

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
)

// SpawnPos is where a new current piece enters the field.
var SpawnPos = core.Pt(0, (BoardCols-ShapeSize)/2)

// NextPos is the neutral position of the preview piece.
var NextPos = core.Pt(0, 0)

// Game is the board, the active and preview pieces and the score/level
// progression. It is not safe for concurrent use; the runner serializes
// access to it.
type Game struct {
	board   Board
	current Piece
	next    Piece
	gen     *Generator

	firstShape rune // fixed first piece on every reset, 0 for random

	level     int
	lines     int
	score     int
	waitTicks int
	over      bool

	notifier Notifier
	logger   *log.Logger
}

// NewGame creates a game ready to play. No events are emitted until the
// first mutation or an explicit EmitState.
func NewGame(cfg core.RuntimeConfig, notifier Notifier, logger *log.Logger) (*Game, error) {
	if notifier == nil {
		return nil, errors.New("tetris: nil notifier")
	}
	if logger == nil {
		logger = log.Default()
	}

	g := &Game{
		gen:      NewGenerator(cfg.Seed),
		notifier: notifier,
		logger:   logger,
	}

	if cfg.FirstShape != "" {
		name := []rune(cfg.FirstShape)
		if len(name) != 1 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownShape, cfg.FirstShape)
		}
		if _, err := g.gen.Make(name[0]); err != nil {
			return nil, err
		}
		g.firstShape = name[0]
	}

	g.init()
	return g, nil
}

// init puts the game into its initial Active state without emitting.
func (g *Game) init() {
	g.board = NewBoard()

	first := g.gen.MakeRandom()
	if g.firstShape != 0 {
		// Validated in NewGame.
		first, _ = g.gen.Make(g.firstShape)
	}
	g.current = NewPiece(first, SpawnPos)
	g.next = NewPiece(g.gen.MakeRandom(), NextPos)

	g.level = 0
	g.lines = 0
	g.score = 0
	g.waitTicks = WaitTicksForLevel(0)
	g.over = false
}

// Reset starts a new session in place and publishes the full state.
// It is the only way out of the game-over state.
func (g *Game) Reset() {
	g.init()
	g.logger.Debug("game reset", "current", string(g.current.Name()), "next", string(g.next.Name()))
	g.EmitState()
}

// EmitState publishes the current piece, next piece, score, level and board.
func (g *Game) EmitState() {
	g.emitPiece(ChannelCurrent, g.current)
	g.emitPiece(ChannelNext, g.next)
	g.emitNumber(ChannelScore, g.score)
	g.emitNumber(ChannelLevel, g.level)
	g.emitBoard()
}

// ApplyArrow moves the current piece one cell. A rejected down move locks
// the piece and spawns the next one; the call still returns false because
// the piece itself did not move.
func (g *Game) ApplyArrow(dir core.Direction) bool {
	if g.over {
		return false
	}
	step := dir.Step()
	if step.IsZero() {
		g.logger.Warn("invalid arrow direction", "direction", dir.String())
		return false
	}

	if err := g.board.CheckMove(g.current, step); err != nil {
		if dir == core.DirDown {
			g.lockAndSpawn()
		}
		return false
	}

	g.current.Move(step)
	g.emitPiece(ChannelCurrent, g.current)
	return true
}

// HardDrop drops the current piece as far as it goes, then locks it and
// spawns the next piece. It returns false only if the game is already over.
func (g *Game) HardDrop() bool {
	if g.over {
		return false
	}
	step := core.DirDown.Step()
	n := 0
	for g.board.CheckMove(g.current, step) == nil {
		g.current.Move(step)
		n++
	}
	g.logger.Debug("hard drop", "rows", n)
	g.lockAndSpawn()
	return true
}

// Rotate turns the current piece. If the turned piece sticks out past a side
// wall, a single horizontal shift back onto the field is tried.
func (g *Game) Rotate(r core.Rotation) bool {
	if g.over {
		return false
	}
	if r != core.RotateClockwise && r != core.RotateCounterClockwise {
		g.logger.Warn("invalid rotation direction", "rotation", r.String())
		return false
	}

	rotated := g.current.Clone()
	rotated.Rotate(r)

	err := g.board.CheckMove(rotated, core.Point{})
	if err != nil {
		var moveErr *MoveError
		if !errors.As(err, &moveErr) || !moveErr.Horizontal() {
			return false
		}
		kick := core.Pt(0, -moveErr.Distance)
		if g.board.CheckMove(rotated, kick) != nil {
			return false
		}
		rotated.Move(kick)
	}

	g.current = rotated
	g.emitPiece(ChannelCurrent, g.current)
	return true
}

// Tick advances gravity by one tick and reports whether the game is still
// playable. The piece only falls when the level's wait counter runs out.
func (g *Game) Tick() bool {
	if g.over {
		return false
	}
	if g.waitTicks > 0 {
		g.waitTicks--
		return true
	}
	g.waitTicks = WaitTicksForLevel(g.level)
	g.ApplyArrow(core.DirDown)
	return !g.over
}

func (g *Game) lockAndSpawn() {
	g.lock()
	g.spawn()
}

// lock merges the current piece into the board and clears full rows.
func (g *Game) lock() {
	g.board.merge(g.current)
	if n := g.board.clearFullRows(); n > 0 {
		g.logger.Debug("cleared rows", "count", n)
		g.emitBoard()
		g.updateScore(n)
		g.updateLevel(n)
	}
	g.emitBoard()
}

func (g *Game) updateScore(cleared int) {
	points := AwardedPoints(cleared, g.level)
	g.score += points
	g.emitNumber(ChannelScore, g.score)
	g.emitNumber(ChannelScoreIncrease, points)
}

func (g *Game) updateLevel(cleared int) {
	g.lines += cleared
	needed := LinesNeededForLevel(g.level)
	g.logger.Debug("line progress", "lines", g.lines, "needed", needed)
	if g.lines >= needed {
		g.level++
		g.logger.Info("level up", "level", g.level)
		g.emitNumber(ChannelLevel, g.level)
	}
}

// spawn promotes the preview piece. A spawn that overlaps the stack ends the game.
func (g *Game) spawn() {
	g.current = NewPiece(g.next.Shape(), SpawnPos)
	g.next = NewPiece(g.gen.MakeRandom(), NextPos)

	err := g.board.CheckMove(g.current, core.Point{})
	if err == nil {
		g.emitPiece(ChannelCurrent, g.current)
		g.emitPiece(ChannelNext, g.next)
		return
	}

	var moveErr *MoveError
	if errors.As(err, &moveErr) && moveErr.Kind == Overlap {
		g.over = true
		g.logger.Info("game over", "score", g.score, "level", g.level, "lines", g.lines)
		g.emitString(ChannelGameOver, GameOverMessage)
		return
	}

	// The spawn position is inside the field by construction.
	panic(fmt.Sprintf("tetris: spawned piece %q in invalid position: %v", g.current.Name(), err))
}

// CheckMove reports whether piece may be translated by step on this board.
func (g *Game) CheckMove(piece Piece, step core.Point) error {
	return g.board.CheckMove(piece, step)
}

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Score returns the cumulative score.
func (g *Game) Score() int { return g.score }

// Level returns the current level.
func (g *Game) Level() int { return g.level }

// Lines returns the total number of cleared lines.
func (g *Game) Lines() int { return g.lines }

// WaitTicks returns the ticks left before the next gravity step.
func (g *Game) WaitTicks() int { return g.waitTicks }

// Current returns a copy of the active piece.
func (g *Game) Current() Piece { return g.current.Clone() }

// Next returns a copy of the preview piece.
func (g *Game) Next() Piece { return g.next.Clone() }

// Board returns a copy of the board.
func (g *Game) Board() Board { return g.board }

func (g *Game) emitPiece(ch Channel, p Piece) {
	g.must(ch, g.notifier.EmitPiece(ch, p.View()))
}

func (g *Game) emitBoard() {
	g.must(ChannelBoard, g.notifier.EmitBoard(ChannelBoard, g.board.Rows()))
}

func (g *Game) emitNumber(ch Channel, v int) {
	g.must(ch, g.notifier.EmitNumber(ch, v))
}

func (g *Game) emitString(ch Channel, v string) {
	g.must(ch, g.notifier.EmitString(ch, v))
}

// must panics on a failed emission.
func (g *Game) must(ch Channel, err error) {
	if err != nil {
		panic(fmt.Errorf("tetris: emit %s: %w", ch, err))
	}
}
