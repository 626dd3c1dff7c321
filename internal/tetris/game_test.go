package tetris

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

type event struct {
	ch    Channel
	value any
}

// recorder is a Notifier that keeps every event in order.
type recorder struct {
	events []event
	err    error
}

func (r *recorder) EmitPiece(ch Channel, p PieceView) error {
	r.events = append(r.events, event{ch, p})
	return r.err
}

func (r *recorder) EmitBoard(ch Channel, rows []string) error {
	r.events = append(r.events, event{ch, rows})
	return r.err
}

func (r *recorder) EmitNumber(ch Channel, v int) error {
	r.events = append(r.events, event{ch, v})
	return r.err
}

func (r *recorder) EmitString(ch Channel, v string) error {
	r.events = append(r.events, event{ch, v})
	return r.err
}

func (r *recorder) count(ch Channel) int {
	n := 0
	for _, e := range r.events {
		if e.ch == ch {
			n++
		}
	}
	return n
}

func (r *recorder) last(ch Channel) any {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].ch == ch {
			return r.events[i].value
		}
	}
	return nil
}

func (r *recorder) channels() []Channel {
	chs := make([]Channel, len(r.events))
	for i, e := range r.events {
		chs[i] = e.ch
	}
	return chs
}

func newTestGame(t *testing.T, first string) (*Game, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := core.RuntimeConfig{TickRate: 60, Seed: 99, FirstShape: first}
	g, err := NewGame(cfg, rec, log.New(io.Discard))
	require.NoError(t, err)
	return g, rec
}

// assertNoOverlap checks the central invariant of an active game.
func assertNoOverlap(t *testing.T, g *Game) {
	t.Helper()
	if g.Over() {
		return
	}
	for _, c := range g.current.Cells() {
		assert.Equal(t, rune(EmptyCell), g.board.At(c), "current piece overlaps locked cell %v", c)
	}
}

func TestNewGame(t *testing.T) {
	g, rec := newTestGame(t, "T")

	assert.Equal(t, 'T', g.Current().Name())
	assert.Equal(t, SpawnPos, g.Current().Pos())
	assert.Equal(t, NextPos, g.Next().Pos())
	assert.False(t, g.Next().IsEmpty())
	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 0, g.Level())
	assert.Equal(t, 0, g.Lines())
	assert.Equal(t, WaitTicksForLevel(0), g.WaitTicks())
	assert.False(t, g.Over())
	assert.Empty(t, rec.events, "construction does not emit")
}

func TestNewGameRejectsUnknownFirstShape(t *testing.T) {
	for _, name := range []string{"X", "TT", "é"} {
		_, err := NewGame(core.RuntimeConfig{FirstShape: name}, &recorder{}, log.New(io.Discard))
		assert.ErrorIs(t, err, ErrUnknownShape, "first shape %q", name)
	}

	_, err := NewGame(core.DefaultConfig(), nil, nil)
	assert.Error(t, err)
}

func TestSpawnColumn(t *testing.T) {
	assert.Equal(t, core.Pt(0, 3), SpawnPos)
}

func TestApplyArrowMovesAndEmits(t *testing.T) {
	g, rec := newTestGame(t, "T")

	assert.True(t, g.ApplyArrow(core.DirLeft))
	assert.Equal(t, core.Pt(0, 2), g.Current().Pos())
	assert.True(t, g.ApplyArrow(core.DirRight))
	assert.True(t, g.ApplyArrow(core.DirDown))
	assert.Equal(t, core.Pt(1, 3), g.Current().Pos())

	assert.Equal(t, 3, rec.count(ChannelCurrent))
	assert.Equal(t, g.Current().View(), rec.last(ChannelCurrent))
}

func TestApplyArrowRejectedAtWall(t *testing.T) {
	g, rec := newTestGame(t, "O")

	// O occupies mask columns 1-2, so it reaches the left wall at pos col -1.
	for g.ApplyArrow(core.DirLeft) {
	}
	assert.Equal(t, 0, g.Current().Cells()[0].Col)
	before := g.Current()
	emitted := len(rec.events)

	assert.False(t, g.ApplyArrow(core.DirLeft))
	assert.Equal(t, before.Pos(), g.Current().Pos())
	assert.Equal(t, emitted, len(rec.events), "rejected horizontal move emits nothing")
	assert.Equal(t, 0, g.board.Filled(), "rejected horizontal move never locks")
}

func TestApplyArrowInvalidDirection(t *testing.T) {
	g, rec := newTestGame(t, "T")
	assert.False(t, g.ApplyArrow(core.DirNone))
	assert.False(t, g.ApplyArrow(core.Direction(42)))
	assert.Equal(t, SpawnPos, g.Current().Pos())
	assert.Empty(t, rec.events)
}

func TestLockAndSpawn(t *testing.T) {
	g, rec := newTestGame(t, "I")
	next := g.Next().Name()

	// The horizontal I sits in mask row 2, so it can fall 18 rows.
	moves := 0
	for g.ApplyArrow(core.DirDown) {
		moves++
	}
	assert.Equal(t, BoardRows-3, moves)

	assert.Equal(t, "___IIII___", g.board.Rows()[20])
	assert.Equal(t, next, g.Current().Name(), "next piece was promoted")
	assert.Equal(t, SpawnPos, g.Current().Pos())
	assert.False(t, g.Over())
	assert.Equal(t, g.Current().View(), rec.last(ChannelCurrent))
	assert.Equal(t, g.Next().View(), rec.last(ChannelNext))
	assert.Equal(t, g.board.Rows(), rec.last(ChannelBoard))

	// The wait counter holds the fresh piece at the spawn column.
	require.Greater(t, g.WaitTicks(), 0)
	assert.True(t, g.Tick())
	assert.Equal(t, SpawnPos, g.Current().Pos())
	assertNoOverlap(t, g)
}

func TestLockEventOrder(t *testing.T) {
	g, rec := newTestGame(t, "I")
	for g.ApplyArrow(core.DirDown) {
	}
	rec.events = nil

	require.True(t, g.HardDrop())
	assert.Equal(t, []Channel{ChannelBoard, ChannelCurrent, ChannelNext}, rec.channels())
}

func TestTickWaitsForLevelSpeed(t *testing.T) {
	g, _ := newTestGame(t, "T")

	wait := WaitTicksForLevel(0)
	for i := 0; i < wait; i++ {
		require.True(t, g.Tick())
		require.Equal(t, SpawnPos, g.Current().Pos(), "tick %d", i)
	}
	assert.Equal(t, 0, g.WaitTicks())

	require.True(t, g.Tick())
	assert.Equal(t, core.Pt(1, 3), g.Current().Pos())
	assert.Equal(t, wait, g.WaitTicks())

	g.level = 9
	g.waitTicks = 0
	require.True(t, g.Tick())
	assert.Equal(t, 6, g.WaitTicks())
}

func TestTickLocksAtFloor(t *testing.T) {
	g, _ := newTestGame(t, "O")
	down := core.DirDown.Step()
	for g.CheckMove(g.current, down) == nil {
		g.current.Move(down)
	}
	require.Equal(t, 0, g.board.Filled())
	g.waitTicks = 0

	assert.True(t, g.Tick())
	assert.Equal(t, 4, g.board.Filled())
	assert.Equal(t, SpawnPos, g.Current().Pos())
	assert.Equal(t, WaitTicksForLevel(0), g.WaitTicks())
}

func TestHardDropSingleLineClear(t *testing.T) {
	g, rec := newTestGame(t, "I")

	// Vertical I in column 4, row 20 missing exactly that cell.
	fillRow(&g.board, 20, 'X', 4)
	require.True(t, g.Rotate(core.RotateClockwise))
	require.Equal(t, 4, g.Current().Cells()[0].Col)

	require.True(t, g.HardDrop())

	rows := g.board.Rows()
	assert.Equal(t, "__________", rows[0], "top row is empty after the shift")
	assert.Equal(t, "____I_____", rows[20])
	assert.Equal(t, "____I_____", rows[19])
	assert.Equal(t, "____I_____", rows[18])
	assert.Equal(t, "__________", rows[17])
	assert.Equal(t, 3, g.board.Filled())

	assert.Equal(t, 100, g.Score())
	assert.Equal(t, 1, g.Lines())
	assert.Equal(t, 100, rec.last(ChannelScore))
	assert.Equal(t, 100, rec.last(ChannelScoreIncrease))
	assert.Equal(t, 0, rec.count(ChannelLevel))
}

func TestScoreScalesWithLevel(t *testing.T) {
	g, rec := newTestGame(t, "I")
	g.level = 2
	g.lines = 40
	fillRow(&g.board, 20, 'X', 4)
	require.True(t, g.Rotate(core.RotateClockwise))
	require.True(t, g.HardDrop())

	assert.Equal(t, 300, g.Score())
	assert.Equal(t, 300, rec.last(ChannelScoreIncrease))
}

func TestTetrisClear(t *testing.T) {
	g, rec := newTestGame(t, "I")
	for row := 17; row <= 20; row++ {
		fillRow(&g.board, row, 'X', 4)
	}
	require.True(t, g.Rotate(core.RotateClockwise))
	require.True(t, g.HardDrop())

	assert.Equal(t, 0, g.board.Filled())
	assert.Equal(t, 800, g.Score())
	assert.Equal(t, 4, g.Lines())
	assert.Equal(t, 800, rec.last(ChannelScoreIncrease))
}

func TestLevelThreshold(t *testing.T) {
	g, rec := newTestGame(t, "I")
	g.lines = 9
	fillRow(&g.board, 20, 'X', 4)
	require.True(t, g.Rotate(core.RotateClockwise))
	require.True(t, g.HardDrop())

	assert.Equal(t, 10, g.Lines())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 1, rec.count(ChannelLevel))
	assert.Equal(t, 1, rec.last(ChannelLevel))
}

func TestLevelIncrementsOnceOnly(t *testing.T) {
	g, rec := newTestGame(t, "I")
	// 19 + 4 crosses both the level 0 (10) and level 1 (20) thresholds.
	g.lines = 19
	for row := 17; row <= 20; row++ {
		fillRow(&g.board, row, 'X', 4)
	}
	require.True(t, g.Rotate(core.RotateClockwise))
	require.True(t, g.HardDrop())

	assert.Equal(t, 23, g.Lines())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 1, rec.count(ChannelLevel))
}

func TestRotateWallKickLeft(t *testing.T) {
	g, _ := newTestGame(t, "I")
	require.True(t, g.Rotate(core.RotateClockwise))
	for g.ApplyArrow(core.DirLeft) {
	}
	require.Equal(t, 0, g.Current().Cells()[0].Col)
	require.Equal(t, -1, g.Current().Pos().Col)

	// Horizontal again in mask row 1, one column past the left wall.
	require.True(t, g.Rotate(core.RotateClockwise))
	assert.Equal(t, core.Pt(0, 0), g.Current().Pos())
	assert.Equal(t, []core.Point{
		core.Pt(1, 0), core.Pt(1, 1), core.Pt(1, 2), core.Pt(1, 3),
	}, g.Current().Cells())
}

func TestRotateWallKickRight(t *testing.T) {
	g, _ := newTestGame(t, "I")
	require.True(t, g.Rotate(core.RotateClockwise))
	for g.ApplyArrow(core.DirRight) {
	}
	require.Equal(t, BoardCols-1, g.Current().Cells()[0].Col)

	require.True(t, g.Rotate(core.RotateClockwise))
	cells := g.Current().Cells()
	assert.Equal(t, BoardCols-4, cells[0].Col)
	assert.Equal(t, BoardCols-1, cells[3].Col)
}

func TestRotateWallKickBlocked(t *testing.T) {
	g, rec := newTestGame(t, "I")
	require.True(t, g.Rotate(core.RotateClockwise))
	for g.ApplyArrow(core.DirLeft) {
	}
	// Block the kicked position.
	g.board.cells[1][3] = 'X'
	before := g.Current()
	emitted := len(rec.events)

	assert.False(t, g.Rotate(core.RotateClockwise))
	assert.Equal(t, before.Pos(), g.Current().Pos())
	assert.Equal(t, before.Shape(), g.Current().Shape())
	assert.Equal(t, emitted, len(rec.events))
}

func TestRotateBlockedByStack(t *testing.T) {
	g, _ := newTestGame(t, "I")
	// Vertical I would need column 4 in rows 0-3.
	g.board.cells[3][4] = 'X'
	assert.False(t, g.Rotate(core.RotateClockwise))
	assert.False(t, g.Rotate(core.RotateNone))
}

func TestGameOver(t *testing.T) {
	g, rec := newTestGame(t, "I")
	// Stack reaches row 3; column 9 stays open so nothing clears.
	for row := 3; row < BoardRows; row++ {
		fillRow(&g.board, row, 'X', 9)
	}

	// The I locks in row 2 right at spawn; every shape needs row 2 there.
	require.True(t, g.HardDrop())
	assert.True(t, g.Over())
	assert.Equal(t, 1, rec.count(ChannelGameOver))
	assert.Equal(t, GameOverMessage, rec.last(ChannelGameOver))
	assert.True(t, g.Snapshot().GameOver())

	emitted := len(rec.events)
	assert.False(t, g.ApplyArrow(core.DirLeft))
	assert.False(t, g.ApplyArrow(core.DirDown))
	assert.False(t, g.Rotate(core.RotateClockwise))
	assert.False(t, g.HardDrop())
	assert.False(t, g.Tick())
	assert.False(t, g.Tick())
	assert.Equal(t, emitted, len(rec.events), "game over is terminal")
	assert.Equal(t, 1, rec.count(ChannelGameOver))
}

func TestResetLeavesGameOver(t *testing.T) {
	g, rec := newTestGame(t, "I")
	for row := 3; row < BoardRows; row++ {
		fillRow(&g.board, row, 'X', 9)
	}
	g.score = 500
	g.level = 3
	g.lines = 42
	require.True(t, g.HardDrop())
	require.True(t, g.Over())
	rec.events = nil

	g.Reset()

	assert.False(t, g.Over())
	assert.Equal(t, 0, g.board.Filled())
	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 0, g.Level())
	assert.Equal(t, 0, g.Lines())
	assert.Equal(t, 'I', g.Current().Name(), "fixed first shape is honoured on reset")
	assert.Equal(t, WaitTicksForLevel(0), g.WaitTicks())
	assert.Equal(t, []Channel{
		ChannelCurrent, ChannelNext, ChannelScore, ChannelLevel, ChannelBoard,
	}, rec.channels())
	assert.True(t, g.Tick())
}

func TestNotifierFailureIsFatal(t *testing.T) {
	g, rec := newTestGame(t, "T")
	rec.err = errors.New("observer gone")
	assert.Panics(t, func() { g.ApplyArrow(core.DirLeft) })
}

func TestRandomPlayKeepsInvariant(t *testing.T) {
	g, _ := newTestGame(t, "")
	g.gen = NewGenerator(2024)
	actions := []func(){
		func() { g.ApplyArrow(core.DirLeft) },
		func() { g.ApplyArrow(core.DirRight) },
		func() { g.ApplyArrow(core.DirDown) },
		func() { g.Rotate(core.RotateClockwise) },
		func() { g.Rotate(core.RotateCounterClockwise) },
		func() { g.Tick() },
	}

	prevScore, prevLevel, prevLines := 0, 0, 0
	for i := 0; i < 5000 && !g.Over(); i++ {
		actions[i%len(actions)]()
		if i%37 == 0 {
			g.HardDrop()
		}
		assertNoOverlap(t, g)
		require.GreaterOrEqual(t, g.Score(), prevScore)
		require.GreaterOrEqual(t, g.Level(), prevLevel)
		require.GreaterOrEqual(t, g.Lines(), prevLines)
		prevScore, prevLevel, prevLines = g.Score(), g.Level(), g.Lines()
	}
}

func TestSnapshot(t *testing.T) {
	g, _ := newTestGame(t, "O")
	g.score = 1200
	g.level = 2
	g.lines = 25

	s := g.Snapshot()
	assert.Equal(t, StateActive, s.State)
	assert.Equal(t, "O", s.Current.Shape)
	assert.Equal(t, [][2]int{{1, 4}, {1, 5}, {2, 4}, {2, 5}}, s.Current.Cells)
	assert.Equal(t, 1200, s.Score)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 25, s.Lines)
	assert.Len(t, s.Board, BoardRows)
	assert.False(t, s.GameOver())
}
