package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

func mustShape(t *testing.T, name rune) Shape {
	t.Helper()
	s, err := MakeShape(name)
	require.NoError(t, err)
	return s
}

func TestPieceCellsRowMajor(t *testing.T) {
	p := NewPiece(mustShape(t, 'T'), core.Pt(0, 3))
	assert.Equal(t, []core.Point{
		core.Pt(1, 4), core.Pt(1, 5), core.Pt(1, 6),
		core.Pt(2, 5),
	}, p.Cells())
}

func TestPieceMove(t *testing.T) {
	p := NewPiece(mustShape(t, 'O'), core.Pt(0, 3))
	p.Move(core.Pt(2, -1))

	assert.Equal(t, core.Pt(2, 2), p.Pos())
	assert.Equal(t, []core.Point{
		core.Pt(3, 3), core.Pt(3, 4),
		core.Pt(4, 3), core.Pt(4, 4),
	}, p.Cells())

	// No bounds checking at this level.
	p.Move(core.Pt(0, -10))
	assert.Equal(t, -7, p.Cells()[0].Col)
}

func TestPieceRotateKeepsPosition(t *testing.T) {
	p := NewPiece(mustShape(t, 'I'), core.Pt(5, 3))
	p.Rotate(core.RotateClockwise)

	assert.Equal(t, core.Pt(5, 3), p.Pos())
	assert.Equal(t, []core.Point{
		core.Pt(5, 4), core.Pt(6, 4), core.Pt(7, 4), core.Pt(8, 4),
	}, p.Cells())
}

func TestPieceRotateInvalidIsNoop(t *testing.T) {
	p := NewPiece(mustShape(t, 'S'), core.Pt(0, 3))
	before := p.Clone()
	p.Rotate(core.RotateNone)
	assert.Equal(t, before.Shape(), p.Shape())
	assert.Equal(t, before.Cells(), p.Cells())
}

func TestPieceCloneIsIndependent(t *testing.T) {
	p := NewPiece(mustShape(t, 'L'), core.Pt(0, 3))
	c := p.Clone()
	c.Rotate(core.RotateClockwise)
	c.Move(core.Pt(3, 0))

	assert.Equal(t, core.Pt(0, 3), p.Pos())
	assert.Equal(t, mustShape(t, 'L').Mask, p.Shape().Mask)
}

func TestEmptyPiece(t *testing.T) {
	var p Piece
	assert.True(t, p.IsEmpty())
	assert.Empty(t, p.Cells())
	assert.Equal(t, PieceView{Shape: "", Cells: [][2]int{}}, p.View())
}

func TestPieceView(t *testing.T) {
	p := NewPiece(mustShape(t, 'Z'), core.Pt(3, 0))
	assert.Equal(t, PieceView{
		Shape: "Z",
		Cells: [][2]int{{4, 1}, {4, 2}, {5, 2}, {5, 3}},
	}, p.View())
}
