package tetris

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Piece is a shape positioned on the field by its top-left mask corner.
// The zero Piece has no shape and occupies nothing.
type Piece struct {
	shape Shape
	pos   core.Point
	cells []core.Point // cached absolute cells, row-major
}

// NewPiece places shape with its top-left corner at pos.
func NewPiece(shape Shape, pos core.Point) Piece {
	p := Piece{shape: shape, pos: pos}
	p.updateCells()
	return p
}

// Name returns the shape name, or 0 for an empty piece.
func (p Piece) Name() rune {
	return p.shape.Name
}

// Shape returns the piece's shape in its current orientation.
func (p Piece) Shape() Shape {
	return p.shape
}

// Pos returns the top-left corner of the mask.
func (p Piece) Pos() core.Point {
	return p.pos
}

// IsEmpty reports whether the piece is a placeholder without a shape.
func (p Piece) IsEmpty() bool {
	return p.shape.Name == 0
}

// Cells returns the occupied field cells in row-major order.
// The returned slice must not be modified.
func (p Piece) Cells() []core.Point {
	return p.cells
}

// Clone returns an independent copy of the piece.
func (p Piece) Clone() Piece {
	c := p
	c.cells = append([]core.Point(nil), p.cells...)
	return c
}

// Move translates the piece by step. No bounds checking is done here.
func (p *Piece) Move(step core.Point) {
	p.pos = p.pos.Add(step)
	p.updateCells()
}

// Rotate turns the piece's mask in place around its fixed position.
func (p *Piece) Rotate(r core.Rotation) {
	switch r {
	case core.RotateClockwise:
		p.shape.RotateClockwise()
	case core.RotateCounterClockwise:
		p.shape.RotateCounterClockwise()
	default:
		log.Warn("invalid rotation direction", "rotation", int(r))
	}
	p.updateCells()
}

func (p *Piece) updateCells() {
	cells := make([]core.Point, 0, ShapeSize)
	for i := 0; i < ShapeSize; i++ {
		for j := 0; j < ShapeSize; j++ {
			if p.shape.Mask[i][j] {
				cells = append(cells, core.Pt(p.pos.Row+i, p.pos.Col+j))
			}
		}
	}
	p.cells = cells
}

// View converts the piece into its notification payload.
func (p Piece) View() PieceView {
	v := PieceView{Cells: make([][2]int, len(p.cells))}
	if !p.IsEmpty() {
		v.Shape = string(p.shape.Name)
	}
	for i, c := range p.cells {
		v.Cells[i] = [2]int{c.Row, c.Col}
	}
	return v
}
