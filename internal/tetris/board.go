package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Field dimensions of the classic rule set.
const (
	BoardRows = 21
	BoardCols = 10
)

// EmptyCell marks an unoccupied board cell.
const EmptyCell = '_'

// Dimensions returns the field size as (rows, cols).
func Dimensions() (rows, cols int) {
	return BoardRows, BoardCols
}

// Board is the grid of locked cells. A cell holds either EmptyCell or the
// name of the shape that was locked into it.
type Board struct {
	cells [BoardRows][BoardCols]rune
}

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	b.Clear()
	return b
}

// Clear empties every cell.
func (b *Board) Clear() {
	for i := range b.cells {
		b.clearRow(i)
	}
}

func (b *Board) clearRow(row int) {
	for j := range b.cells[row] {
		b.cells[row][j] = EmptyCell
	}
}

// At returns the cell at p. Out-of-field coordinates read as EmptyCell.
func (b *Board) At(p core.Point) rune {
	if !inField(p) {
		return EmptyCell
	}
	return b.cells[p.Row][p.Col]
}

// Rows returns the grid as one string per row, top to bottom.
func (b *Board) Rows() []string {
	rows := make([]string, BoardRows)
	for i := range b.cells {
		rows[i] = string(b.cells[i][:])
	}
	return rows
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	n := 0
	for i := range b.cells {
		for _, c := range b.cells[i] {
			if c != EmptyCell {
				n++
			}
		}
	}
	return n
}

// CheckMove reports whether piece may be translated by step.
// It returns nil or a *MoveError. Horizontal overflow is reported before
// anything else so callers can shift the piece back onto the field.
func (b *Board) CheckMove(piece Piece, step core.Point) error {
	var worst *MoveError
	for _, c := range piece.Cells() {
		col := c.Col + step.Col
		switch {
		case col < 0:
			if worst == nil || -col > core.Abs(worst.Distance) {
				worst = &MoveError{Kind: TooFarLeft, Distance: col}
			}
		case col >= BoardCols:
			dist := col + 1 - BoardCols
			if worst == nil || dist > core.Abs(worst.Distance) {
				worst = &MoveError{Kind: TooFarRight, Distance: dist}
			}
		}
	}
	if worst != nil {
		return worst
	}

	for _, c := range piece.Cells() {
		target := c.Add(step)
		switch {
		case target.Row >= BoardRows:
			return &MoveError{Kind: TooFarDown}
		case target.Row < 0:
			return &MoveError{Kind: TooFarUp}
		case b.cells[target.Row][target.Col] != EmptyCell:
			return &MoveError{Kind: Overlap}
		}
	}
	return nil
}

// merge writes the piece's cells into the board.
func (b *Board) merge(piece Piece) {
	for _, c := range piece.Cells() {
		b.cells[c.Row][c.Col] = piece.Name()
	}
}

func (b *Board) rowFull(row int) bool {
	for _, c := range b.cells[row] {
		if c == EmptyCell {
			return false
		}
	}
	return true
}

// clearFullRows removes full rows, shifting the rows above them down,
// and returns how many were removed.
func (b *Board) clearFullRows() int {
	cleared := 0
	for i := BoardRows - 1; i >= 0; i-- {
		// The row shifted into i may itself be full.
		for b.rowFull(i) {
			for r := i - 1; r >= 0; r-- {
				b.cells[r+1] = b.cells[r]
			}
			// Nothing shifts into row 0.
			b.clearRow(0)
			cleared++
		}
	}
	for i := 0; i < cleared && i < BoardRows; i++ {
		b.clearRow(i)
	}
	return cleared
}

func inField(p core.Point) bool {
	return p.Row >= 0 && p.Row < BoardRows && p.Col >= 0 && p.Col < BoardCols
}
