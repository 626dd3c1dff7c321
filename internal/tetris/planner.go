package tetris

import (
	"errors"
	"math"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Placement is a way to play the current piece: turn it clockwise
// Rotations times, shift it Shift columns, then hard drop.
type Placement struct {
	Rotations int
	Shift     int
	Cleared   int
	Score     float64
}

// Weights of the placement heuristic.
const (
	weightHeight    = -0.510066
	weightLines     = 0.760666
	weightHoles     = -0.35663
	weightBumpiness = -0.184483
)

// BestPlacement evaluates every reachable rotation and column for the
// current piece and returns the highest scoring one.
func (g *Game) BestPlacement() (Placement, bool) {
	if g.over {
		return Placement{}, false
	}

	best := Placement{Score: math.Inf(-1)}
	found := false
	for rot := 0; rot < 4; rot++ {
		p, ok := g.simulateRotations(rot)
		if !ok {
			continue
		}
		for _, dir := range []int{-1, 1} {
			q := p.Clone()
			for shift := 0; ; shift += dir {
				// Shift 0 is only scored on the way left.
				if shift != 0 || dir < 0 {
					pl := g.evaluate(q, rot, shift)
					if !found || pl.Score > best.Score {
						best = pl
						found = true
					}
				}
				step := core.Pt(0, dir)
				if g.board.CheckMove(q, step) != nil {
					break
				}
				q.Move(step)
			}
		}
	}
	return best, found
}

// simulateRotations turns a copy of the current piece the way Rotate would.
func (g *Game) simulateRotations(n int) (Piece, bool) {
	p := g.current.Clone()
	for i := 0; i < n; i++ {
		p.Rotate(core.RotateClockwise)
		err := g.board.CheckMove(p, core.Point{})
		if err == nil {
			continue
		}
		var moveErr *MoveError
		if !errors.As(err, &moveErr) || !moveErr.Horizontal() {
			return Piece{}, false
		}
		kick := core.Pt(0, -moveErr.Distance)
		if g.board.CheckMove(p, kick) != nil {
			return Piece{}, false
		}
		p.Move(kick)
	}
	return p, true
}

// evaluate drops p on a copy of the board and scores the result.
func (g *Game) evaluate(p Piece, rot, shift int) Placement {
	q := p.Clone()
	down := core.DirDown.Step()
	for g.board.CheckMove(q, down) == nil {
		q.Move(down)
	}

	b := g.board
	b.merge(q)
	cleared := b.clearFullRows()

	heights := b.columnHeights()
	aggregate, bumpiness := 0, 0
	for c, h := range heights {
		aggregate += h
		if c > 0 {
			bumpiness += core.Abs(h - heights[c-1])
		}
	}

	score := weightHeight*float64(aggregate) +
		weightLines*float64(cleared) +
		weightHoles*float64(b.holes(heights)) +
		weightBumpiness*float64(bumpiness)

	return Placement{Rotations: rot, Shift: shift, Cleared: cleared, Score: score}
}

func (b *Board) columnHeights() [BoardCols]int {
	var heights [BoardCols]int
	for c := 0; c < BoardCols; c++ {
		for r := 0; r < BoardRows; r++ {
			if b.cells[r][c] != EmptyCell {
				heights[c] = BoardRows - r
				break
			}
		}
	}
	return heights
}

// holes counts empty cells with a filled cell somewhere above them.
func (b *Board) holes(heights [BoardCols]int) int {
	n := 0
	for c := 0; c < BoardCols; c++ {
		for r := BoardRows - heights[c]; r < BoardRows; r++ {
			if b.cells[r][c] == EmptyCell {
				n++
			}
		}
	}
	return n
}

// Play carries out a placement with the regular player commands.
// It reports whether the final hard drop happened.
func (g *Game) Play(pl Placement) bool {
	for i := 0; i < pl.Rotations; i++ {
		if !g.Rotate(core.RotateClockwise) {
			break
		}
	}
	dir := core.DirRight
	if pl.Shift < 0 {
		dir = core.DirLeft
	}
	for i := 0; i < core.Abs(pl.Shift); i++ {
		if !g.ApplyArrow(dir) {
			break
		}
	}
	return g.HardDrop()
}
