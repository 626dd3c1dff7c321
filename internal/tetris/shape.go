// Package tetris implements the falling-block game state machine: the shape
// catalog, pieces, the bag generator, collision checks, row clearing and the
// score/level progression.
package tetris

import (
	"errors"
	"fmt"
)

// ShapeSize is the side of the square mask every shape is drawn in.
const ShapeSize = 4

// ErrUnknownShape is returned when a shape name is not in the catalog.
var ErrUnknownShape = errors.New("tetris: unknown shape")

// Mask is the occupancy grid of a shape.
type Mask [ShapeSize][ShapeSize]bool

// Shape is one of the canonical pieces and its current orientation.
type Shape struct {
	Name rune
	Mask Mask
}

// RotateClockwise turns the mask 90 degrees clockwise.
func (s *Shape) RotateClockwise() {
	var rotated Mask
	for i := 0; i < ShapeSize; i++ {
		for j := 0; j < ShapeSize; j++ {
			rotated[j][ShapeSize-1-i] = s.Mask[i][j]
		}
	}
	s.Mask = rotated
}

// RotateCounterClockwise turns the mask 90 degrees counter-clockwise.
func (s *Shape) RotateCounterClockwise() {
	var rotated Mask
	for i := 0; i < ShapeSize; i++ {
		for j := 0; j < ShapeSize; j++ {
			rotated[ShapeSize-1-j][i] = s.Mask[i][j]
		}
	}
	s.Mask = rotated
}

// String renders the mask as four lines of '#' and '.'.
func (s Shape) String() string {
	buf := make([]byte, 0, ShapeSize*(ShapeSize+1))
	for i := 0; i < ShapeSize; i++ {
		for j := 0; j < ShapeSize; j++ {
			if s.Mask[i][j] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		if i < ShapeSize-1 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}

// maskOf builds a Mask from four rows of '#' and '.'.
func maskOf(rows ...string) Mask {
	var m Mask
	for i, row := range rows {
		for j, ch := range row {
			m[i][j] = ch == '#'
		}
	}
	return m
}

// catalog holds the spawn orientation of every canonical shape.
var catalog = [...]Shape{
	{Name: 'I', Mask: maskOf(
		"....",
		"....",
		"####",
		"....")},
	{Name: 'J', Mask: maskOf(
		"....",
		".###",
		"...#",
		"....")},
	{Name: 'L', Mask: maskOf(
		"....",
		".###",
		".#..",
		"....")},
	{Name: 'O', Mask: maskOf(
		"....",
		".##.",
		".##.",
		"....")},
	{Name: 'S', Mask: maskOf(
		"....",
		"..##",
		".##.",
		"....")},
	{Name: 'T', Mask: maskOf(
		"....",
		".###",
		"..#.",
		"....")},
	{Name: 'Z', Mask: maskOf(
		"....",
		".##.",
		"..##",
		"....")},
}

// NumShapes is the size of the catalog.
const NumShapes = len(catalog)

// Catalog returns a copy of all canonical shapes in spawn orientation.
func Catalog() []Shape {
	shapes := make([]Shape, NumShapes)
	copy(shapes, catalog[:])
	return shapes
}

// MakeShape looks up a shape by its catalog name.
func MakeShape(name rune) (Shape, error) {
	for _, s := range catalog {
		if s.Name == name {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}
