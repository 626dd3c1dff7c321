// Package core provides fundamental types shared by the engine, the tick runner
// and the command surface. It contains no external dependencies to keep game
// logic pure and testable.
package core

// Point is a cell coordinate on the field.
// Rows grow downwards, columns grow to the right.
type Point struct {
	Row, Col int
}

// Pt creates a new point.
func Pt(row, col int) Point {
	return Point{Row: row, Col: col}
}

// Add returns the point translated by step.
func (p Point) Add(step Point) Point {
	return Point{Row: p.Row + step.Row, Col: p.Col + step.Col}
}

// IsZero reports whether p is the zero displacement.
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Col == 0
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
