package core

import "strings"

// Direction is a player-issued translation of the active piece.
type Direction int

const (
	DirNone Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Step returns the unit displacement for the direction.
// DirNone and unknown values yield the zero step.
func (d Direction) Step() Point {
	switch d {
	case DirDown:
		return Pt(1, 0)
	case DirLeft:
		return Pt(0, -1)
	case DirRight:
		return Pt(0, 1)
	default:
		return Point{}
	}
}

// ParseDirection maps a command or key name to a Direction.
// Accepts "down", "left", "right" and the browser key names
// "ArrowDown", "ArrowLeft", "ArrowRight" (case-insensitive).
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "down", "arrowdown":
		return DirDown, true
	case "left", "arrowleft":
		return DirLeft, true
	case "right", "arrowright":
		return DirRight, true
	}
	return DirNone, false
}

// Rotation is a 90 degree turn of the active piece.
type Rotation int

const (
	RotateNone Rotation = iota
	RotateClockwise
	RotateCounterClockwise
)

// String returns the command name of the rotation.
func (r Rotation) String() string {
	switch r {
	case RotateClockwise:
		return "clockwise"
	case RotateCounterClockwise:
		return "counter-clockwise"
	default:
		return "none"
	}
}

// ParseRotation maps a command name to a Rotation.
func ParseRotation(s string) (Rotation, bool) {
	switch strings.ToLower(s) {
	case "clockwise", "cw":
		return RotateClockwise, true
	case "counter-clockwise", "counterclockwise", "ccw":
		return RotateCounterClockwise, true
	}
	return RotateNone, false
}
