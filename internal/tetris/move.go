package tetris

import "fmt"

// MoveKind classifies why a move was rejected.
type MoveKind int

const (
	TooFarLeft MoveKind = iota + 1
	TooFarRight
	TooFarDown
	TooFarUp
	Overlap
)

// String returns a human-readable name for the kind.
func (k MoveKind) String() string {
	switch k {
	case TooFarLeft:
		return "too far left"
	case TooFarRight:
		return "too far right"
	case TooFarDown:
		return "too far down"
	case TooFarUp:
		return "too far up"
	case Overlap:
		return "overlaps occupied cell"
	default:
		return "unknown"
	}
}

// MoveError is a rule-rejected move. For horizontal overflow, Distance is the
// signed number of columns the piece sticks out: negative past the left wall,
// positive past the right wall. Shifting by -Distance puts it back in bounds.
type MoveError struct {
	Kind     MoveKind
	Distance int
}

func (e *MoveError) Error() string {
	if e.Kind == TooFarLeft || e.Kind == TooFarRight {
		return fmt.Sprintf("move not allowed: %s by %d", e.Kind, e.Distance)
	}
	return "move not allowed: " + e.Kind.String()
}

// Horizontal reports whether the move failed on a side wall.
func (e *MoveError) Horizontal() bool {
	return e.Kind == TooFarLeft || e.Kind == TooFarRight
}
