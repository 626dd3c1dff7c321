package tetris

// State names the two states of the game machine.
type State string

const (
	StateActive State = "active"
	StateOver   State = "over"
)

// Snapshot captures the complete observable game state.
type Snapshot struct {
	Board     []string  `json:"board"`
	Current   PieceView `json:"current"`
	Next      PieceView `json:"next"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Lines     int       `json:"lines"`
	WaitTicks int       `json:"wait_ticks"`
	State     State     `json:"state"`
}

// Snapshot returns a copy of the current game state.
func (g *Game) Snapshot() Snapshot {
	state := StateActive
	if g.over {
		state = StateOver
	}
	return Snapshot{
		Board:     g.board.Rows(),
		Current:   g.current.View(),
		Next:      g.next.View(),
		Score:     g.score,
		Level:     g.level,
		Lines:     g.lines,
		WaitTicks: g.waitTicks,
		State:     state,
	}
}

// GameOver reports whether the snapshot was taken after the game ended.
func (s Snapshot) GameOver() bool {
	return s.State == StateOver
}
