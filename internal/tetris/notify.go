package tetris

// Channel names an event stream published by the engine.
type Channel string

const (
	ChannelCurrent       Channel = "current_tetromino"
	ChannelNext          Channel = "next_tetromino"
	ChannelBoard         Channel = "board"
	ChannelScore         Channel = "score"
	ChannelScoreIncrease Channel = "score_increase"
	ChannelLevel         Channel = "level"
	ChannelGameOver      Channel = "game_over"
)

// GameOverMessage is the payload of the game_over event.
const GameOverMessage = "GAME OVER"

// PieceView is the piece payload: the shape name and its occupied
// (row, col) cells in row-major order.
type PieceView struct {
	Shape string   `json:"shape"`
	Cells [][2]int `json:"cells"`
}

// Notifier receives engine events. It is called synchronously while the
// game is being mutated, so events arrive in the order the changes happened.
// A returned error is treated as fatal by the engine.
type Notifier interface {
	EmitPiece(ch Channel, piece PieceView) error
	EmitBoard(ch Channel, rows []string) error
	EmitNumber(ch Channel, value int) error
	EmitString(ch Channel, value string) error
}
