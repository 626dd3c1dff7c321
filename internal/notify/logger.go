package notify

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Logger writes every event to a structured logger. Piece and board events
// go out at debug level; level changes and game over at info.
type Logger struct {
	logger *log.Logger
}

// NewLogger wraps logger. A nil logger uses the package default.
func NewLogger(logger *log.Logger) *Logger {
	if logger == nil {
		logger = log.Default()
	}
	return &Logger{logger: logger}
}

func (l *Logger) EmitPiece(ch tetris.Channel, p tetris.PieceView) error {
	l.logger.Debug(string(ch), "shape", p.Shape, "cells", p.Cells)
	return nil
}

func (l *Logger) EmitBoard(ch tetris.Channel, rows []string) error {
	l.logger.Debug(string(ch) + "\n" + strings.Join(rows, "\n"))
	return nil
}

func (l *Logger) EmitNumber(ch tetris.Channel, v int) error {
	if ch == tetris.ChannelLevel {
		l.logger.Info(string(ch), "value", v)
		return nil
	}
	l.logger.Debug(string(ch), "value", v)
	return nil
}

func (l *Logger) EmitString(ch tetris.Channel, v string) error {
	if ch == tetris.ChannelGameOver {
		l.logger.Info(v)
		return nil
	}
	l.logger.Debug(string(ch), "value", v)
	return nil
}
