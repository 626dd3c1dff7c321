// Package notify provides tetris.Notifier implementations: a discarding
// notifier, an in-memory recorder, a log sink, a websocket broadcaster,
// a fan-out and a high-score keeper.
package notify

import (
	"errors"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

var (
	_ tetris.Notifier = Nop{}
	_ tetris.Notifier = Multi(nil)
	_ tetris.Notifier = (*Recorder)(nil)
	_ tetris.Notifier = (*Logger)(nil)
	_ tetris.Notifier = (*Hub)(nil)
	_ tetris.Notifier = (*ScoreKeeper)(nil)
)

// Nop discards every event.
type Nop struct{}

func (Nop) EmitPiece(tetris.Channel, tetris.PieceView) error { return nil }
func (Nop) EmitBoard(tetris.Channel, []string) error         { return nil }
func (Nop) EmitNumber(tetris.Channel, int) error             { return nil }
func (Nop) EmitString(tetris.Channel, string) error          { return nil }

// Multi forwards every event to each notifier in order. All notifiers see
// the event even if an earlier one fails; the errors are joined.
type Multi []tetris.Notifier

func (m Multi) EmitPiece(ch tetris.Channel, p tetris.PieceView) error {
	return m.each(func(n tetris.Notifier) error { return n.EmitPiece(ch, p) })
}

func (m Multi) EmitBoard(ch tetris.Channel, rows []string) error {
	return m.each(func(n tetris.Notifier) error { return n.EmitBoard(ch, rows) })
}

func (m Multi) EmitNumber(ch tetris.Channel, v int) error {
	return m.each(func(n tetris.Notifier) error { return n.EmitNumber(ch, v) })
}

func (m Multi) EmitString(ch tetris.Channel, v string) error {
	return m.each(func(n tetris.Notifier) error { return n.EmitString(ch, v) })
}

func (m Multi) each(fn func(tetris.Notifier) error) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
