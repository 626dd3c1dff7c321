package notify

import (
	"slices"
	"sync"

	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Event is one recorded emission. Payload is a tetris.PieceView, a []string
// board, an int or a string depending on the channel.
type Event struct {
	Channel tetris.Channel
	Payload any
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every later emission record the event and return err.
// A nil err restores normal behavior.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) EmitPiece(ch tetris.Channel, p tetris.PieceView) error {
	p.Cells = slices.Clone(p.Cells)
	return r.record(ch, p)
}

func (r *Recorder) EmitBoard(ch tetris.Channel, rows []string) error {
	return r.record(ch, slices.Clone(rows))
}

func (r *Recorder) EmitNumber(ch tetris.Channel, v int) error {
	return r.record(ch, v)
}

func (r *Recorder) EmitString(ch tetris.Channel, v string) error {
	return r.record(ch, v)
}

func (r *Recorder) record(ch tetris.Channel, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Channel: ch, Payload: payload})
	return r.err
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Count returns how many events were emitted on ch.
func (r *Recorder) Count(ch tetris.Channel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Channel == ch {
			n++
		}
	}
	return n
}

// Last returns the most recent payload on ch.
func (r *Recorder) Last(ch tetris.Channel) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Channel == ch {
			return r.events[i].Payload, true
		}
	}
	return nil, false
}

// Channels returns the channel of every event in order.
func (r *Recorder) Channels() []tetris.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	chs := make([]tetris.Channel, len(r.events))
	for i, e := range r.events {
		chs[i] = e.Channel
	}
	return chs
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
