package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/notify"
	"github.com/vovakirdan/blockfall/internal/runner"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// SnapshotEvent is sent to every observer when it connects.
const SnapshotEvent tetris.Channel = "snapshot"

// okResponse reports whether a command took effect.
type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// stateResponse is the game snapshot plus the runner state.
type stateResponse struct {
	tetris.Snapshot
	Running bool `json:"running"`
}

type boardSizeResponse struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{OK: false, Error: msg})
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	if err := s.runner.Start(); err != nil {
		if errors.Is(err, runner.ErrGameOver) {
			writeError(w, http.StatusConflict, "game is over, reset first")
			return
		}
		s.logger.Error("start failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.runner.Pause()
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.runner.Reset()
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleArrow(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["direction"]
	dir, ok := core.ParseDirection(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown direction "+strconv.Quote(name))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: s.runner.ApplyArrow(dir)})
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["direction"]
	rot, ok := core.ParseRotation(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown rotation "+strconv.Quote(name))
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: s.runner.Rotate(rot)})
}

func (s *Server) handleDrop(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, okResponse{OK: s.runner.HardDrop()})
}

func (s *Server) state() stateResponse {
	return stateResponse{
		Snapshot: s.runner.Snapshot(),
		Running:  s.runner.IsRunning(),
	}
}

// greet joins a new observer with a snapshot taken under the runner lock.
// Engine events are emitted under the same lock, so none can fall between
// the snapshot and the registration.
func (s *Server) greet(join func(notify.Message)) {
	s.runner.Inspect(func(g *tetris.Game) {
		join(notify.Message{
			Event: SnapshotEvent,
			Payload: stateResponse{
				Snapshot: g.Snapshot(),
				Running:  s.runner.IsRunning(),
			},
		})
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleBoardSize(w http.ResponseWriter, _ *http.Request) {
	rows, cols := s.runner.BoardSize()
	writeJSON(w, http.StatusOK, boardSizeResponse{Rows: rows, Cols: cols})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeError(w, http.StatusServiceUnavailable, "score storage is not available")
		return
	}

	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = core.Clamp(n, 1, maxScoreLimit)
	}

	entries, err := s.scores.TopScores(limit)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if entries == nil {
		entries = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
