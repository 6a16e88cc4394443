// Package server provides the HTTP dashboard and JSON API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"signal-desk/internal/digest"
	"signal-desk/internal/errors"
	"signal-desk/internal/logging"
	"signal-desk/internal/notify"
	"signal-desk/internal/pipeline"
	"signal-desk/internal/scheduler"
	"signal-desk/internal/store"
)

// Server serves the dashboard page and the JSON API on top of the latest
// refresh snapshot. It never computes rankings itself.
type Server struct {
	snapshot  *scheduler.Snapshot
	runner    *pipeline.Runner
	notifier  *notify.Multi
	journal   store.Journal
	pushCount int
	refresh   time.Duration
	port      int
	logger    zerolog.Logger
}

// New creates a dashboard server.
func New(
	snapshot *scheduler.Snapshot,
	runner *pipeline.Runner,
	notifier *notify.Multi,
	journal store.Journal,
	pushCount int,
	refresh time.Duration,
	port int,
	logger zerolog.Logger,
) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		snapshot:  snapshot,
		runner:    runner,
		notifier:  notifier,
		journal:   journal,
		pushCount: pushCount,
		refresh:   refresh,
		port:      port,
		logger:    logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/board", s.handleBoard)
	mux.HandleFunc("/api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("/api/v1/push", s.handlePush)
	mux.HandleFunc("/api/v1/journal", s.handleJournal)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info().Str("addr", addr).Msg("Dashboard listening")
	return http.ListenAndServe(addr, mux)
}

// latest returns the current snapshot, refreshing on demand when the
// scheduler has not produced one yet.
func (s *Server) latest(ctx context.Context) *pipeline.Cycle {
	if c := s.snapshot.Latest(); c != nil {
		return c
	}
	c := s.runner.RunCycle(ctx)
	s.snapshot.Set(c)
	return c
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	cycle := s.latest(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  cycle,
		"count": len(cycle.Rows),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	cycle := s.runner.RunCycle(r.Context())
	s.snapshot.Set(cycle)
	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed": cycle.At,
		"rows":      len(cycle.Rows),
	})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	cycle := s.latest(r.Context())
	text, err := digest.Build(cycle.Rows, s.pushCount)
	if errors.Is(err, errors.ErrEmptyDigest) {
		// Distinct from a failed send: there is simply nothing to push.
		writeJSON(w, http.StatusOK, map[string]string{"status": "nothing to send"})
		return
	}

	rows := s.pushCount
	if len(cycle.Rows) < rows {
		rows = len(cycle.Rows)
	}

	sendErr := s.notifier.Send(r.Context(), text)
	s.journalPush(r.Context(), rows, len(text), sendErr)

	if sendErr != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": sendErr.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "sent", "rows": rows})
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if s.journal == nil {
		writeJSON(w, http.StatusOK, map[string]any{"data": []store.PushRecord{}, "count": 0})
		return
	}

	pushes, err := s.journal.ListPushes(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": pushes, "count": len(pushes)})
}

func (s *Server) journalPush(ctx context.Context, rows, chars int, sendErr error) {
	logging.LogPush(s.logger, "all", rows, sendErr)
	if s.journal == nil {
		return
	}
	rec := &store.PushRecord{
		Timestamp: time.Now(),
		Channel:   "all",
		Rows:      rows,
		Chars:     chars,
		OK:        sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if err := s.journal.LogPush(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to journal push")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
