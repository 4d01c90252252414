// Package server exposes the relay over HTTP for the Slack Events API.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jdelaire/reactionrelay/adapters/slack"
	"github.com/jdelaire/reactionrelay/core"
	"github.com/jdelaire/reactionrelay/internal/dedup"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	eventTimeout = 25 * time.Second
)

// Server routes Slack event callbacks to a Relay. The bolt-style endpoint
// is registered only when a Verifier is supplied.
type Server struct {
	relay     *core.Relay
	boltRelay *core.Relay
	verifier  *slack.Verifier
	suppress  *dedup.Suppressor
	logger    *slog.Logger
	http      *http.Server
}

// New creates a Server. boltRelay and verifier may be nil together, which
// leaves /slack/bolt_events unregistered.
func New(addr string, relay, boltRelay *core.Relay, verifier *slack.Verifier, logger *slog.Logger) *Server {
	s := &Server{
		relay:     relay,
		boltRelay: boltRelay,
		verifier:  verifier,
		suppress:  dedup.New(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/events", s.handleEvents)
	if verifier != nil && boltRelay != nil {
		mux.HandleFunc("POST /slack/bolt_events", s.handleBoltEvents)
	}

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s
}

// Handler returns the server's HTTP handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// handleEvents is the primary Events API endpoint. Every business-logic
// outcome is a 200; only a failed score write surfaces as a 500.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	cb, ok := s.readCallback(w, r)
	if !ok {
		return
	}

	if cb.Challenge != "" {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": cb.Challenge})
		return
	}

	id := uuid.New().String()
	log := s.logger.With("event_id", id)

	ev, ok := cb.ReactionAdded()
	if !ok {
		log.Debug("event type not handled")
		writeJSON(w, http.StatusOK, map[string]string{"message": "Event type not handled"})
		return
	}

	if s.suppress.Seen(cb.EventID) {
		log.Debug("duplicate delivery", "slack_event_id", cb.EventID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Duplicate delivery"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventTimeout)
	defer cancel()

	outcome, resp, err := s.relay.Handle(ctx, id, ev)
	if err != nil {
		// Let Slack's redelivery of this event retry the write.
		s.suppress.Forget(cb.EventID)
		http.Error(w, "score update failed", http.StatusInternalServerError)
		return
	}

	if outcome == core.OutcomeUpdated {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  string(outcome),
			"response": resp,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": string(outcome)})
}

// handleBoltEvents is the signature-verified endpoint. It acks with bare
// 200s the way Bolt does and accepts the narrower reaction set.
func (s *Server) handleBoltEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, core.MaxPayloadBytes+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	sig := r.Header.Get("X-Slack-Signature")
	ts := r.Header.Get("X-Slack-Request-Timestamp")
	if err := s.verifier.Verify(sig, ts, body); err != nil {
		s.logger.Warn("rejected bolt request", "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	cb, err := core.DecodeCallback(body)
	if err != nil {
		s.logger.Warn("invalid bolt payload", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if cb.Challenge != "" {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": cb.Challenge})
		return
	}

	ev, ok := cb.ReactionAdded()
	if !ok || s.suppress.Seen(cb.EventID) {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventTimeout)
	defer cancel()

	if _, _, err := s.boltRelay.Handle(ctx, uuid.New().String(), ev); err != nil {
		s.suppress.Forget(cb.EventID)
		http.Error(w, "score update failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readCallback(w http.ResponseWriter, r *http.Request) (*core.EventCallback, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, core.MaxPayloadBytes+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return nil, false
	}

	cb, err := core.DecodeCallback(body)
	if err != nil {
		s.logger.Warn("invalid request body", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return nil, false
	}
	return cb, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
