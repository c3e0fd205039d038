// Package httpapi hosts donation sessions over HTTP. It exposes the
// command/payload protocol as a small JSON API, bridges multipart
// uploads to file prompts, persists donations, and serves Prometheus
// metrics.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"github.com/satchelhq/satchel/internal/logging"
	"github.com/satchelhq/satchel/pkg/bridge"
	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/engine"
	"github.com/satchelhq/satchel/pkg/ports"
	"github.com/satchelhq/satchel/pkg/session"
)

// maxUploadBytes bounds a single export upload.
const maxUploadBytes = 512 << 20

// Server hosts donation flows behind an HTTP API.
type Server struct {
	registry *session.Registry
	store    ports.DonationStore
	flows    map[string]bridge.Flow
	logger   *slog.Logger
	metrics  *metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request handling events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a server hosting the given flows, keyed by
// platform name. Donations are persisted to store as they arrive.
func NewServer(registry *session.Registry, store ports.DonationStore, flows map[string]bridge.Flow, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		store:    store,
		flows:    flows,
		logger:   logging.NewNop(),
		metrics:  newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/platforms", s.listPlatforms)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.startSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.abandonSession)
			r.Post("/next", s.nextCommand)
			r.Post("/resume", s.resumePayload)
			r.Post("/file", s.resumeFile)
		})
	})

	r.Route("/donations", func(r chi.Router) {
		r.Get("/", s.listDonations)
		r.Get("/{key}", s.getDonation)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type startRequest struct {
	Platform  string `json:"platform"`
	SessionID string `json:"session_id,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Platform  string `json:"platform"`
	Locale    string `json:"locale"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("start: invalid request body", "err", err)
		return
	}

	flow, ok := s.flows[body.Platform]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown platform %q", body.Platform), http.StatusNotFound)
		return
	}

	a, err := s.registry.Start(engine.Config{
		SessionID: body.SessionID,
		Locale:    body.Locale,
		Logger:    s.logger,
	}, flow)
	if err != nil {
		if errors.Is(err, session.ErrDuplicateSession) {
			http.Error(w, "Session ID already in use", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Start error: %v", err), http.StatusInternalServerError)
		s.logger.Error("start failed", "err", err)
		return
	}

	s.metrics.sessionsStarted.Inc()
	cfg := a.Config()
	writeJSON(w, s.logger, http.StatusCreated, startResponse{
		SessionID: cfg.SessionID,
		Platform:  body.Platform,
		Locale:    cfg.Locale,
	})
}

// nextCommand blocks until the flow emits, then delivers exactly one
// command. Donations are persisted before the host sees them.
func (s *Server) nextCommand(w http.ResponseWriter, r *http.Request) {
	a, ok := s.adapter(w, r)
	if !ok {
		return
	}

	cmd, err := a.NextCommand(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionDone), errors.Is(err, domain.ErrSessionAbandoned):
			http.Error(w, "Session finished", http.StatusGone)
		case errors.Is(err, domain.ErrAwaitingPayload):
			http.Error(w, "Session is awaiting a payload", http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Next error: %v", err), http.StatusInternalServerError)
			s.logger.Error("next failed", "err", err)
		}
		return
	}

	s.metrics.commands.WithLabelValues(cmd.CommandType()).Inc()

	if donate, ok := cmd.(domain.SystemDonate); ok {
		s.metrics.donations.Inc()
		d := ports.Donation{Key: donate.Key, JSON: donate.JSON, ReceivedAt: time.Now().UTC()}
		if err := s.store.Save(r.Context(), d); err != nil {
			// The command is still delivered; persistence failure is the
			// host operator's problem, not the participant's.
			s.logger.Error("donation persistence failed", "key", donate.Key, "err", err)
		}
	}

	writeJSON(w, s.logger, http.StatusOK, cmd)
}

func (s *Server) resumePayload(w http.ResponseWriter, r *http.Request) {
	a, ok := s.adapter(w, r)
	if !ok {
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	p, err := domain.UnmarshalPayload(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid payload: %v", err), http.StatusBadRequest)
		s.logger.Warn("resume: invalid payload", "err", err)
		return
	}

	s.resume(w, a, p)
}

// resumeFile answers a pending file prompt with an uploaded export.
// The upload is buffered in memory and served to the flow through the
// usual slicing capability.
func (s *Server) resumeFile(w http.ResponseWriter, r *http.Request) {
	a, ok := s.adapter(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		s.logger.Warn("file: invalid multipart form", "err", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Upload read failed", http.StatusInternalServerError)
		s.logger.Error("file: upload read failed", "err", err)
		return
	}

	s.resume(w, a, domain.FilePayload{File: uploadRef{name: header.Filename, data: data}})
}

func (s *Server) resume(w http.ResponseWriter, a *bridge.Adapter, p domain.Payload) {
	if err := a.Resume(p); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAwaiting):
			http.Error(w, "Session is not awaiting a payload", http.StatusConflict)
		case errors.Is(err, domain.ErrSessionDone), errors.Is(err, domain.ErrSessionAbandoned):
			http.Error(w, "Session finished", http.StatusGone)
		default:
			http.Error(w, fmt.Sprintf("Resume error: %v", err), http.StatusInternalServerError)
			s.logger.Error("resume failed", "err", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) abandonSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.registry.Remove(id); err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"sessions": s.registry.List()})
}

func (s *Server) listPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms := lo.Keys(s.flows)
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"platforms": platforms})
}

func (s *Server) listDonations(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("donation list failed", "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"donations": keys})
}

func (s *Server) getDonation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	d, err := s.store.Load(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrDonationNotFound) {
			http.Error(w, "Donation not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("donation load failed", "key", key, "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, d)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// adapter resolves the session from the URL, answering 404 itself when
// the session is unknown.
func (s *Server) adapter(w http.ResponseWriter, r *http.Request) (*bridge.Adapter, bool) {
	id := chi.URLParam(r, "sessionID")
	a, err := s.registry.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return a, true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

// uploadRef serves a buffered upload as a file capability.
type uploadRef struct {
	name string
	data []byte
}

func (u uploadRef) Name() string { return u.name }
func (u uploadRef) Size() int64  { return int64(len(u.data)) }

func (u uploadRef) ReadSlice(offset, length int64) ([]byte, error) {
	if offset < 0 || offset > int64(len(u.data)) {
		return nil, fmt.Errorf("offset %d out of range", offset)
	}
	end := offset + length
	if end > int64(len(u.data)) {
		end = int64(len(u.data))
	}
	return u.data[offset:end], nil
}
