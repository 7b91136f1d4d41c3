package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
)

// StatusSnapshot is the JSON document served by /api/status.
type StatusSnapshot struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	StartedAt time.Time     `json:"started_at"`
	Uptime    string        `json:"uptime"`
	Listener  ListenerInfo  `json:"listener"`
	Queue     QueueInfo     `json:"queue"`
	Archive   *ArchiveInfo  `json:"archive,omitempty"`
	Events    *EventsInfo   `json:"events,omitempty"`
	Packs     *PacksInfo    `json:"packs,omitempty"`
}

// ListenerInfo describes the websocket listener.
type ListenerInfo struct {
	Addr        string `json:"addr"`
	Connections int64  `json:"connections"`
}

// QueueInfo describes the solve queue.
type QueueInfo struct {
	Depth   int `json:"depth"`
	Active  int `json:"active"`
	Workers int `json:"workers"`
}

// ArchiveInfo describes the result archive.
type ArchiveInfo struct {
	Path    string `json:"path"`
	Records int64  `json:"records"`
}

// EventsInfo describes the event stream connection.
type EventsInfo struct {
	URL    string `json:"url"`
	Stream string `json:"stream"`
}

// PacksInfo describes the puzzle pack mirrors.
type PacksInfo struct {
	Repositories int        `json:"repositories"`
	LastRefresh  *time.Time `json:"last_refresh,omitempty"`
	Discovered   int        `json:"discovered"`
}

// StatusProvider supplies the daemon state served by the status
// endpoints.
type StatusProvider interface {
	StatusSnapshot(ctx context.Context) StatusSnapshot
}

// JobLister exposes the queue state served by /api/jobs.
type JobLister interface {
	ActiveJobs() []*queue.Job
	History() []*queue.Job
}

// StatusServer serves health, status and metrics endpoints on the
// admin address.
type StatusServer struct {
	cfg      config.StatusConfig
	provider StatusProvider
	jobs     JobLister
	metrics  http.Handler
	logger   *slog.Logger

	srv *http.Server
	ln  net.Listener
}

// NewStatusServer creates the admin HTTP server. The metrics handler
// is optional.
func NewStatusServer(cfg config.StatusConfig, provider StatusProvider, jobs JobLister, metricsHandler http.Handler, logger *slog.Logger) *StatusServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusServer{
		cfg:      cfg,
		provider: provider,
		jobs:     jobs,
		metrics:  metricsHandler,
		logger:   logger,
	}
}

// Start binds the admin address and begins serving. Binding happens
// before serving so address conflicts surface as a startup error.
func (s *StatusServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/jobs", s.handleJobs)
	if s.metrics != nil {
		mux.Handle(s.cfg.MetricsPath, s.metrics)
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("status server bind %s: %w", s.cfg.Addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server failed", logfields.Error(err))
		}
	}()

	s.logger.Info("status server started", logfields.Addr(s.Addr()))
	return nil
}

// Addr returns the bound address, falling back to the configured one
// before Start.
func (s *StatusServer) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Stop shuts the server down gracefully.
func (s *StatusServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		http.Error(w, "status unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.provider.StatusSnapshot(r.Context()))
}

func (s *StatusServer) handleJobs(w http.ResponseWriter, _ *http.Request) {
	if s.jobs == nil {
		http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{
		"active": s.jobs.ActiveJobs(),
		"recent": s.jobs.History(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Debug("status response encode failed", logfields.Error(err))
	}
}
