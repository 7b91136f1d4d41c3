// Package listener serves the f-puzzles solver protocol over a
// websocket: clients send puzzle commands tagged with a nonce and
// receive typed responses, including streamed partial counts for long
// searches. The wire format matches the protocol spoken by the
// f-puzzles frontend, so the service works as a drop-in solver
// backend.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"git.home.luguber.info/inful/gridsolver/internal/archive"
	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/events"
	"git.home.luguber.info/inful/gridsolver/internal/fpuzzles"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
)

// Options carries the optional periphery a listener reports into. Any
// field may be left nil; the listener then serves without it.
type Options struct {
	Logger    *slog.Logger
	Recorder  metrics.Recorder
	Archive   archive.Store
	Publisher *events.Publisher
	Cache     *events.Cache
}

// Listener is the websocket solver service.
type Listener struct {
	cfg       config.ListenerConfig
	solver    config.SolverConfig
	logger    *slog.Logger
	recorder  metrics.Recorder
	store     archive.Store
	publisher *events.Publisher
	cache     *events.Cache

	upgrader websocket.Upgrader
	srv      *http.Server
	ln       net.Listener
	active   atomic.Int64

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
}

// New builds a listener for the given addresses and solver limits.
func New(cfg config.ListenerConfig, solver config.SolverConfig, opts Options) *Listener {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Listener{
		cfg:       cfg,
		solver:    solver,
		logger:    logger,
		recorder:  recorder,
		store:     opts.Archive,
		publisher: opts.Publisher,
		cache:     opts.Cache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The f-puzzles frontend connects cross-origin from its
			// own site, so origin checks would reject every client.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Start binds the configured address and serves until Stop. The bind
// happens synchronously so startup failures surface immediately.
func (l *Listener) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", l.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listener bind %s: %w", l.cfg.Addr, err)
	}
	l.ln = ln
	l.srv = &http.Server{Handler: l, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("listener serve failed", logfields.Error(err))
		}
	}()

	l.logger.Info("solver listener started", logfields.Addr(ln.Addr().String()))
	return nil
}

// Addr returns the bound address. Before Start it returns the
// configured address.
func (l *Listener) Addr() string {
	if l.ln == nil {
		return l.cfg.Addr
	}
	return l.ln.Addr().String()
}

// Connections returns the number of open client connections.
func (l *Listener) Connections() int64 {
	return l.active.Load()
}

// Stop closes open connections and shuts the server down.
func (l *Listener) Stop(ctx context.Context) error {
	if l.srv == nil {
		return nil
	}
	l.connMu.Lock()
	for c := range l.conns {
		_ = c.Close()
	}
	l.connMu.Unlock()
	return l.srv.Shutdown(ctx)
}

// ServeHTTP upgrades every request; the protocol does not use paths.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn("websocket upgrade failed",
			logfields.RemoteAddr(r.RemoteAddr), logfields.Error(err))
		return
	}

	l.recorder.IncConnections()
	l.recorder.SetActiveConnections(int(l.active.Add(1)))
	l.track(ws, true)
	defer func() {
		l.track(ws, false)
		l.recorder.SetActiveConnections(int(l.active.Add(-1)))
	}()

	l.logger.Info("connection established", logfields.RemoteAddr(r.RemoteAddr))
	l.handle(ws)
	l.logger.Info("connection closed", logfields.RemoteAddr(r.RemoteAddr))
}

func (l *Listener) track(ws *websocket.Conn, add bool) {
	l.connMu.Lock()
	defer l.connMu.Unlock()
	if add {
		l.conns[ws] = struct{}{}
	} else {
		delete(l.conns, ws)
	}
}

// handle runs one connection: a writer goroutine drains the session's
// response channel while this goroutine reads requests. When the read
// loop ends every in-flight operation is cancelled and the writer is
// allowed to flush what remains.
func (l *Listener) handle(ws *websocket.Conn) {
	sess := newSession()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range sess.out {
			if err := ws.WriteJSON(msg); err != nil {
				l.logger.Warn("websocket send failed", logfields.Error(err))
				return
			}
		}
	}()

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if mt != websocket.TextMessage {
			l.logger.Warn("ignoring non-text message", logfields.Size(len(data)))
			continue
		}
		l.process(sess, data)
	}

	sess.close()
	<-writerDone
	_ = ws.Close()
}

// process decodes one request and dispatches it. Solver commands run
// on their own goroutine with a cancel function registered under the
// request nonce so a later cancel request can reach them.
func (l *Listener) process(sess *session, raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		sess.send(invalid(0, err.Error()))
		return
	}

	l.logger.Debug("request received",
		logfields.Command(req.Command), logfields.Nonce(req.Nonce))

	if req.Command == CommandCancel {
		sess.cancelNonce(req.Nonce)
		sess.send(cancelled(req.Nonce))
		l.recorder.IncCommandResult(CommandCancel, metrics.ResultSuccess)
		return
	}

	if req.DataType != dataTypeFPuzzles {
		sess.send(invalid(req.Nonce, "Invalid data format"))
		l.recorder.IncCommandResult(req.Command, metrics.ResultInvalid)
		return
	}

	puz, err := fpuzzles.DecodeData(req.Data)
	if err != nil {
		sess.send(invalid(req.Nonce, err.Error()))
		l.recorder.IncCommandResult(req.Command, metrics.ResultInvalid)
		return
	}

	ctx, cancel := context.WithCancel(sess.ctx)
	sess.register(req.Nonce, cancel)
	sess.wg.Add(1)
	go func() {
		defer sess.wg.Done()
		defer sess.unregister(req.Nonce)
		defer cancel()
		l.run(ctx, sess, req, puz)
	}()
}
