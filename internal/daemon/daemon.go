// Package daemon wires the solver listener together with its
// periphery: result archive, event stream, puzzle pack mirrors, the
// background solve queue, file watchers, scheduler and status server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/gridsolver/internal/archive"
	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/events"
	"git.home.luguber.info/inful/gridsolver/internal/listener"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
	"git.home.luguber.info/inful/gridsolver/internal/packs"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
	"git.home.luguber.info/inful/gridsolver/internal/version"
)

// Status represents the daemon lifecycle state.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

const (
	// initialRefreshDelay is how long after startup the first pack
	// refresh runs.
	initialRefreshDelay = 2 * time.Second
	// queueDepthInterval is how often the queue depth gauge is sampled.
	queueDepthInterval = 15 * time.Second
	// packRefreshTimeout bounds one refresh across all repositories.
	packRefreshTimeout = 10 * time.Minute
	// archivePruneTimeout bounds one scheduled prune.
	archivePruneTimeout = time.Minute
)

// Daemon runs the websocket listener together with its periphery.
// Components the configuration leaves out stay nil and are skipped.
type Daemon struct {
	cfg        atomic.Pointer[config.Config]
	configPath string
	logger     *slog.Logger
	snapshot   string

	registry *prometheus.Registry
	recorder metrics.Recorder

	store     archive.Store
	publisher *events.Publisher
	cache     *events.Cache
	solver    *QueueSolver
	queue     *queue.Queue
	packs     *packs.Manager
	listener  *listener.Listener
	statusSrv *StatusServer
	scheduler *Scheduler
	cfgWatch  *ConfigWatcher
	dropWatch *DropWatcher

	status     atomic.Value
	startNanos atomic.Int64
	stopChan   chan struct{}
	mu         sync.Mutex

	refreshMu   sync.Mutex
	lastRefresh *time.Time
	discovered  int
}

// New wires a daemon from the configuration. The config watcher is
// only created when configPath names the file the config came from.
func New(cfg *config.Config, configPath string, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("daemon requires a configuration")
	}
	if logger == nil {
		logger = NewLogger(cfg.Logging)
	}

	d := &Daemon{
		configPath: configPath,
		logger:     logger,
		snapshot:   cfg.Snapshot(),
		registry:   prometheus.NewRegistry(),
		stopChan:   make(chan struct{}),
	}
	d.cfg.Store(cfg)
	d.recorder = metrics.NewPrometheusRecorder(d.registry)
	d.status.Store(StatusStopped)

	if cfg.Archive != nil {
		store, err := archive.NewSQLiteStore(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("open archive: %w", err)
		}
		d.store = store
	}

	if cfg.Events != nil {
		publisher, err := events.NewPublisher(cfg.Events, logger)
		if err != nil {
			logger.Warn("event stream unavailable, continuing without it", logfields.Error(err))
		} else {
			d.publisher = publisher
			d.cache = publisher.ResultCache()
		}
	}

	d.solver = NewQueueSolver(cfg.Solver, d.cache, d.recorder)
	d.queue = queue.New(cfg.Queue.Size, cfg.Queue.Workers, d.solver)
	d.queue.SetRecorder(d.recorder)
	d.queue.SetHistorySize(cfg.Queue.History)
	d.queue.SetEmitter(NewEmitter(d.store, d.publisher, logger))
	if timeout, err := time.ParseDuration(cfg.Solver.Timeout); err == nil && timeout > 0 {
		d.queue.SetTimeout(timeout)
	}

	if cfg.Packs != nil && len(cfg.Packs.Repositories) > 0 {
		d.packs = packs.NewManager(cfg.Packs, logger, d.recorder)
	}

	d.listener = listener.New(cfg.Listener, cfg.Solver, listener.Options{
		Logger:    logger,
		Recorder:  d.recorder,
		Archive:   d.store,
		Publisher: d.publisher,
		Cache:     d.cache,
	})

	d.statusSrv = NewStatusServer(cfg.Status, d, d.queue, metrics.HTTPHandler(d.registry), logger)

	scheduler, err := NewScheduler(logger)
	if err != nil {
		return nil, err
	}
	d.scheduler = scheduler

	if configPath != "" {
		cw, err := NewConfigWatcher(configPath, d, logger)
		if err != nil {
			logger.Warn("config watcher unavailable", logfields.Error(err))
		} else {
			d.cfgWatch = cw
		}
	}
	if cfg.Watch != nil && cfg.Watch.Dir != "" {
		dwatch, err := NewDropWatcher(cfg.Watch, d.queue, logger)
		if err != nil {
			logger.Warn("drop watcher unavailable", logfields.Error(err))
		} else {
			d.dropWatch = dwatch
		}
	}

	return d, nil
}

// Start brings every component up and blocks until the context is
// canceled or Stop is called. Watcher failures are logged rather than
// fatal; the daemon is useful without them.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if s := d.GetStatus(); s == StatusRunning || s == StatusStarting {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.status.Store(StatusStarting)
	d.startNanos.Store(time.Now().UnixNano())
	d.logger.Info("starting daemon", slog.String("version", version.Version))

	if err := d.statusSrv.Start(ctx); err != nil {
		d.status.Store(StatusError)
		d.mu.Unlock()
		return err
	}

	d.queue.Start(ctx)

	if err := d.listener.Start(ctx); err != nil {
		d.status.Store(StatusError)
		d.mu.Unlock()
		return err
	}

	if err := d.schedule(); err != nil {
		d.logger.Warn("scheduling incomplete", logfields.Error(err))
	}
	d.scheduler.Start()

	if d.cfgWatch != nil {
		if err := d.cfgWatch.Start(ctx); err != nil {
			d.logger.Warn("config watcher failed to start", logfields.Error(err))
		}
	}
	if d.dropWatch != nil {
		if err := d.dropWatch.Start(ctx); err != nil {
			d.logger.Warn("drop watcher failed to start", logfields.Error(err))
		}
	}

	d.status.Store(StatusRunning)
	d.logger.Info("daemon started",
		logfields.Addr(d.listener.Addr()),
		slog.String("status_addr", d.statusSrv.Addr()))
	d.mu.Unlock()

	d.mainLoop(ctx)
	return nil
}

// mainLoop blocks until shutdown. The timer drives the initial pack
// refresh so startup does not wait on git.
func (d *Daemon) mainLoop(ctx context.Context) {
	var refresh <-chan time.Time
	if d.packs != nil {
		timer := time.NewTimer(initialRefreshDelay)
		defer timer.Stop()
		refresh = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutdown requested")
			return
		case <-d.stopChan:
			return
		case <-refresh:
			go d.refreshPacks()
		}
	}
}

// Stop shuts every component down in reverse start order. Component
// errors are logged, not returned, so one failure does not keep the
// rest alive.
func (d *Daemon) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s := d.GetStatus(); s == StatusStopped || s == StatusStopping {
		return nil
	}
	d.status.Store(StatusStopping)
	d.logger.Info("stopping daemon")

	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}

	if d.dropWatch != nil {
		if err := d.dropWatch.Stop(); err != nil {
			d.logger.Error("drop watcher stop failed", logfields.Error(err))
		}
	}
	if d.cfgWatch != nil {
		if err := d.cfgWatch.Stop(); err != nil {
			d.logger.Error("config watcher stop failed", logfields.Error(err))
		}
	}
	if err := d.scheduler.Stop(); err != nil {
		d.logger.Error("scheduler stop failed", logfields.Error(err))
	}
	if err := d.listener.Stop(ctx); err != nil {
		d.logger.Error("listener stop failed", logfields.Error(err))
	}
	d.queue.Stop(ctx)
	if err := d.statusSrv.Stop(ctx); err != nil {
		d.logger.Error("status server stop failed", logfields.Error(err))
	}
	if err := d.publisher.Close(); err != nil {
		d.logger.Error("event stream close failed", logfields.Error(err))
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Error("archive close failed", logfields.Error(err))
		}
	}

	d.status.Store(StatusStopped)
	if started := d.started(); !started.IsZero() {
		d.logger.Info("daemon stopped", slog.Duration("uptime", time.Since(started).Round(time.Second)))
	}
	return nil
}

// GetStatus returns the current lifecycle state.
func (d *Daemon) GetStatus() Status {
	if s, ok := d.status.Load().(Status); ok {
		return s
	}
	return StatusStopped
}

// ListenerAddr returns the bound listener address.
func (d *Daemon) ListenerAddr() string { return d.listener.Addr() }

// StatusAddr returns the bound status server address.
func (d *Daemon) StatusAddr() string { return d.statusSrv.Addr() }

func (d *Daemon) config() *config.Config { return d.cfg.Load() }

func (d *Daemon) started() time.Time {
	nanos := d.startNanos.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// schedule registers the periodic work. Missing sections simply skip
// their job.
func (d *Daemon) schedule() error {
	cfg := d.config()
	var errs []error

	if d.packs != nil && cfg.Packs != nil && cfg.Packs.RefreshSchedule != "" {
		if _, err := d.scheduler.Cron("pack-refresh", cfg.Packs.RefreshSchedule, d.refreshPacks); err != nil {
			errs = append(errs, err)
		}
	}
	if d.store != nil && cfg.Archive != nil && cfg.Archive.PruneSchedule != "" && cfg.Archive.RetentionDays > 0 {
		if _, err := d.scheduler.Cron("archive-prune", cfg.Archive.PruneSchedule, d.pruneArchive); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := d.scheduler.Every("queue-depth", queueDepthInterval, d.sampleQueueDepth); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// refreshPacks syncs the pack repositories and queues discovered
// puzzles as count jobs, so new cards get their uniqueness verified.
func (d *Daemon) refreshPacks() {
	ctx, cancel := d.stopAware(context.Background(), packRefreshTimeout)
	defer cancel()

	puzzles, err := d.packs.Refresh(ctx)
	if err != nil {
		d.logger.Warn("pack refresh failed", logfields.Error(err))
	}

	now := time.Now()
	d.refreshMu.Lock()
	d.lastRefresh = &now
	d.discovered += len(puzzles)
	d.refreshMu.Unlock()

	if len(puzzles) == 0 {
		return
	}
	d.logger.Info("pack refresh discovered puzzles", logfields.Size(len(puzzles)))

	cfg := d.config()
	if cfg.Packs == nil || !cfg.Packs.QueueDiscovered {
		return
	}
	for i := range puzzles {
		p := &puzzles[i]
		job := queue.NewJob(queue.JobTypeDiscovery, queue.PriorityLow, commandCount, p.Data)
		job.Pack = p.Pack
		job.Card = p.Card
		job.Title = p.Title
		if err := d.queue.Enqueue(job); err != nil {
			d.logger.Warn("discovered puzzle not queued", logfields.Pack(p.Pack), logfields.Error(err))
			return
		}
	}
}

// pruneArchive drops records older than the retention window.
func (d *Daemon) pruneArchive() {
	cfg := d.config()
	if cfg.Archive == nil || cfg.Archive.RetentionDays <= 0 {
		return
	}
	ctx, cancel := d.stopAware(context.Background(), archivePruneTimeout)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -cfg.Archive.RetentionDays)
	pruned, err := d.store.Prune(ctx, cutoff)
	if err != nil {
		d.logger.Warn("archive prune failed", logfields.Error(err))
		return
	}
	if pruned > 0 {
		d.logger.Info("archive pruned", slog.Int64("records", pruned))
	}
}

func (d *Daemon) sampleQueueDepth() {
	d.recorder.SetQueueDepth(d.queue.Length())
}

// stopAware derives a task context that also ends when the daemon is
// stopping, so scheduled work cannot outlive shutdown.
func (d *Daemon) stopAware(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	go func() {
		select {
		case <-d.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// ReloadConfig applies a changed configuration. Logging and solver
// limits take effect immediately; address, schedule and topology
// changes need a restart and are only reported.
func (d *Daemon) ReloadConfig(_ context.Context, newCfg *config.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	newSnap := newCfg.Snapshot()
	if newSnap == d.snapshot {
		d.logger.Debug("configuration unchanged")
		return nil
	}

	old := d.config()
	if newCfg.Logging != old.Logging {
		// Components hold their injected logger until restart; the
		// process default switches right away.
		slog.SetDefault(NewLogger(newCfg.Logging))
	}

	d.solver.SetConfig(newCfg.Solver)
	if timeout, err := time.ParseDuration(newCfg.Solver.Timeout); err == nil && timeout > 0 {
		d.queue.SetTimeout(timeout)
	}

	if newCfg.Listener.Addr != old.Listener.Addr {
		d.logger.Warn("listener address change requires a restart",
			logfields.Addr(newCfg.Listener.Addr))
	}
	if newCfg.Status.Addr != old.Status.Addr {
		d.logger.Warn("status address change requires a restart",
			logfields.Addr(newCfg.Status.Addr))
	}

	d.cfg.Store(newCfg)
	d.snapshot = newSnap
	d.logger.Info("configuration reloaded", logfields.Path(d.configPath))
	return nil
}

// StatusSnapshot builds the document served by /api/status.
func (d *Daemon) StatusSnapshot(ctx context.Context) StatusSnapshot {
	cfg := d.config()

	snap := StatusSnapshot{
		Status:    string(d.GetStatus()),
		Version:   version.Version,
		StartedAt: d.started(),
		Listener: ListenerInfo{
			Addr:        d.listener.Addr(),
			Connections: d.listener.Connections(),
		},
		Queue: QueueInfo{
			Depth:   d.queue.Length(),
			Active:  len(d.queue.ActiveJobs()),
			Workers: cfg.Queue.Workers,
		},
	}
	if !snap.StartedAt.IsZero() {
		snap.Uptime = time.Since(snap.StartedAt).Round(time.Second).String()
	}

	if d.store != nil && cfg.Archive != nil {
		info := &ArchiveInfo{Path: cfg.Archive.Path}
		if n, err := d.store.Count(ctx); err == nil {
			info.Records = n
		}
		snap.Archive = info
	}
	if d.publisher != nil && cfg.Events != nil {
		snap.Events = &EventsInfo{URL: cfg.Events.URL, Stream: cfg.Events.Stream}
	}
	if d.packs != nil && cfg.Packs != nil {
		d.refreshMu.Lock()
		snap.Packs = &PacksInfo{
			Repositories: len(cfg.Packs.Repositories),
			LastRefresh:  d.lastRefresh,
			Discovered:   d.discovered,
		}
		d.refreshMu.Unlock()
	}
	return snap
}
