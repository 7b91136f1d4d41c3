package config

import "fmt"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&ListenerDefaultApplier{},
			&StatusDefaultApplier{},
			&ArchiveDefaultApplier{},
			&EventsDefaultApplier{},
			&PacksDefaultApplier{},
			&WatchDefaultApplier{},
			&SolverDefaultApplier{},
			&QueueDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// applyDefaults applies default values to configuration
func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}

// ListenerDefaultApplier handles listener configuration defaults.
type ListenerDefaultApplier struct{}

func (l *ListenerDefaultApplier) Domain() string { return "listener" }

func (l *ListenerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Listener.Addr == "" {
		cfg.Listener.Addr = "127.0.0.1:4545"
	}
	return nil
}

// StatusDefaultApplier handles status server configuration defaults.
type StatusDefaultApplier struct{}

func (s *StatusDefaultApplier) Domain() string { return "status" }

func (s *StatusDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Status.Addr == "" {
		cfg.Status.Addr = "127.0.0.1:8090"
	}
	if cfg.Status.MetricsPath == "" {
		cfg.Status.MetricsPath = "/metrics"
	}
	return nil
}

// ArchiveDefaultApplier handles archive configuration defaults.
type ArchiveDefaultApplier struct{}

func (a *ArchiveDefaultApplier) Domain() string { return "archive" }

func (a *ArchiveDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Archive == nil {
		return nil
	}
	if cfg.Archive.RetentionDays < 0 {
		cfg.Archive.RetentionDays = 0
	}
	if cfg.Archive.PruneSchedule == "" {
		cfg.Archive.PruneSchedule = "0 3 * * *"
	}
	return nil
}

// EventsDefaultApplier handles events configuration defaults.
type EventsDefaultApplier struct{}

func (e *EventsDefaultApplier) Domain() string { return "events" }

func (e *EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events == nil {
		return nil
	}
	ev := cfg.Events
	if ev.Stream == "" {
		ev.Stream = "SOLVER"
	}
	if ev.SubjectPrefix == "" {
		ev.SubjectPrefix = "solver"
	}
	if ev.CacheTTL == "" {
		ev.CacheTTL = "24h"
	}
	applyRetryDefaults(&ev.MaxRetries, &ev.RetryBackoff, &ev.RetryInitialDelay, &ev.RetryMaxDelay)
	return nil
}

// PacksDefaultApplier handles packs configuration defaults.
type PacksDefaultApplier struct{}

func (p *PacksDefaultApplier) Domain() string { return "packs" }

func (p *PacksDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Packs == nil {
		return nil
	}
	pk := cfg.Packs
	if pk.Root == "" {
		pk.Root = "./packs"
	}
	if pk.RefreshSchedule == "" {
		pk.RefreshSchedule = "0 */6 * * *"
	}
	for i := range pk.Repositories {
		if pk.Repositories[i].Branch == "" {
			pk.Repositories[i].Branch = "main"
		}
	}
	applyRetryDefaults(&pk.MaxRetries, &pk.RetryBackoff, &pk.RetryInitialDelay, &pk.RetryMaxDelay)
	return nil
}

// WatchDefaultApplier handles watch configuration defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch == nil {
		return nil
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "500ms"
	}
	return nil
}

// SolverDefaultApplier handles solver configuration defaults.
type SolverDefaultApplier struct{}

func (s *SolverDefaultApplier) Domain() string { return "solver" }

func (s *SolverDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Solver.CountLimit <= 0 {
		cfg.Solver.CountLimit = 100000000
	}
	if cfg.Solver.Timeout == "" {
		cfg.Solver.Timeout = "2m"
	}
	return nil
}

// QueueDefaultApplier handles queue configuration defaults.
type QueueDefaultApplier struct{}

func (q *QueueDefaultApplier) Domain() string { return "queue" }

func (q *QueueDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.Size <= 0 {
		cfg.Queue.Size = 100
	}
	if cfg.Queue.History <= 0 {
		cfg.Queue.History = 50
	}
	return nil
}

// LoggingDefaultApplier handles logging configuration defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	// Normalizers fall back to info/text for unknown input, so raw user
	// strings are coerced here rather than rejected later.
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// applyRetryDefaults fills the shared retry policy fields used by several sections.
func applyRetryDefaults(maxRetries *int, mode *RetryBackoffMode, initial, max *string) {
	if *maxRetries < 0 {
		*maxRetries = 0
	}
	if *maxRetries == 0 {
		*maxRetries = 2
	}
	if *mode == "" {
		*mode = RetryBackoffLinear
	} else if m := NormalizeRetryBackoff(string(*mode)); m != "" {
		*mode = m
	} else {
		*mode = RetryBackoffLinear
	}
	if *initial == "" {
		*initial = "1s"
	}
	if *max == "" {
		*max = "30s"
	}
}
