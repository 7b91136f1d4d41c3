package config

import "testing"

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	if cfg.Listener.Addr != "127.0.0.1:4545" {
		t.Errorf("listener addr = %q", cfg.Listener.Addr)
	}
	if cfg.Status.Addr != "127.0.0.1:8090" {
		t.Errorf("status addr = %q", cfg.Status.Addr)
	}
	if cfg.Solver.CountLimit != 100000000 || cfg.Solver.Timeout != "2m" {
		t.Errorf("solver defaults = %+v", cfg.Solver)
	}
	if cfg.Queue.Workers != 2 || cfg.Queue.Size != 100 || cfg.Queue.History != 50 {
		t.Errorf("queue defaults = %+v", cfg.Queue)
	}
	if cfg.Logging.Level != LogLevelInfo || cfg.Logging.Format != LogFormatText {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestApplyDefaultsRetryFields(t *testing.T) {
	cfg := &Config{Events: &EventsConfig{URL: "nats://localhost:4222"}}
	if err := applyDefaults(cfg); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	ev := cfg.Events
	if ev.MaxRetries != 2 {
		t.Errorf("events max retries = %d", ev.MaxRetries)
	}
	if ev.RetryBackoff != RetryBackoffLinear {
		t.Errorf("events backoff = %q", ev.RetryBackoff)
	}
	if ev.RetryInitialDelay != "1s" || ev.RetryMaxDelay != "30s" {
		t.Errorf("events retry delays = %q/%q", ev.RetryInitialDelay, ev.RetryMaxDelay)
	}
	if ev.Stream != "SOLVER" || ev.SubjectPrefix != "solver" || ev.CacheTTL != "24h" {
		t.Errorf("events defaults = %+v", ev)
	}
}

func TestApplyDefaultsUnknownBackoffFallsBack(t *testing.T) {
	cfg := &Config{Packs: &PacksConfig{RetryBackoff: "weird"}}
	if err := applyDefaults(cfg); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	if cfg.Packs.RetryBackoff != RetryBackoffLinear {
		t.Errorf("unknown backoff should fall back to linear, got %q", cfg.Packs.RetryBackoff)
	}
	if cfg.Packs.Root != "./packs" || cfg.Packs.RefreshSchedule != "0 */6 * * *" {
		t.Errorf("packs defaults = %+v", cfg.Packs)
	}
}

func TestApplyDefaultsPackBranches(t *testing.T) {
	cfg := &Config{Packs: &PacksConfig{Repositories: []PackRepository{
		{URL: "https://example/one.git", Name: "one"},
		{URL: "https://example/two.git", Name: "two", Branch: "develop"},
	}}}
	if err := applyDefaults(cfg); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	if cfg.Packs.Repositories[0].Branch != "main" {
		t.Errorf("missing branch should default to main, got %q", cfg.Packs.Repositories[0].Branch)
	}
	if cfg.Packs.Repositories[1].Branch != "develop" {
		t.Errorf("explicit branch should be kept, got %q", cfg.Packs.Repositories[1].Branch)
	}
}

func TestApplyDefaultsLoggingCoercion(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "DEBUG", Format: "bogus"}}
	if err := applyDefaults(cfg); err != nil {
		t.Fatalf("applyDefaults: %v", err)
	}
	if cfg.Logging.Level != LogLevelDebug {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != LogFormatText {
		t.Errorf("unknown format should coerce to text, got %q", cfg.Logging.Format)
	}
}
