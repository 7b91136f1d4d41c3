package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration for both the daemon and
// direct CLI modes.
type Config struct {
	Listener ListenerConfig `yaml:"listener"`
	Status   StatusConfig   `yaml:"status"`
	Archive  *ArchiveConfig `yaml:"archive,omitempty"`
	Events   *EventsConfig  `yaml:"events,omitempty"`
	Packs    *PacksConfig   `yaml:"packs,omitempty"`
	Watch    *WatchConfig   `yaml:"watch,omitempty"`
	Solver   SolverConfig   `yaml:"solver"`
	Queue    QueueConfig    `yaml:"queue"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ListenerConfig configures the websocket solver endpoint.
type ListenerConfig struct {
	Addr string `yaml:"addr"` // host:port, defaults to 127.0.0.1:4545
}

// StatusConfig configures the admin/status HTTP server.
type StatusConfig struct {
	Addr        string `yaml:"addr"`         // host:port, defaults to 127.0.0.1:8090
	MetricsPath string `yaml:"metrics_path"` // Prometheus scrape path, defaults to /metrics
}

// ArchiveConfig configures the sqlite-backed result archive.
type ArchiveConfig struct {
	Path          string `yaml:"path"`           // sqlite database file
	RetentionDays int    `yaml:"retention_days"` // prune records older than this, 0 keeps forever
	PruneSchedule string `yaml:"prune_schedule"` // cron expression for scheduled pruning
}

// EventsConfig configures the NATS JetStream publisher and the shared result cache.
type EventsConfig struct {
	URL           string `yaml:"url"`            // nats server URL
	Stream        string `yaml:"stream"`         // JetStream stream name
	SubjectPrefix string `yaml:"subject_prefix"` // prefix for published subjects
	CacheBucket   string `yaml:"cache_bucket"`   // KV bucket for solve result caching, empty disables
	CacheTTL      string `yaml:"cache_ttl"`      // max age of cached entries (duration string)
	// Retry policy for failed publishes.
	MaxRetries        int              `yaml:"max_retries,omitempty"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// PackRepository identifies one git repository holding puzzle cards.
type PackRepository struct {
	URL    string      `yaml:"url"`
	Name   string      `yaml:"name"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// PacksConfig configures puzzle pack mirroring.
type PacksConfig struct {
	Root            string           `yaml:"root"`             // local directory holding pack checkouts
	RefreshSchedule string           `yaml:"refresh_schedule"` // cron expression for scheduled refresh
	QueueDiscovered bool             `yaml:"queue_discovered"` // queue newly discovered puzzles for solving
	Repositories    []PackRepository `yaml:"repositories"`
	// Retry policy for transient fetch failures.
	MaxRetries        int              `yaml:"max_retries,omitempty"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"`
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`
}

// WatchConfig configures the drop directory watcher.
type WatchConfig struct {
	Dir      string `yaml:"dir"`      // directory watched for puzzle files
	Debounce string `yaml:"debounce"` // settle time before a new file is queued
}

// SolverConfig holds solver tuning knobs shared by all entry points.
type SolverConfig struct {
	// CountLimit caps solution counting; counts are reported as "at least" once hit.
	CountLimit int `yaml:"count_limit"`
	// Timeout bounds a single solve/count/candidates request.
	Timeout string `yaml:"timeout"`
}

// QueueConfig tunes the background job queue.
type QueueConfig struct {
	Workers int `yaml:"workers"` // concurrent job workers
	Size    int `yaml:"size"`    // max queued jobs
	History int `yaml:"history"` // completed jobs retained for the status API
}

// LoggingConfig selects log verbosity and output encoding.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyDefaults(&config); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no config file is given:
// listener only, no periphery sections.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		// applyDefaults on an empty config cannot fail; keep the zero value if it ever does.
		return &Config{}
	}
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Listener: ListenerConfig{Addr: "127.0.0.1:4545"},
		Status:   StatusConfig{Addr: "127.0.0.1:8090", MetricsPath: "/metrics"},
		Archive: &ArchiveConfig{
			Path:          "./gridsolver.db",
			RetentionDays: 30,
			PruneSchedule: "0 3 * * *",
		},
		Events: &EventsConfig{
			URL:               "nats://127.0.0.1:4222",
			Stream:            "SOLVER",
			SubjectPrefix:     "solver",
			CacheBucket:       "solver-results",
			CacheTTL:          "24h",
			MaxRetries:        2,
			RetryBackoff:      RetryBackoffLinear,
			RetryInitialDelay: "1s",
			RetryMaxDelay:     "30s",
		},
		Packs: &PacksConfig{
			Root:            "./packs",
			RefreshSchedule: "0 */6 * * *",
			QueueDiscovered: true,
			Repositories: []PackRepository{
				{
					URL:    "https://github.com/example/puzzle-pack.git",
					Name:   "classics",
					Branch: "main",
					Auth: &AuthConfig{
						Type:  AuthTypeToken,
						Token: "${GIT_TOKEN}",
					},
				},
			},
		},
		Watch: &WatchConfig{
			Dir:      "./drop",
			Debounce: "500ms",
		},
		Solver: SolverConfig{
			CountLimit: 100000000,
			Timeout:    "2m",
		},
		Queue: QueueConfig{
			Workers: 2,
			Size:    100,
			History: 50,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
