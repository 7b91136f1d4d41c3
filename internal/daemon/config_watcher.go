package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
)

// configDebounce is how long the watcher waits after the last write
// before reloading. Editors save in bursts.
const configDebounce = 2 * time.Second

// ConfigWatcher monitors the configuration file and triggers daemon
// reloads on change.
type ConfigWatcher struct {
	configPath string
	daemon     *Daemon
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	stopChan   chan struct{}
	reloadChan chan struct{}
	debounce   time.Duration
}

// NewConfigWatcher creates a watcher for configPath.
func NewConfigWatcher(configPath string, daemon *Daemon, logger *slog.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ConfigWatcher{
		configPath: absPath,
		daemon:     daemon,
		watcher:    watcher,
		logger:     logger,
		stopChan:   make(chan struct{}),
		reloadChan: make(chan struct{}, 1),
		debounce:   configDebounce,
	}, nil
}

// Start begins monitoring the configuration file. The containing
// directory is watched rather than the file itself so atomic
// rename-style saves keep working.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("watch config directory %s: %w", configDir, err)
	}

	cw.logger.Info("config watcher started", logfields.Path(cw.configPath))

	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (cw *ConfigWatcher) Stop() error {
	close(cw.stopChan)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				cw.logger.Debug("config file changed", logfields.File(event.Name))
				cw.triggerReload()
			case event.Op&fsnotify.Remove != 0:
				cw.logger.Warn("config file removed", logfields.File(event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", logfields.Error(err))
		}
	}
}

func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-cw.reloadChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounce, func() {
				if err := cw.performReload(ctx); err != nil {
					cw.logger.Error("config reload failed", logfields.Error(err))
				}
			})
		}
	}
}

func (cw *ConfigWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
		// Reload already pending.
	}
}

func (cw *ConfigWatcher) performReload(ctx context.Context) error {
	newCfg, err := config.Load(cw.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	return cw.daemon.ReloadConfig(ctx, newCfg)
}
