package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

// newConfigurationValidator creates a comprehensive configuration validator.
func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs configuration validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	if err := cv.validateListener(); err != nil {
		return err
	}
	if err := cv.validateStatus(); err != nil {
		return err
	}
	if err := cv.validateArchive(); err != nil {
		return err
	}
	if err := cv.validateEvents(); err != nil {
		return err
	}
	if err := cv.validatePacks(); err != nil {
		return err
	}
	if err := cv.validateWatch(); err != nil {
		return err
	}
	if err := cv.validateSolver(); err != nil {
		return err
	}
	return nil
}

// validateListener validates the websocket endpoint address.
func (cv *configurationValidator) validateListener() error {
	if cv.config.Listener.Addr == "" {
		return errors.New("listener address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(cv.config.Listener.Addr); err != nil {
		return fmt.Errorf("invalid listener address %q: %w", cv.config.Listener.Addr, err)
	}
	return nil
}

// validateStatus validates the status server address.
func (cv *configurationValidator) validateStatus() error {
	if cv.config.Status.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cv.config.Status.Addr); err != nil {
		return fmt.Errorf("invalid status address %q: %w", cv.config.Status.Addr, err)
	}
	return nil
}

// validateArchive validates the archive section when present.
func (cv *configurationValidator) validateArchive() error {
	a := cv.config.Archive
	if a == nil {
		return nil
	}
	if a.Path == "" {
		return errors.New("archive path cannot be empty")
	}
	if a.RetentionDays < 0 {
		return fmt.Errorf("archive retention cannot be negative: %d", a.RetentionDays)
	}
	return nil
}

// validateEvents validates the events section when present.
func (cv *configurationValidator) validateEvents() error {
	e := cv.config.Events
	if e == nil {
		return nil
	}
	if e.URL == "" {
		return errors.New("events url cannot be empty")
	}
	if e.CacheBucket != "" {
		if _, err := time.ParseDuration(e.CacheTTL); err != nil {
			return fmt.Errorf("invalid events cache_ttl %q: %w", e.CacheTTL, err)
		}
	}
	if err := validateRetryDurations("events", e.RetryInitialDelay, e.RetryMaxDelay); err != nil {
		return err
	}
	return nil
}

// validatePacks validates the packs section when present.
func (cv *configurationValidator) validatePacks() error {
	p := cv.config.Packs
	if p == nil {
		return nil
	}
	if p.Root == "" {
		return errors.New("packs root cannot be empty")
	}
	names := make(map[string]bool)
	for _, repo := range p.Repositories {
		if repo.URL == "" {
			return errors.New("pack repository url cannot be empty")
		}
		if repo.Name == "" {
			return fmt.Errorf("pack repository name cannot be empty: %s", repo.URL)
		}
		if names[repo.Name] {
			return fmt.Errorf("duplicate pack repository name: %s", repo.Name)
		}
		names[repo.Name] = true
		if !repo.Auth.IsZero() && !repo.Auth.Type.IsValid() {
			return fmt.Errorf("unsupported auth type for pack %s: %s", repo.Name, repo.Auth.Type)
		}
	}
	if err := validateRetryDurations("packs", p.RetryInitialDelay, p.RetryMaxDelay); err != nil {
		return err
	}
	return nil
}

// validateWatch validates the watch section when present.
func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	if w == nil {
		return nil
	}
	if w.Dir == "" {
		return errors.New("watch dir cannot be empty")
	}
	if _, err := time.ParseDuration(w.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", w.Debounce, err)
	}
	return nil
}

// validateSolver validates solver tuning fields.
func (cv *configurationValidator) validateSolver() error {
	s := cv.config.Solver
	if s.CountLimit <= 0 {
		return fmt.Errorf("solver count_limit must be positive: %d", s.CountLimit)
	}
	if _, err := time.ParseDuration(s.Timeout); err != nil {
		return fmt.Errorf("invalid solver timeout %q: %w", s.Timeout, err)
	}
	return nil
}

// validateRetryDurations checks the duration strings of a retry policy block.
func validateRetryDurations(section, initial, max string) error {
	if initial != "" {
		if _, err := time.ParseDuration(initial); err != nil {
			return fmt.Errorf("invalid %s retry_initial_delay %q: %w", section, initial, err)
		}
	}
	if max != "" {
		if _, err := time.ParseDuration(max); err != nil {
			return fmt.Errorf("invalid %s retry_max_delay %q: %w", section, max, err)
		}
	}
	return nil
}
