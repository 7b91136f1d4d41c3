package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/gridsolver/internal/logfields"
)

// Scheduler wraps gocron for the daemon's periodic work: pack
// refreshes, archive pruning and queue depth sampling.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// NewScheduler creates an idle scheduler. Jobs run only after Start.
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, logger: logger}, nil
}

// Cron registers task under a crontab spec and returns the job ID.
func (s *Scheduler) Cron(name, spec string, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(spec, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return "", fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.logger.Debug("job scheduled", logfields.ScheduleName(name), slog.String("spec", spec))
	return job.ID().String(), nil
}

// Every registers task at a fixed interval and returns the job ID.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return "", fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Debug("job scheduled", logfields.ScheduleName(name), slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
