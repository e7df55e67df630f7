package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig configures the optional history retention sweeper.
type RetentionConfig struct {
	// Enabled turns the sweeper on (default: false — history is kept forever).
	Enabled bool `yaml:"enabled"`

	// MaxAgeDays is the age after which exchanges are deleted (default: 90).
	MaxAgeDays int `yaml:"max_age_days"`

	// Schedule is a cron expression for sweep runs (default: "0 3 * * *").
	Schedule string `yaml:"schedule"`
}

// DefaultRetentionConfig returns the sweeper defaults.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Enabled:    false,
		MaxAgeDays: 90,
		Schedule:   "0 3 * * *",
	}
}

// Sweeper periodically deletes exchanges older than the retention window.
type Sweeper struct {
	store  Store
	config RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSweeper creates a retention sweeper. Call Start to schedule it.
func NewSweeper(store Store, config RetentionConfig, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = 90
	}
	if config.Schedule == "" {
		config.Schedule = "0 3 * * *"
	}
	return &Sweeper{
		store:  store,
		config: config,
		logger: logger.With("component", "retention"),
	}
}

// Start registers the cron entry and begins scheduling. No-op when the
// sweeper is disabled.
func (s *Sweeper) Start() error {
	if !s.config.Enabled {
		return nil
	}
	s.cron = cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := s.cron.AddFunc(s.config.Schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("retention sweeper started",
		"schedule", s.config.Schedule,
		"max_age_days", s.config.MaxAgeDays,
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.config.MaxAgeDays)
	deleted, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return
	}
	s.logger.Info("retention sweep done", "deleted", deleted, "cutoff", cutoff)
}
