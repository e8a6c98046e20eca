// Package prune runs the retention job that clears stale dialogue sessions.
package prune

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionPruner deletes sessions idle for longer than a TTL.
type SessionPruner interface {
	DeleteStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// Service schedules the session retention sweep.
type Service struct {
	cron     *cron.Cron
	sessions SessionPruner
	schedule string
	ttl      time.Duration
	logger   *slog.Logger
}

// NewService creates the retention service. schedule is a cron expression,
// ttl the idle age after which a session is dropped.
func NewService(log *slog.Logger, sessions SessionPruner, schedule string, ttl time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	if schedule == "" {
		schedule = "@hourly"
	}
	return &Service{
		cron:     cron.New(),
		sessions: sessions,
		schedule: schedule,
		ttl:      ttl,
		logger:   log.With(slog.String("service", "prune")),
	}
}

// Start registers the sweep and starts the scheduler. A TTL of zero disables
// retention entirely.
func (s *Service) Start() error {
	if s.ttl <= 0 {
		s.logger.Info("session retention disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session retention scheduled",
		slog.String("schedule", s.schedule),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Service) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := s.sessions.DeleteStale(ctx, s.ttl)
	if err != nil {
		s.logger.Error("session sweep failed", slog.Any("error", err))
		return
	}
	if pruned > 0 {
		s.logger.Info("stale sessions pruned", slog.Int64("count", pruned))
	}
}
