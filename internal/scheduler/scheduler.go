package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencanteen/mensa/internal/clock"
	"github.com/opencanteen/mensa/internal/lock"
	obsmetrics "github.com/opencanteen/mensa/internal/observability/metrics"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler misconfigured")

const cleanupJobName = "schedule_cleanup"

type Params struct {
	fx.In

	Log         *zap.Logger
	ScheduleSvc scheduledomain.Service
	Clock       clock.Clock
	Locker      *lock.Locker `optional:"true"`
	Config      Config       `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	scheduleSvc scheduledomain.Service
	locker      *lock.Locker

	lastCleanupDay string
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.ScheduleSvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		scheduleSvc: p.ScheduleSvc,
		locker:      p.Locker,
	}, nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.clock.Now()
	if !s.cleanupDue(now) {
		return nil
	}
	return s.runJob(ctx, cleanupJobName, s.CleanupJob)
}

// cleanupDue gates the daily run: once per calendar day, after the configured
// hour.
func (s *Scheduler) cleanupDue(now time.Time) bool {
	day := now.Format("2006-01-02")
	if day == s.lastCleanupDay {
		return false
	}
	return now.Hour() >= s.cfg.CleanupHour
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	elapsed := s.clock.Now().Sub(start)
	schedMetrics.ObserveJobDuration(name, elapsed)

	if err != nil {
		schedMetrics.IncJobFailure(name)
		log.Warn("job failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Info("job finished", zap.Duration("elapsed", elapsed))
	return nil
}

// CleanupJob deletes schedule rows older than the retention window. The redis
// lock keeps replicas from double-firing; a missing or failing redis still
// lets the job run because the delete is idempotent.
func (s *Scheduler) CleanupJob(ctx context.Context) error {
	now := s.clock.Now()
	day := now.Format("2006-01-02")

	if s.locker != nil {
		key := "scheduler:" + cleanupJobName + ":" + day
		_, ok, err := s.locker.TryLock(ctx, key, 23*time.Hour)
		if err != nil {
			s.log.Warn("cleanup lock unavailable, running anyway", zap.Error(err))
		} else if !ok {
			s.log.Debug("cleanup already claimed by another replica", zap.String("day", day))
			s.lastCleanupDay = day
			return nil
		}
		// The lock is left to expire; it guards the whole day, not the run.
	}

	cutoff := now.AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.scheduleSvc.CleanupExpired(ctx, cutoff)
	if err != nil {
		return err
	}
	s.lastCleanupDay = day
	obsmetrics.Scheduler().AddRowsDeleted(deleted)
	s.log.Info("expired schedules removed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return nil
}
