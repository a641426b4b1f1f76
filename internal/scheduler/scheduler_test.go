package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/opencanteen/mensa/internal/clock"
	scheduledomain "github.com/opencanteen/mensa/internal/schedule/domain"
	"go.uber.org/zap"
)

type cleanupRecorder struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (c *cleanupRecorder) Create(context.Context, scheduledomain.CreateRequest) (*scheduledomain.Response, error) {
	return nil, nil
}

func (c *cleanupRecorder) List(context.Context, scheduledomain.ListRequest) ([]scheduledomain.Response, error) {
	return nil, nil
}

func (c *cleanupRecorder) Get(context.Context, string) (*scheduledomain.Response, error) {
	return nil, nil
}

func (c *cleanupRecorder) Update(context.Context, scheduledomain.UpdateRequest) (*scheduledomain.Response, error) {
	return nil, nil
}

func (c *cleanupRecorder) Delete(context.Context, string) error { return nil }

func (c *cleanupRecorder) CleanupExpired(_ context.Context, cutoff time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	c.cutoffs = append(c.cutoffs, cutoff)
	return c.deleted, nil
}

func (c *cleanupRecorder) runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cutoffs)
}

func newTestScheduler(t *testing.T, fake *clock.FakeClock, svc scheduledomain.Service) *Scheduler {
	t.Helper()
	s, err := New(Params{
		Log:         zap.NewNop(),
		ScheduleSvc: svc,
		Clock:       fake,
		Config:      Config{CleanupHour: 2, RetentionDays: 14},
	})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	return s
}

func TestCleanupWaitsForConfiguredHour(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 0, 30, 0, 0, time.UTC))
	recorder := &cleanupRecorder{deleted: 3}
	s := newTestScheduler(t, fake, recorder)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run before hour: %v", err)
	}
	if recorder.runs() != 0 {
		t.Fatalf("cleanup ran before the configured hour")
	}

	fake.Advance(2 * time.Hour)
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run at hour: %v", err)
	}
	if recorder.runs() != 1 {
		t.Fatalf("expected 1 cleanup run, got %d", recorder.runs())
	}
}

func TestCleanupRunsOncePerDay(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC))
	recorder := &cleanupRecorder{}
	s := newTestScheduler(t, fake, recorder)

	for i := 0; i < 5; i++ {
		if err := s.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		fake.Advance(time.Minute)
	}
	if recorder.runs() != 1 {
		t.Fatalf("expected 1 run for the day, got %d", recorder.runs())
	}

	fake.Advance(24 * time.Hour)
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("next day run: %v", err)
	}
	if recorder.runs() != 2 {
		t.Fatalf("expected a second run the next day, got %d", recorder.runs())
	}
}

func TestCleanupCutoffMatchesRetention(t *testing.T) {
	now := time.Date(2026, 8, 29, 4, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(now)
	recorder := &cleanupRecorder{}
	s := newTestScheduler(t, fake, recorder)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if recorder.runs() != 1 {
		t.Fatalf("expected cleanup to run")
	}
	want := now.AddDate(0, 0, -14)
	if !recorder.cutoffs[0].Equal(want) {
		t.Fatalf("cutoff = %v, want %v", recorder.cutoffs[0], want)
	}
}

func TestCleanupFailureRetriesSameDay(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC))
	recorder := &cleanupRecorder{err: context.DeadlineExceeded}
	s := newTestScheduler(t, fake, recorder)

	if err := s.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected failed run to report the error")
	}

	// The failed run must not mark the day done.
	recorder.err = nil
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if recorder.runs() != 1 {
		t.Fatalf("expected the retry to complete the cleanup, got %d runs", recorder.runs())
	}
}
