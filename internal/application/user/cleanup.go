package user

import (
	"context"
	"sync"
	"time"

	"github.com/travel-advisor/internal/pkg/metrics"
	"go.uber.org/zap"
)

type tempUserPurger interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupTask periodically deletes registrations that were never confirmed.
type CleanupTask struct {
	repo     tempUserPurger
	interval time.Duration
	maxAge   time.Duration
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

func NewCleanupTask(repo tempUserPurger, interval, maxAge time.Duration, m *metrics.Metrics, log *zap.Logger) *CleanupTask {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupTask{
		repo:     repo,
		interval: interval,
		maxAge:   maxAge,
		metrics:  m,
		log:      log.Named("cleanup"),
		now:      time.Now,
	}
}

// RunOnce deletes every temp user created more than maxAge ago.
func (t *CleanupTask) RunOnce(ctx context.Context) (int64, error) {
	cutoff := t.now().UTC().Add(-t.maxAge)
	n, err := t.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		t.log.Error("temp user cleanup failed", zap.Error(err))
		return 0, err
	}
	if t.metrics != nil {
		t.metrics.TempUsersRemoved.Add(float64(n))
	}
	t.log.Info("temp user cleanup finished", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}

// Start runs a sweep every interval until Stop is called or ctx ends. Calling Start twice is a no-op.
func (t *CleanupTask) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopCh != nil {
		return
	}
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})

	ticker := time.NewTicker(t.interval)
	go func(stopCh, done chan struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = t.RunOnce(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}(t.stopCh, t.done)
}

// Stop halts the ticker and waits for an in-flight sweep to return.
func (t *CleanupTask) Stop() {
	t.mu.Lock()
	stopCh, done := t.stopCh, t.done
	t.stopCh, t.done = nil, nil
	t.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}
