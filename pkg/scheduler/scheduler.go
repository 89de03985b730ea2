// Package scheduler is the optional in-process driver that polls the
// submission engine and the incoming sync coordinator on fixed intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/pkg/config"
	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
	submissionsvc "github.com/chainsafe/ksef-middleware/pkg/submission/service"
)

const tickTimeout = 2 * time.Minute

// Fetcher drives the incoming export protocol.
type Fetcher interface {
	InitIncomingFetch(ctx context.Context) (*incomingsvc.FetchResult, error)
	CheckIncomingFetchStatus(ctx context.Context) (*incomingsvc.FetchResult, error)
}

// Checker resolves in-flight submissions and reports offline deadlines.
type Checker interface {
	CheckPending(ctx context.Context, limit int) ([]*submissionsvc.Result, error)
	NeedsAttention(ctx context.Context) ([]*submission.Submission, error)
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock sets the scheduler time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// Scheduler runs three independent loops: incoming sync, submission status
// checks and the offline attention sweep.
type Scheduler struct {
	cfg     config.SchedulerConfig
	fetcher Fetcher
	checker Checker
	logger  *zap.Logger
	now     func() time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Scheduler
func New(cfg config.SchedulerConfig, fetcher Fetcher, checker Checker, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:     cfg,
		fetcher: fetcher,
		checker: checker,
		logger:  logger,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background loops
func (s *Scheduler) Start() {
	s.every("incoming sync", s.cfg.StatusPollInterval, s.SyncIncoming)
	s.every("submission status", s.cfg.StatusPollInterval, s.CheckSubmissions)
	s.every("offline attention", s.cfg.AttentionInterval, s.RefreshAttention)
}

// Stop stops the loops and waits for running ticks to finish
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) every(name string, interval time.Duration, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.logger.Info("Started periodic job", zap.String("job", name), zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
				fn(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("Stopping periodic job", zap.String("job", name))
				return
			}
		}
	}()
}

// SyncIncoming advances a running fetch and starts a new one once the fetch
// interval has passed since the last successful sync.
func (s *Scheduler) SyncIncoming(ctx context.Context) {
	res, err := s.fetcher.CheckIncomingFetchStatus(ctx)
	if err != nil {
		s.logger.Error("Incoming fetch status check failed", zap.Error(err))
		return
	}

	switch res.Outcome {
	case incomingsvc.OutcomeIdle, incomingsvc.OutcomeCompleted:
	default:
		return
	}
	if last := res.State.LastSyncDate; last != nil && s.now().Sub(*last) < s.cfg.FetchInterval {
		return
	}

	if _, err := s.fetcher.InitIncomingFetch(ctx); err != nil {
		s.logger.Error("Failed to start incoming fetch", zap.Error(err))
	}
}

// CheckSubmissions polls one batch of in-flight submissions.
func (s *Scheduler) CheckSubmissions(ctx context.Context) {
	results, err := s.checker.CheckPending(ctx, s.cfg.CheckBatchSize)
	if err != nil {
		s.logger.Error("Submission status check failed", zap.Int("checked", len(results)), zap.Error(err))
		return
	}
	if len(results) > 0 {
		s.logger.Info("Checked in-flight submissions", zap.Int("checked", len(results)))
	}
}

// RefreshAttention updates the offline deadline gauge.
func (s *Scheduler) RefreshAttention(ctx context.Context) {
	subs, err := s.checker.NeedsAttention(ctx)
	if err != nil {
		s.logger.Error("Offline attention sweep failed", zap.Error(err))
		return
	}
	if len(subs) > 0 {
		s.logger.Warn("Offline invoices need attention", zap.Int("count", len(subs)))
	}
}
