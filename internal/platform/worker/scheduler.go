// Package worker runs periodic maintenance jobs on a bounded goroutine pool.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/panjf2000/ants/v2"
)

// Job is a unit of periodic work.
type Job struct {
	Name     string
	Interval time.Duration
	// RunOnStart runs the job once as soon as the scheduler starts.
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Scheduler submits jobs to a non-blocking ants pool. Jobs may run concurrently up to
// the pool size, and a tick that finds the pool full is skipped rather than queued.
// Jobs that must not overlap serialize themselves; backups do so on the backup
// service mutex.
type Scheduler struct {
	pool   *ants.Pool
	logger *slog.Logger
	jobs   []Job

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler backed by a non-blocking pool of the given size.
func NewScheduler(size int, logger *slog.Logger) (*Scheduler, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &Scheduler{pool: pool, logger: logger}, nil
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *Scheduler) Add(job Job) {
	if job.Interval <= 0 || job.Run == nil {
		s.logger.Info("Scheduled job disabled", slog.String("job", job.Name))
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start launches one ticker per job. Stop, or cancelling ctx, ends them.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
		s.logger.Info("Scheduled job started", slog.String("job", job.Name), slog.Duration("interval", job.Interval))
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	if job.RunOnStart {
		s.trigger(ctx, job)
	}
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trigger(ctx, job)
		}
	}
}

// Submit runs task on the pool. It returns ants.ErrPoolOverload when the pool is busy.
func (s *Scheduler) Submit(task func()) error {
	return s.pool.Submit(task)
}

func (s *Scheduler) trigger(ctx context.Context, job Job) {
	logger := s.logger.With(slog.String("job", job.Name))
	s.wg.Add(1)
	err := s.Submit(func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Scheduled job panicked", slog.Any("panic", r))
			}
		}()
		start := time.Now()
		if err := job.Run(middleware.WithLogger(ctx, logger)); err != nil {
			logger.Error("Scheduled job failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
			return
		}
		logger.Info("Scheduled job finished", slog.Duration("duration", time.Since(start)))
	})
	if err != nil {
		s.wg.Done()
		if errors.Is(err, ants.ErrPoolOverload) {
			logger.Warn("Scheduled job skipped, previous run still in progress")
			return
		}
		logger.Error("Failed to submit scheduled job", slog.String("error", err.Error()))
	}
}

// Stop cancels the tickers, waits for running jobs and releases the pool.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.pool.Release()
}
