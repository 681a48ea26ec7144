// Package worker provides background processing for detached jobs such as
// LLM reranking and write-behind persistence.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Job is a named background task. Run receives a context bounded by the
// pool's job timeout.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool manages background workers for async jobs.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	logger  zerolog.Logger
	timeout time.Duration
}

// NewPool creates a worker pool with the given queue size and per-job
// timeout. A non-positive timeout disables the deadline.
func NewPool(queueSize int, timeout time.Duration, logger zerolog.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		jobs:    make(chan Job, queueSize),
		logger:  logger.With().Str("component", "worker").Logger(),
		timeout: timeout,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.process(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. A saturated queue drops the job:
// everything running here is best-effort.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.logger.Warn().Str("job", job.Name).Msg("queue full, dropping job")
	}
}

func (p *Pool) process(job Job) {
	if job.Run == nil {
		p.logger.Warn().Str("job", job.Name).Msg("job has no Run func, skipping")
		return
	}

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		p.logger.Warn().Err(err).Str("job", job.Name).Dur("took", time.Since(start)).Msg("job failed")
		return
	}
	p.logger.Debug().Str("job", job.Name).Dur("took", time.Since(start)).Msg("job done")
}
