/*
Package worker provides a bounded worker pool for concurrent task processing
with optional rate limiting and context cancellation.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 100, // tasks/sec, 0 for unlimited
	})

	ctx := context.Background()
	pool.Start(ctx)

	pool.Submit(worker.Task{
		Path: "main.go",
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{Path: "main.go", Data: "processed"}, nil
		},
	})

	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

type pool struct {
	config  Config
	tasks   chan Task
	results chan Result
	errs    chan error
	limiter *rate.Limiter

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	started   bool
	draining  bool
	stopped   bool
	startTime time.Time

	// collected is owned by the collector goroutine until collectDone is
	// closed, after which it is safe to read.
	collected    []Result
	collectDone  chan struct{}
	closeResults sync.Once

	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewPool creates a new worker pool with the given configuration.
func NewPool(config Config) (Pool, error) {
	if config.Workers <= 0 {
		return nil, fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be non-negative")
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:      config,
		tasks:       make(chan Task, config.Workers*2),
		results:     make(chan Result, config.Workers*2),
		errs:        make(chan error, config.Workers),
		limiter:     limiter,
		collectDone: make(chan struct{}),
	}, nil
}

// Start launches the workers.
func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.startTime = time.Now()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()

	return nil
}

// collect drains results as workers produce them, so submission never backs
// up behind a full results buffer during a long run.
func (p *pool) collect() {
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
	close(p.collectDone)
}

// Submit adds a task to the pool for processing.
func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if p.draining {
		p.mu.Unlock()
		return fmt.Errorf("pool is draining")
	}
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- task:
		return nil
	}
}

// Wait closes the intake, joins the workers and returns every result
// collected since Start.
func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	if !p.draining {
		close(p.tasks)
		p.draining = true
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.closeResults.Do(func() { close(p.results) })
	<-p.collectDone

	select {
	case err := <-p.errs:
		return nil, err
	default:
		return p.collected, nil
	}
}

// Stop shuts the pool down, cancelling work still in flight.
func (p *pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || !p.started {
		p.stopped = true
		return nil
	}
	p.stopped = true

	p.cancel()
	if !p.draining {
		close(p.tasks)
		p.draining = true
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.closeResults.Do(func() { close(p.results) })
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

// Stats returns current statistics about the pool.
func (p *pool) Stats() Stats {
	p.mu.Lock()
	startTime := p.startTime
	started := p.started
	p.mu.Unlock()

	var uptime time.Duration
	if started {
		uptime = time.Since(startTime)
	}

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completedTasks.Load()),
		FailedTasks:    int(p.failedTasks.Load()),
		Uptime:         uptime,
	}
}

func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				select {
				case p.errs <- fmt.Errorf("rate limiter: %w", err):
				default:
				}
				return
			}
		}

		p.activeWorkers.Add(1)
		result, err := task.Execute(p.ctx)
		p.activeWorkers.Add(-1)

		if err != nil {
			p.failedTasks.Add(1)
			continue
		}
		p.completedTasks.Add(1)

		select {
		case <-p.ctx.Done():
			return
		case p.results <- result:
		}
	}
}
