/*
Package worker provides a small worker pool for running independent checks
concurrently, with optional rate limiting and context cancellation.

Basic usage:

	pool, err := worker.NewPool(worker.Config{
		Workers:   4,
		RateLimit: 10, // 10 tasks/sec, 0 for unlimited
	})
	if err != nil {
		return err
	}

	if err := pool.Start(ctx); err != nil {
		return err
	}

	for i, file := range files {
		file := file
		pool.Submit(worker.Task{
			ID: i,
			Execute: func(ctx context.Context) (worker.Result, error) {
				report, err := check(file)
				return worker.Result{Data: report}, err
			},
		})
	}

	// Results come back in submission order. Failed tasks are reported in
	// the joined error and do not stop the remaining tasks.
	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	// ID identifies the task in results and errors
	ID int

	// Execute performs the work. It receives the pool context.
	Execute func(context.Context) (Result, error)
}

// Result represents the output of a processed task
type Result struct {
	// ID matches the task ID that produced this result
	ID int

	// Data holds the actual result data
	Data interface{}

	order int
}

// Config holds the configuration for the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// RateLimit is the maximum number of tasks started per second (0 for unlimited)
	RateLimit int
}

// Pool defines the interface for a worker pool
type Pool interface {
	// Start launches the workers
	Start(context.Context) error

	// Submit queues a task. It blocks while the queue is full.
	Submit(Task) error

	// Wait stops accepting tasks, blocks until every queued task has run and
	// returns the successful results in submission order together with the
	// joined task errors.
	Wait() ([]Result, error)

	// GetStats returns current statistics about the pool
	GetStats() Stats

	// Stop cancels outstanding work and shuts the pool down
	Stop() error
}

type pool struct {
	config  Config
	tasks   chan taskWithOrder
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	started   bool
	closed    bool
	stopped   bool
	nextOrder int
	results   []Result
	errs      []error
	startTime time.Time

	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

type taskWithOrder struct {
	Task
	order int
}

// NewPool creates a new worker pool with the given configuration
func NewPool(config Config) (Pool, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan taskWithOrder, config.Workers*2),
		limiter: limiter,
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

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

	return nil
}

func (p *pool) Submit(task Task) error {
	if task.Execute == nil {
		return fmt.Errorf("task %d has no Execute function", task.ID)
	}

	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("pool is no longer accepting tasks")
	}
	order := p.nextOrder
	p.nextOrder++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- taskWithOrder{Task: task, order: order}:
		return nil
	}
}

func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	p.closeTasks()
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := append([]Result(nil), p.results...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	return results, errors.Join(p.errs...)
}

func (p *pool) Stop() error {
	p.mu.Lock()
	if p.stopped || !p.started {
		p.stopped = true
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.cancel()
	p.closeTasks()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(500 * time.Millisecond):
		return fmt.Errorf("shutdown timed out")
	}
}

func (p *pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	var uptime time.Duration
	if p.started {
		uptime = time.Since(p.startTime)
	}

	return Stats{
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    len(p.tasks),
		CompletedTasks: int(p.completedTasks.Load()),
		FailedTasks:    int(p.failedTasks.Load()),
		Status:         p.status(),
		Uptime:         uptime,
	}
}

// status must be called with p.mu held
func (p *pool) status() Status {
	switch {
	case !p.started || p.stopped:
		return StatusStopped
	case p.activeWorkers.Load() > 0 || len(p.tasks) > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}

// closeTasks must be called with p.mu held
func (p *pool) closeTasks() {
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
}

func (p *pool) worker() {
	defer p.wg.Done()

	for t := range p.tasks {
		p.run(t)
	}
}

func (p *pool) run(t taskWithOrder) {
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)

	if err := p.ctx.Err(); err != nil {
		p.fail(fmt.Errorf("task %d not run: %w", t.ID, err))
		return
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.fail(fmt.Errorf("task %d rate limiter error: %w", t.ID, err))
			return
		}
	}

	result, err := t.Execute(p.ctx)
	if err != nil {
		p.fail(fmt.Errorf("task %d failed: %w", t.ID, err))
		return
	}

	result.ID = t.ID
	result.order = t.order
	p.completedTasks.Add(1)

	p.mu.Lock()
	p.results = append(p.results, result)
	p.mu.Unlock()
}

func (p *pool) fail(err error) {
	p.failedTasks.Add(1)

	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}
