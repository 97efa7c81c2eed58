package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
)

// Worker interface that background workers should implement
type Worker interface {
	// Name returns worker name for logging
	Name() string
	// Run executes one iteration of work
	Run(ctx context.Context) error
}

type runnable interface {
	Start(ctx context.Context)
	Stop(timeout time.Duration)
}

// PeriodicWorker wraps a Worker with fixed-interval execution
type PeriodicWorker struct {
	worker   Worker
	interval time.Duration
	wg       *sync.WaitGroup
	name     string
}

// NewPeriodicWorker creates new periodic worker
func NewPeriodicWorker(worker Worker, interval time.Duration) *PeriodicWorker {
	return &PeriodicWorker{
		worker:   worker,
		interval: interval,
		wg:       &sync.WaitGroup{},
		name:     worker.Name(),
	}
}

// Start starts the worker with graceful shutdown support
func (pw *PeriodicWorker) Start(ctx context.Context) {
	pw.wg.Add(1)
	go pw.run(ctx)
}

// Stop waits for graceful shutdown
func (pw *PeriodicWorker) Stop(timeout time.Duration) {
	waitStopped(pw.wg, pw.name, timeout)
}

// run executes worker periodically
func (pw *PeriodicWorker) run(ctx context.Context) {
	defer pw.wg.Done()

	logger.Info("🚀 Worker started",
		zap.String("worker", pw.name),
		zap.Duration("interval", pw.interval),
	)

	// Run immediately on start
	if err := pw.worker.Run(ctx); err != nil {
		logger.Error("worker execution failed",
			zap.String("worker", pw.name),
			zap.Error(err),
		)
	}

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Worker stopping",
				zap.String("worker", pw.name),
			)
			return

		case <-ticker.C:
			if err := pw.worker.Run(ctx); err != nil {
				logger.Error("worker execution failed",
					zap.String("worker", pw.name),
					zap.Error(err),
				)
				// Continue despite error - don't crash worker
			}
		}
	}
}

// DailyWorker runs a Worker once per day at a fixed local hour.
// Unlike PeriodicWorker it never fires on startup, a digest sent at
// deploy time is noise.
type DailyWorker struct {
	worker Worker
	hour   int
	loc    *time.Location
	wg     *sync.WaitGroup
	name   string
}

// NewDailyWorker creates a worker that fires at hour o'clock in loc
func NewDailyWorker(worker Worker, hour int, loc *time.Location) *DailyWorker {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyWorker{
		worker: worker,
		hour:   hour,
		loc:    loc,
		wg:     &sync.WaitGroup{},
		name:   worker.Name(),
	}
}

// Start starts the worker with graceful shutdown support
func (dw *DailyWorker) Start(ctx context.Context) {
	dw.wg.Add(1)
	go dw.run(ctx)
}

// Stop waits for graceful shutdown
func (dw *DailyWorker) Stop(timeout time.Duration) {
	waitStopped(dw.wg, dw.name, timeout)
}

func (dw *DailyWorker) run(ctx context.Context) {
	defer dw.wg.Done()

	logger.Info("🚀 Worker started",
		zap.String("worker", dw.name),
		zap.Int("hour", dw.hour),
		zap.String("timezone", dw.loc.String()),
	)

	for {
		timer := time.NewTimer(time.Until(dw.nextRun()))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("🛑 Worker stopping",
				zap.String("worker", dw.name),
			)
			return

		case <-timer.C:
			if err := dw.worker.Run(ctx); err != nil {
				logger.Error("worker execution failed",
					zap.String("worker", dw.name),
					zap.Error(err),
				)
			}
		}
	}
}

// nextRun is the next occurrence of the configured hour, tomorrow if
// today's has already passed
func (dw *DailyWorker) nextRun() time.Time {
	now := time.Now().In(dw.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), dw.hour, 0, 0, 0, dw.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func waitStopped(wg *sync.WaitGroup, name string, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("✅ Worker stopped gracefully",
			zap.String("worker", name),
		)
	case <-time.After(timeout):
		logger.Warn("⚠️ Worker stop timeout",
			zap.String("worker", name),
		)
	}
}

// WorkerGroup manages multiple workers with graceful shutdown
type WorkerGroup struct {
	workers []runnable
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewWorkerGroup creates new worker group
func NewWorkerGroup(ctx context.Context) *WorkerGroup {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerGroup{
		workers: make([]runnable, 0),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add adds a fixed-interval worker to the group
func (wg *WorkerGroup) Add(worker Worker, interval time.Duration) {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	wg.workers = append(wg.workers, NewPeriodicWorker(worker, interval))
}

// AddDaily adds a once-a-day worker to the group
func (wg *WorkerGroup) AddDaily(worker Worker, hour int, loc *time.Location) {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	wg.workers = append(wg.workers, NewDailyWorker(worker, hour, loc))
}

// Start starts all workers
func (wg *WorkerGroup) Start() {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Start(wg.ctx)
	}

	logger.Info("🚀 Worker group started",
		zap.Int("workers", len(wg.workers)),
	)
}

// Stop stops all workers gracefully
func (wg *WorkerGroup) Stop(timeout time.Duration) {
	logger.Info("🛑 Stopping worker group...",
		zap.Int("workers", len(wg.workers)),
	)

	// Cancel context first
	wg.cancel()

	// Wait for all workers with timeout
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Stop(timeout)
	}

	logger.Info("✅ Worker group stopped")
}
