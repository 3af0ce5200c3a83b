package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/carbonforge/plinth/internal/config"
)

// Runner ties a Queue to a pool of workers. Submit is safe for concurrent
// use; Stop drains queued tasks and waits for in-flight ones.
type Runner struct {
	queue   *Queue
	workers int
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner builds a runner from the TASK configuration section.
func NewRunner(cfg config.TaskConfig, logger *slog.Logger) *Runner {
	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		queue:   NewQueue(cfg.QueueSize, logger),
		workers: workers,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.logger.Info("task runner started", "workers", r.workers, "queue_cap", cap(r.queue.tasks))
}

// Submit puts a task on the queue.
func (r *Runner) Submit(t Task) error {
	return r.queue.Enqueue(t)
}

// Stop closes the queue, lets workers finish what is queued, then cancels
// the run context.
func (r *Runner) Stop() {
	r.queue.Close()
	r.wg.Wait()
	r.cancel()
	r.logger.Info("task runner stopped")
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()
	log := r.logger.With("worker", id)
	for t := range r.queue.Channel() {
		log.Debug("task started", "task_id", t.ID(), "task_type", t.Type())
		if err := t.Execute(r.ctx); err != nil {
			log.Error("task failed", "task_id", t.ID(), "task_type", t.Type(), "error", err)
			continue
		}
		log.Debug("task completed", "task_id", t.ID(), "task_type", t.Type())
	}
}
