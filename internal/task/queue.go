package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by Queue.Enqueue.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Queue is a bounded in-process task queue.
type Queue struct {
	tasks  chan Task
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		tasks:  make(chan Task, size),
		logger: logger,
	}
}

// Enqueue adds a task for processing. It never blocks: a full queue is
// reported as ErrQueueFull so the caller can decide whether to shed or retry.
func (q *Queue) Enqueue(t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- t:
		q.logger.Debug("task enqueued",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close stops accepting tasks. Already-queued tasks are still delivered to
// workers.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
}

// Channel returns the read side of the queue for workers.
func (q *Queue) Channel() <-chan Task {
	return q.tasks
}
