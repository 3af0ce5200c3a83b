package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TypeSleep identifies the placeholder task.
const TypeSleep = "sleep"

// SleepTask is the scaffolding's placeholder background task: it waits for
// its duration and returns. It exists so a freshly generated project has a
// runnable task wired through the queue and workers.
type SleepTask struct {
	id       uuid.UUID
	duration time.Duration
}

// NewSleepTask creates a sleep task with a fresh ID.
func NewSleepTask(d time.Duration) *SleepTask {
	return &SleepTask{id: uuid.New(), duration: d}
}

// ID implements Task.
func (t *SleepTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *SleepTask) Type() string { return TypeSleep }

// Execute waits for the configured duration or until ctx is canceled.
func (t *SleepTask) Execute(ctx context.Context) error {
	select {
	case <-time.After(t.duration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
