package task

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carbonforge/plinth/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countTask increments a counter when executed.
type countTask struct {
	id    uuid.UUID
	count *atomic.Int32
	err   error
}

func newCountTask(count *atomic.Int32) *countTask {
	return &countTask{id: uuid.New(), count: count}
}

func (t *countTask) ID() uuid.UUID { return t.id }
func (t *countTask) Type() string  { return "count" }

func (t *countTask) Execute(ctx context.Context) error {
	t.count.Add(1)
	return t.err
}

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	r := NewRunner(config.TaskConfig{QueueSize: 8, WorkerCount: 2}, testLogger())
	r.Start()

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Submit(newCountTask(&count)))
	}

	r.Stop()
	assert.Equal(t, int32(5), count.Load(), "all queued tasks run before Stop returns")
}

func TestRunnerContinuesAfterTaskFailure(t *testing.T) {
	r := NewRunner(config.TaskConfig{QueueSize: 4, WorkerCount: 1}, testLogger())
	r.Start()

	var count atomic.Int32
	failing := newCountTask(&count)
	failing.err = context.DeadlineExceeded
	require.NoError(t, r.Submit(failing))
	require.NoError(t, r.Submit(newCountTask(&count)))

	r.Stop()
	assert.Equal(t, int32(2), count.Load(), "a failing task does not stop the worker")
}

func TestSubmitAfterStop(t *testing.T) {
	r := NewRunner(config.TaskConfig{QueueSize: 1, WorkerCount: 1}, testLogger())
	r.Start()
	r.Stop()

	err := r.Submit(NewSleepTask(time.Millisecond))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1, testLogger())
	require.NoError(t, q.Enqueue(NewSleepTask(time.Millisecond)))

	err := q.Enqueue(NewSleepTask(time.Millisecond))
	assert.ErrorIs(t, err, ErrQueueFull, "enqueue never blocks on a full queue")
}

func TestSleepTask(t *testing.T) {
	s := NewSleepTask(time.Millisecond)
	assert.Equal(t, TypeSleep, s.Type())
	assert.NotEqual(t, uuid.Nil, s.ID())
	require.NoError(t, s.Execute(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewSleepTask(time.Minute).Execute(ctx), context.Canceled)
}
