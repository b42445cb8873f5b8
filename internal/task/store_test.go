package task

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcore/pixcore-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTask(t *testing.T) *domain.GenerationTask {
	t.Helper()
	task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "p", domain.TextToImageParams{})
	require.NoError(t, err)
	return task
}

func TestStore_PutAndSnapshot(t *testing.T) {
	t.Parallel()

	s := NewStore(DefaultEvictionPolicy(), testLogger())

	task := newTestTask(t)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Put(task, cancel))

	snap, err := s.Snapshot(task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.ID(), snap.ID)
	assert.Equal(t, domain.TaskStatusQueued, snap.Status)

	_, err = s.Snapshot(uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestStore_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("invokes the cancel function", func(t *testing.T) {
		t.Parallel()

		s := NewStore(DefaultEvictionPolicy(), testLogger())
		task := newTestTask(t)
		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Put(task, cancel))

		require.NoError(t, s.Cancel(task.ID()))

		select {
		case <-ctx.Done():
		default:
			t.Fatal("expected execution context to be cancelled")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		s := NewStore(DefaultEvictionPolicy(), testLogger())
		assert.ErrorIs(t, s.Cancel(uuid.New()), ErrTaskNotFound)
	})

	t.Run("terminal task", func(t *testing.T) {
		t.Parallel()

		s := NewStore(DefaultEvictionPolicy(), testLogger())
		task := newTestTask(t)
		_, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Put(task, cancel))
		require.NoError(t, task.Succeed("/media/shots/1/a.png"))

		assert.ErrorIs(t, s.Cancel(task.ID()), domain.ErrTaskTerminal)
	})
}

func TestStore_CapacityEviction(t *testing.T) {
	t.Parallel()

	policy := DefaultEvictionPolicy()
	policy.MaxTasks = 2
	s := NewStore(policy, testLogger())

	first := newTestTask(t)
	second := newTestTask(t)
	noop := func() {}
	require.NoError(t, s.Put(first, noop))
	require.NoError(t, s.Put(second, noop))

	t.Run("full store with only running tasks rejects", func(t *testing.T) {
		err := s.Put(newTestTask(t), noop)
		assert.ErrorIs(t, err, ErrStoreFull)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("terminal task is evicted to make room", func(t *testing.T) {
		require.NoError(t, first.Succeed("/media/shots/1/a.png"))

		third := newTestTask(t)
		require.NoError(t, s.Put(third, noop))

		assert.Equal(t, 2, s.Len())
		_, err := s.Snapshot(first.ID())
		assert.ErrorIs(t, err, ErrTaskNotFound)
		_, err = s.Snapshot(third.ID())
		assert.NoError(t, err)
	})
}

func TestStore_Sweep(t *testing.T) {
	t.Parallel()

	policy := DefaultEvictionPolicy()
	policy.TerminalTTL = time.Hour
	s := NewStore(policy, testLogger())

	running := newTestTask(t)
	finished := newTestTask(t)
	noop := func() {}
	require.NoError(t, s.Put(running, noop))
	require.NoError(t, s.Put(finished, noop))
	require.NoError(t, finished.Fail(fmt.Errorf("boom")))

	base := time.Now()

	// First pass stamps the finish time, nothing is evicted yet.
	s.sweep(base)
	assert.Equal(t, 2, s.Len())

	// Before the TTL elapses the task is still queryable.
	s.sweep(base.Add(30 * time.Minute))
	assert.Equal(t, 2, s.Len())

	// After the TTL the terminal task goes; the running one stays.
	s.sweep(base.Add(2 * time.Hour))
	assert.Equal(t, 1, s.Len())

	_, err := s.Snapshot(finished.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = s.Snapshot(running.ID())
	assert.NoError(t, err)
}

func TestStore_StartStop(t *testing.T) {
	t.Parallel()

	policy := DefaultEvictionPolicy()
	policy.SweepInterval = 10 * time.Millisecond
	s := NewStore(policy, testLogger())

	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
