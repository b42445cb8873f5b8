package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/domain"
)

// Common task store errors.
var (
	// ErrTaskNotFound is returned when the requested task id is unknown.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStoreFull is returned when the store is at capacity and no
	// terminal task can be evicted to make room.
	ErrStoreFull = errors.New("task store is full")
)

// EvictionPolicy controls how the in-memory task table bounds its growth.
// The original design kept tasks for the process lifetime; the policy makes
// retention explicit so long-running processes do not leak memory.
type EvictionPolicy struct {
	// MaxTasks caps the number of retained tasks. Exceeding the cap
	// evicts the oldest-finished terminal tasks first.
	MaxTasks int

	// TerminalTTL is how long a terminal task stays queryable before the
	// sweeper removes it.
	TerminalTTL time.Duration

	// SweepInterval is how often the sweeper runs. If zero, defaults to
	// one minute.
	SweepInterval time.Duration
}

// DefaultEvictionPolicy returns an EvictionPolicy with reasonable defaults.
func DefaultEvictionPolicy() EvictionPolicy {
	return EvictionPolicy{
		MaxTasks:      1000,
		TerminalTTL:   time.Hour,
		SweepInterval: time.Minute,
	}
}

// entry pairs a task with the cancel function of its execution unit.
type entry struct {
	task   *domain.GenerationTask
	cancel context.CancelFunc

	// finishedAt is set by the sweeper the first time it observes the
	// task in a terminal state; the TTL counts from there.
	finishedAt time.Time
}

// Store is the process-wide task table. The map lock is held only for the
// lookup; the returned snapshot is an immutable copy. Running tasks are
// never evicted.
type Store struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*entry
	policy EvictionPolicy
	logger *slog.Logger

	sweepCtx    context.Context
	sweepCancel context.CancelFunc
	wg          sync.WaitGroup
}

// NewStore creates a task store with the given eviction policy.
func NewStore(policy EvictionPolicy, logger *slog.Logger) *Store {
	if policy.SweepInterval == 0 {
		policy.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Store{
		tasks:       make(map[uuid.UUID]*entry),
		policy:      policy,
		logger:      logger.With(slog.String("component", "task_store")),
		sweepCtx:    ctx,
		sweepCancel: cancel,
	}
}

// Start launches the background sweeper.
func (s *Store) Start() {
	s.wg.Add(1)
	go s.sweeper()
}

// Stop shuts the sweeper down and waits for it to exit.
func (s *Store) Stop() {
	s.sweepCancel()
	s.wg.Wait()
}

// Put registers a task and the cancel function of its execution unit.
// Returns ErrStoreFull when the store is at capacity and eviction cannot
// make room.
func (s *Store) Put(task *domain.GenerationTask, cancel context.CancelFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) >= s.policy.MaxTasks {
		if evicted := s.evictOldestTerminalLocked(len(s.tasks) - s.policy.MaxTasks + 1); evicted == 0 {
			return fmt.Errorf("%w: %d tasks retained, none evictable", ErrStoreFull, len(s.tasks))
		}
	}

	s.tasks[task.ID()] = &entry{task: task, cancel: cancel}
	return nil
}

// Get returns the live task for id. Most callers want Snapshot instead;
// Get exists for the execution unit and for tests.
func (s *Store) Get(id uuid.UUID) (*domain.GenerationTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	return e.task, true
}

// Snapshot returns a copy of the task's observable state.
// Returns ErrTaskNotFound for unknown ids.
func (s *Store) Snapshot(id uuid.UUID) (domain.TaskSnapshot, error) {
	s.mu.RLock()
	e, ok := s.tasks[id]
	s.mu.RUnlock()
	if !ok {
		return domain.TaskSnapshot{}, ErrTaskNotFound
	}
	return e.task.Snapshot(), nil
}

// Cancel signals the task's execution unit to stop. The unit observes the
// cancellation at its next suspension point and moves the task to the
// cancelled terminal state.
// Returns ErrTaskNotFound for unknown ids and domain.ErrTaskTerminal when
// the task already finished.
func (s *Store) Cancel(id uuid.UUID) error {
	s.mu.RLock()
	e, ok := s.tasks[id]
	s.mu.RUnlock()
	if !ok {
		return ErrTaskNotFound
	}
	if e.task.Status().IsTerminal() {
		return domain.ErrTaskTerminal
	}
	e.cancel()
	return nil
}

// Len returns the number of retained tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// sweeper periodically stamps newly terminal tasks and evicts those whose
// TTL expired.
func (s *Store) sweeper() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.policy.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepCtx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep performs one eviction pass. Exported indirectly through the ticker;
// tests call it with a synthetic clock value.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.tasks {
		if !e.task.Status().IsTerminal() {
			continue
		}
		if e.finishedAt.IsZero() {
			e.finishedAt = now
			continue
		}
		if now.Sub(e.finishedAt) >= s.policy.TerminalTTL {
			delete(s.tasks, id)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Debug("evicted expired tasks",
			slog.Int("evicted", evicted),
			slog.Int("retained", len(s.tasks)))
	}
}

// evictOldestTerminalLocked removes up to n terminal tasks, oldest
// creation time first. Callers must hold the write lock.
func (s *Store) evictOldestTerminalLocked(n int) int {
	type candidate struct {
		id        uuid.UUID
		createdAt time.Time
	}

	var candidates []candidate
	for id, e := range s.tasks {
		if e.task.Status().IsTerminal() {
			candidates = append(candidates, candidate{id: id, createdAt: e.task.CreatedAt()})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].createdAt.Before(candidates[j].createdAt)
	})

	evicted := 0
	for _, c := range candidates {
		if evicted >= n {
			break
		}
		delete(s.tasks, c.id)
		evicted++
	}

	if evicted > 0 {
		s.logger.Debug("evicted terminal tasks to make room",
			slog.Int("evicted", evicted),
			slog.Int("retained", len(s.tasks)))
	}
	return evicted
}
