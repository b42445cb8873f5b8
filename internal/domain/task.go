package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskKind identifies the generation operation a task performs.
type TaskKind string

// Supported task kinds.
const (
	TaskKindTextToImage  TaskKind = "text-to-image"
	TaskKindTextToVideo  TaskKind = "text-to-video"
	TaskKindImageToVideo TaskKind = "image-to-video"
)

// IsValid reports whether the kind is a member of the supported set.
func (k TaskKind) IsValid() bool {
	switch k {
	case TaskKindTextToImage, TaskKindTextToVideo, TaskKindImageToVideo:
		return true
	default:
		return false
	}
}

// MediaType returns the media type the kind produces.
func (k TaskKind) MediaType() MediaType {
	if k == TaskKindTextToImage {
		return MediaTypeImage
	}
	return MediaTypeVideo
}

// TaskStatus represents the lifecycle state of a generation task.
type TaskStatus string

// Possible task status values. Success, failed and cancelled are terminal.
const (
	TaskStatusQueued    TaskStatus = "queued"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSuccess   TaskStatus = "success"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// IsTerminal reports whether the status is a final state.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusSuccess, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// GenerationTask represents one in-flight or completed generation request.
//
// The mutable lifecycle fields (status, progress, message, result, error)
// are owned by the execution unit that runs the task; all access goes
// through the mutex-guarded methods below so the single-writer contract is
// enforced by the type rather than by convention. Readers take Snapshot
// copies and never block the execution unit for longer than a field copy.
type GenerationTask struct {
	id        uuid.UUID
	shotID    int64
	kind      TaskKind
	prompt    string
	params    TaskParams
	createdAt time.Time

	mu        sync.Mutex
	status    TaskStatus
	progress  float64
	message   string
	resultURL string
	errDetail string
}

// TaskSnapshot is an immutable copy of a task's observable state.
type TaskSnapshot struct {
	ID        uuid.UUID
	ShotID    int64
	Kind      TaskKind
	Prompt    string
	Status    TaskStatus
	Progress  float64
	Message   string
	ResultURL string
	Error     string
	CreatedAt time.Time
}

// NewGenerationTask creates a queued task with a fresh id.
// Returns an error if the shot id, kind or parameters are invalid.
func NewGenerationTask(shotID int64, kind TaskKind, prompt string, params TaskParams) (*GenerationTask, error) {
	if shotID <= 0 {
		return nil, ErrEmptyShotID
	}
	if !kind.IsValid() {
		return nil, ErrInvalidTaskKind
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &GenerationTask{
		id:        uuid.New(),
		shotID:    shotID,
		kind:      kind,
		prompt:    prompt,
		params:    params,
		createdAt: time.Now().UTC(),
		status:    TaskStatusQueued,
		message:   "Task queued",
	}, nil
}

// ID returns the task's unique identifier.
func (t *GenerationTask) ID() uuid.UUID { return t.id }

// ShotID returns the owning shot's identifier.
func (t *GenerationTask) ShotID() int64 { return t.shotID }

// Kind returns the task kind.
func (t *GenerationTask) Kind() TaskKind { return t.kind }

// Prompt returns the prompt text. May be empty for image-to-video tasks.
func (t *GenerationTask) Prompt() string { return t.prompt }

// Params returns the task's generation parameters.
func (t *GenerationTask) Params() TaskParams { return t.params }

// CreatedAt returns the task creation timestamp.
func (t *GenerationTask) CreatedAt() time.Time { return t.createdAt }

// Snapshot returns a copy of the task's current observable state.
func (t *GenerationTask) Snapshot() TaskSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TaskSnapshot{
		ID:        t.id,
		ShotID:    t.shotID,
		Kind:      t.kind,
		Prompt:    t.prompt,
		Status:    t.status,
		Progress:  t.progress,
		Message:   t.message,
		ResultURL: t.resultURL,
		Error:     t.errDetail,
		CreatedAt: t.createdAt,
	}
}

// Start transitions the task from queued to running with an initial
// progress floor and a kind-specific status message.
// Returns ErrTaskTerminal if the task already finished.
func (t *GenerationTask) Start(message string, progressFloor float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return ErrTaskTerminal
	}
	t.status = TaskStatusRunning
	t.message = message
	if progressFloor > t.progress {
		t.progress = progressFloor
	}
	return nil
}

// SetProgress raises the task's progress to the given value. Progress is
// monotonically non-decreasing; lower values are ignored. No-op once the
// task is terminal.
func (t *GenerationTask) SetProgress(progress float64, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return
	}
	if progress > t.progress {
		t.progress = progress
	}
	if message != "" {
		t.message = message
	}
}

// AdvanceProgress adds delta to the task's progress, capped at ceiling.
// No-op once the task is terminal.
func (t *GenerationTask) AdvanceProgress(delta, ceiling float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return
	}
	next := t.progress + delta
	if next > ceiling {
		next = ceiling
	}
	if next > t.progress {
		t.progress = next
	}
}

// Succeed marks the task successful with the persisted result location.
// Progress is forced to 100.
func (t *GenerationTask) Succeed(resultURL string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return ErrTaskTerminal
	}
	t.status = TaskStatusSuccess
	t.progress = 100
	t.resultURL = resultURL
	t.message = "Generation completed"
	return nil
}

// Fail marks the task failed with the error detail. Progress is left
// wherever it stood.
func (t *GenerationTask) Fail(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return ErrTaskTerminal
	}
	t.status = TaskStatusFailed
	t.errDetail = err.Error()
	t.message = "Generation failed: " + err.Error()
	return nil
}

// MarkCancelled moves the task to the cancelled terminal state.
func (t *GenerationTask) MarkCancelled() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return ErrTaskTerminal
	}
	t.status = TaskStatusCancelled
	t.message = "Generation cancelled"
	return nil
}

// Status returns the task's current lifecycle state.
func (t *GenerationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
