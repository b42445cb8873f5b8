package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
	"github.com/pixcore/pixcore-api/internal/task"
)

// ArtifactStore persists a generated artifact to durable storage and
// returns its storage-relative address.
type ArtifactStore interface {
	Save(ctx context.Context, shotID int64, taskID uuid.UUID, mediaType domain.MediaType, sourceURL string) (string, error)
}

// VersionRecorder writes the persisted version entry for a completed task,
// applying the primary-version rule.
type VersionRecorder interface {
	Record(ctx context.Context, t *domain.GenerationTask, localURL string, mediaType domain.MediaType) error
}

// ProviderSelector returns the generation provider to use for a task kind.
type ProviderSelector func(kind domain.TaskKind) generation.Provider

// Estimate is the projected duration and cost of a generation task.
type Estimate struct {
	Seconds float64
	Cost    float64
}

// Fixed per-kind estimates; unknown kinds fall back to a middle value.
var kindEstimates = map[domain.TaskKind]Estimate{
	domain.TaskKindTextToImage:  {Seconds: 15, Cost: 0.02},
	domain.TaskKindTextToVideo:  {Seconds: 60, Cost: 0.10},
	domain.TaskKindImageToVideo: {Seconds: 45, Cost: 0.08},
}

var fallbackEstimate = Estimate{Seconds: 30, Cost: 0.05}

// Kind-specific status messages shown while a task runs.
var startMessages = map[domain.TaskKind]string{
	domain.TaskKindTextToImage:  "Generating image...",
	domain.TaskKindTextToVideo:  "Generating video...",
	domain.TaskKindImageToVideo: "Converting image to video...",
}

// startProgressFloor is the progress value a task jumps to when its
// execution unit starts, before any provider I/O.
const startProgressFloor = 10

// GenerationService orchestrates generation tasks: it creates task
// records, launches one asynchronous execution unit per task, and exposes
// status reads, cancellation and cost estimation.
//
// Each execution unit exclusively owns its task's lifecycle writes; the
// service never mutates a task outside the goroutine it launched for it.
type GenerationService struct {
	tasks       *task.Store
	providerFor ProviderSelector
	artifacts   ArtifactStore
	recorder    VersionRecorder
	defaults    ModelDefaults
	logger      *slog.Logger
}

// ModelDefaults carries the configured default model per media kind.
type ModelDefaults struct {
	ImageModel string
	VideoModel string
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(
	tasks *task.Store,
	providerFor ProviderSelector,
	artifacts ArtifactStore,
	recorder VersionRecorder,
	defaults ModelDefaults,
	logger *slog.Logger,
) *GenerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{
		tasks:       tasks,
		providerFor: providerFor,
		artifacts:   artifacts,
		recorder:    recorder,
		defaults:    defaults,
		logger:      logger.With(slog.String("component", "generation_service")),
	}
}

// CreateTask validates the request structurally, registers a queued task
// and launches its execution unit. It returns the queued snapshot
// immediately; it never waits for execution to begin.
func (s *GenerationService) CreateTask(
	ctx context.Context,
	shotID int64,
	kind domain.TaskKind,
	prompt string,
	params domain.TaskParams,
) (domain.TaskSnapshot, error) {
	params = s.withDefaultModel(kind, params)

	t, err := domain.NewGenerationTask(shotID, kind, prompt, params)
	if err != nil {
		return domain.TaskSnapshot{}, err
	}

	// The execution unit outlives the HTTP request, so it runs under its
	// own context; the store keeps the cancel function for CancelTask.
	runCtx, cancel := context.WithCancel(context.Background())

	if err := s.tasks.Put(t, cancel); err != nil {
		cancel()
		return domain.TaskSnapshot{}, err
	}

	// Snapshot before launch so callers always observe the queued state.
	snap := t.Snapshot()

	go s.run(runCtx, cancel, t)

	s.logger.Info("task created",
		slog.String("task_id", t.ID().String()),
		slog.Int64("shot_id", shotID),
		slog.String("kind", string(kind)))

	return snap, nil
}

// GetTask returns the current snapshot of a task.
// Returns task.ErrTaskNotFound for unknown ids.
func (s *GenerationService) GetTask(ctx context.Context, id uuid.UUID) (domain.TaskSnapshot, error) {
	return s.tasks.Snapshot(id)
}

// CancelTask requests cancellation of a running task.
// Returns task.ErrTaskNotFound for unknown ids and domain.ErrTaskTerminal
// when the task already finished.
func (s *GenerationService) CancelTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Cancel(id)
}

// EstimateCost returns the projected duration and cost for a task kind.
// It is a pure function of the kind: identical inputs always yield
// identical results and no state is read or written.
func (s *GenerationService) EstimateCost(kind domain.TaskKind) Estimate {
	if est, ok := kindEstimates[kind]; ok {
		return est
	}
	return fallbackEstimate
}

// withDefaultModel fills in the configured default model when the caller
// did not supply one. Caller values always win.
func (s *GenerationService) withDefaultModel(kind domain.TaskKind, params domain.TaskParams) domain.TaskParams {
	switch p := params.(type) {
	case domain.TextToImageParams:
		if p.Model == "" {
			p.Model = s.defaults.ImageModel
		}
		return p
	case domain.TextToVideoParams:
		if p.Model == "" {
			p.Model = s.defaults.VideoModel
		}
		return p
	case domain.ImageToVideoParams:
		if p.Model == "" {
			p.Model = s.defaults.VideoModel
		}
		return p
	default:
		return params
	}
}

// run is the execution unit for one task. It owns every lifecycle write
// for the task and converts all pipeline errors into the failed state at
// this boundary; nothing escapes to crash other tasks.
func (s *GenerationService) run(ctx context.Context, cancel context.CancelFunc, t *domain.GenerationTask) {
	defer cancel()

	log := s.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.Int64("shot_id", t.ShotID()),
		slog.String("kind", string(t.Kind())))

	if err := t.Start(startMessages[t.Kind()], startProgressFloor); err != nil {
		// Cancelled before the unit was scheduled.
		log.Info("task finished before start", slog.String("error", err.Error()))
		return
	}

	mediaType := t.Kind().MediaType()

	sourceURL, err := s.providerFor(t.Kind()).Generate(ctx, t)
	if err != nil {
		s.finish(log, t, err)
		return
	}

	t.SetProgress(90, "Saving result...")

	localURL, err := s.artifacts.Save(ctx, t.ShotID(), t.ID(), mediaType, sourceURL)
	if err != nil {
		s.finish(log, t, err)
		return
	}

	// Record the version only after the artifact is durably persisted.
	if err := s.recorder.Record(ctx, t, localURL, mediaType); err != nil {
		s.finish(log, t, err)
		return
	}

	if err := t.Succeed(localURL); err != nil {
		log.Warn("task completed after reaching terminal state", slog.String("error", err.Error()))
		return
	}
	log.Info("task completed", slog.String("result_url", localURL))
}

// finish converts a pipeline error into the task's terminal state:
// context cancellation becomes cancelled, everything else becomes failed
// with the error detail. Progress is left wherever it stood.
func (s *GenerationService) finish(log *slog.Logger, t *domain.GenerationTask, err error) {
	if errors.Is(err, context.Canceled) {
		if markErr := t.MarkCancelled(); markErr == nil {
			log.Info("task cancelled")
		}
		return
	}

	if failErr := t.Fail(err); failErr == nil {
		log.Error("task failed", slog.String("error", err.Error()))
	}
}
