package api

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/api/shared"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/service"
)

// GenerationHandler handles generation task HTTP requests.
type GenerationHandler struct {
	generationService *service.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService *service.GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generation_handler")),
	}
}

// CreateTextToImage handles POST /api/generate/text-to-image requests.
func (h *GenerationHandler) CreateTextToImage(w http.ResponseWriter, r *http.Request) {
	var req TextToImageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := domain.TextToImageParams{
		Model:          req.Model,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Extra:          req.Params,
	}

	h.createTask(w, r, req.ShotID, domain.TaskKindTextToImage, req.Prompt, params)
}

// CreateTextToVideo handles POST /api/generate/text-to-video requests.
func (h *GenerationHandler) CreateTextToVideo(w http.ResponseWriter, r *http.Request) {
	var req TextToVideoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := domain.TextToVideoParams{
		Model:          req.Model,
		NegativePrompt: req.NegativePrompt,
		Duration:       req.Duration,
		FPS:            req.FPS,
		Extra:          req.Params,
	}

	h.createTask(w, r, req.ShotID, domain.TaskKindTextToVideo, req.Prompt, params)
}

// CreateImageToVideo handles POST /api/generate/image-to-video requests.
func (h *GenerationHandler) CreateImageToVideo(w http.ResponseWriter, r *http.Request) {
	var req ImageToVideoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := domain.ImageToVideoParams{
		Model:    req.Model,
		ImageURL: req.ImageURL,
		Duration: req.Duration,
		FPS:      req.FPS,
		Extra:    req.Params,
	}

	h.createTask(w, r, req.ShotID, domain.TaskKindImageToVideo, req.Prompt, params)
}

// createTask runs the shared creation path and writes the fire-and-forget
// acknowledgement with 202 Accepted, since execution happens asynchronously.
func (h *GenerationHandler) createTask(
	w http.ResponseWriter,
	r *http.Request,
	shotID int64,
	kind domain.TaskKind,
	prompt string,
	params domain.TaskParams,
) {
	snapshot, err := h.generationService.CreateTask(r.Context(), shotID, kind, prompt, params)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, CreateTaskResponse{
		TaskID:  snapshot.ID.String(),
		Status:  string(snapshot.Status),
		Message: "Task queued successfully",
	})
}

// GetTaskStatus handles GET /api/generate/tasks/{taskID} requests.
// The snapshot read never blocks on the task's execution unit.
func (h *GenerationHandler) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	snapshot, err := h.generationService.GetTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(snapshot))
}

// CancelTask handles POST /api/generate/tasks/{taskID}/cancel requests.
// Cancellation is asynchronous: the execution unit observes it at its next
// suspension point, so the response is 202 Accepted.
func (h *GenerationHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.generationService.CancelTask(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{
		"task_id": taskID.String(),
		"message": "Cancellation requested",
	})
}

// Estimate handles POST /api/generate/estimate requests.
func (h *GenerationHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	estimate := h.generationService.EstimateCost(domain.TaskKind(req.Kind))

	shared.RespondWithJSON(w, r, http.StatusOK, EstimateResponse{
		EstimatedTime: int(estimate.Seconds),
		EstimatedCost: estimate.Cost,
	})
}

// taskToResponse converts a domain.TaskSnapshot to a TaskStatusResponse.
func taskToResponse(snapshot domain.TaskSnapshot) TaskStatusResponse {
	return TaskStatusResponse{
		TaskID:    snapshot.ID.String(),
		Status:    string(snapshot.Status),
		Progress:  int(math.Floor(snapshot.Progress)),
		Message:   snapshot.Message,
		ResultURL: snapshot.ResultURL,
		Error:     snapshot.Error,
	}
}
