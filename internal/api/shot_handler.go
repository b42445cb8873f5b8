package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pixcore/pixcore-api/internal/api/shared"
	"github.com/pixcore/pixcore-api/internal/service"
)

// ShotHandler handles shot HTTP requests.
type ShotHandler struct {
	shotService *service.ShotService
	logger      *slog.Logger
}

// NewShotHandler creates a new ShotHandler.
func NewShotHandler(shotService *service.ShotService, logger *slog.Logger) *ShotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShotHandler{
		shotService: shotService,
		logger:      logger.With(slog.String("component", "shot_handler")),
	}
}

// CreateShot handles POST /api/shots requests.
func (h *ShotHandler) CreateShot(w http.ResponseWriter, r *http.Request) {
	var req CreateShotRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	shot, err := h.shotService.CreateShot(r.Context(), req.Prompt, req.NegativePrompt, req.Duration)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, shot)
}

// GetShot handles GET /api/shots/{shotID} requests.
func (h *ShotHandler) GetShot(w http.ResponseWriter, r *http.Request) {
	shotID, err := strconv.ParseInt(chi.URLParam(r, "shotID"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Shot not found")
		return
	}

	shot, err := h.shotService.GetShot(r.Context(), shotID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shot)
}
