package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/api/shared"
	"github.com/pixcore/pixcore-api/internal/service"
)

// VersionHandler handles version-management HTTP requests.
type VersionHandler struct {
	versionService *service.VersionService
	logger         *slog.Logger
}

// NewVersionHandler creates a new VersionHandler.
func NewVersionHandler(versionService *service.VersionService, logger *slog.Logger) *VersionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VersionHandler{
		versionService: versionService,
		logger:         logger.With(slog.String("component", "version_handler")),
	}
}

// GetVersion handles GET /api/versions/{versionID} requests.
func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := uuid.Parse(chi.URLParam(r, "versionID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Version not found")
		return
	}

	version, err := h.versionService.GetVersion(r.Context(), versionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, version)
}

// ListShotVersions handles GET /api/shots/{shotID}/versions requests.
func (h *VersionHandler) ListShotVersions(w http.ResponseWriter, r *http.Request) {
	shotID, err := strconv.ParseInt(chi.URLParam(r, "shotID"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Shot not found")
		return
	}

	versions, err := h.versionService.ListByShot(r.Context(), shotID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, versions)
}

// SetPrimary handles POST /api/versions/{versionID}/set-primary requests.
func (h *VersionHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	versionID, err := uuid.Parse(chi.URLParam(r, "versionID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Version not found")
		return
	}

	version, err := h.versionService.SetPrimary(r.Context(), versionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, version)
}

// DeleteVersion handles DELETE /api/versions/{versionID} requests.
// Deleting a primary version is rejected with 409.
func (h *VersionHandler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := uuid.Parse(chi.URLParam(r, "versionID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Version not found")
		return
	}

	if err := h.versionService.DeleteVersion(r.Context(), versionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
