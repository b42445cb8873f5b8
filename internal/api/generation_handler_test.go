package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
	"github.com/pixcore/pixcore-api/internal/service"
	"github.com/pixcore/pixcore-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubProvider struct {
	sourceURL string
	err       error
}

func (p *stubProvider) Generate(ctx context.Context, t *domain.GenerationTask) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.sourceURL, nil
}

type stubArtifacts struct{}

func (stubArtifacts) Save(ctx context.Context, shotID int64, taskID uuid.UUID, mediaType domain.MediaType, sourceURL string) (string, error) {
	return fmt.Sprintf("/media/shots/%d/%s.%s", shotID, taskID, mediaType.Extension()), nil
}

type stubRecorder struct{}

func (stubRecorder) Record(ctx context.Context, t *domain.GenerationTask, localURL string, mediaType domain.MediaType) error {
	return nil
}

func newTestRouter(t *testing.T, provider generation.Provider) http.Handler {
	t.Helper()

	tasks := task.NewStore(task.DefaultEvictionPolicy(), testLogger())
	svc := service.NewGenerationService(
		tasks,
		func(domain.TaskKind) generation.Provider { return provider },
		stubArtifacts{},
		stubRecorder{},
		service.ModelDefaults{ImageModel: "img-model", VideoModel: "vid-model"},
		testLogger(),
	)
	handler := NewGenerationHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/generate", func(r chi.Router) {
		r.Post("/text-to-image", handler.CreateTextToImage)
		r.Post("/text-to-video", handler.CreateTextToVideo)
		r.Post("/image-to-video", handler.CreateImageToVideo)
		r.Post("/estimate", handler.Estimate)
		r.Get("/tasks/{taskID}", handler.GetTaskStatus)
		r.Post("/tasks/{taskID}/cancel", handler.CancelTask)
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGenerationHandler_CreateTask(t *testing.T) {
	t.Parallel()

	t.Run("text-to-image accepted", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{sourceURL: "https://source/out.png"})

		rec := postJSON(t, router, "/api/generate/text-to-image", map[string]any{
			"shot_id": 1,
			"prompt":  "a red barn at dusk",
		})

		require.Equal(t, http.StatusAccepted, rec.Code)
		resp := decodeBody[CreateTaskResponse](t, rec)
		assert.Equal(t, "queued", resp.Status)
		_, err := uuid.Parse(resp.TaskID)
		assert.NoError(t, err)
	})

	t.Run("missing prompt rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		rec := postJSON(t, router, "/api/generate/text-to-image", map[string]any{
			"shot_id": 1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		req := httptest.NewRequest(http.MethodPost, "/api/generate/text-to-image",
			bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image-to-video requires image_url", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		rec := postJSON(t, router, "/api/generate/image-to-video", map[string]any{
			"shot_id": 1,
			"prompt":  "animate this",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image-to-video without prompt accepted", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{sourceURL: "https://source/out.mp4"})

		rec := postJSON(t, router, "/api/generate/image-to-video", map[string]any{
			"shot_id":   1,
			"image_url": "https://example.com/a.png",
		})
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestGenerationHandler_GetTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("running task eventually succeeds", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{sourceURL: "https://source/out.png"})

		rec := postJSON(t, router, "/api/generate/text-to-image", map[string]any{
			"shot_id": 9,
			"prompt":  "a barn",
		})
		require.Equal(t, http.StatusAccepted, rec.Code)
		created := decodeBody[CreateTaskResponse](t, rec)

		var status TaskStatusResponse
		require.Eventually(t, func() bool {
			req := httptest.NewRequest(http.MethodGet, "/api/generate/tasks/"+created.TaskID, nil)
			getRec := httptest.NewRecorder()
			router.ServeHTTP(getRec, req)
			require.Equal(t, http.StatusOK, getRec.Code)
			status = decodeBody[TaskStatusResponse](t, getRec)
			return domain.TaskStatus(status.Status).IsTerminal()
		}, 5*time.Second, 5*time.Millisecond)

		assert.Equal(t, "success", status.Status)
		assert.Equal(t, 100, status.Progress)
		assert.Regexp(t, `^/media/shots/9/.+\.png$`, status.ResultURL)
	})

	t.Run("non-uuid id returns 404", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		req := httptest.NewRequest(http.MethodGet, "/api/generate/tasks/nonexistent", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		req := httptest.NewRequest(http.MethodGet, "/api/generate/tasks/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("failed task reports error detail", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{err: fmt.Errorf("model exploded")})

		rec := postJSON(t, router, "/api/generate/text-to-video", map[string]any{
			"shot_id": 1,
			"prompt":  "a barn",
		})
		require.Equal(t, http.StatusAccepted, rec.Code)
		created := decodeBody[CreateTaskResponse](t, rec)

		var status TaskStatusResponse
		require.Eventually(t, func() bool {
			req := httptest.NewRequest(http.MethodGet, "/api/generate/tasks/"+created.TaskID, nil)
			getRec := httptest.NewRecorder()
			router.ServeHTTP(getRec, req)
			status = decodeBody[TaskStatusResponse](t, getRec)
			return domain.TaskStatus(status.Status).IsTerminal()
		}, 5*time.Second, 5*time.Millisecond)

		assert.Equal(t, "failed", status.Status)
		assert.Contains(t, status.Error, "model exploded")
		assert.Empty(t, status.ResultURL)
	})
}

func TestGenerationHandler_CancelTask(t *testing.T) {
	t.Parallel()

	t.Run("unknown task returns 404", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubProvider{})

		req := httptest.NewRequest(http.MethodPost, "/api/generate/tasks/"+uuid.NewString()+"/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGenerationHandler_Estimate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubProvider{})

	cases := []struct {
		kind string
		time int
		cost float64
	}{
		{"text-to-image", 15, 0.02},
		{"text-to-video", 60, 0.10},
		{"image-to-video", 45, 0.08},
		{"something-else", 30, 0.05},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.kind, func(t *testing.T) {
			t.Parallel()

			rec := postJSON(t, router, "/api/generate/estimate", map[string]any{"kind": tc.kind})
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decodeBody[EstimateResponse](t, rec)
			assert.Equal(t, tc.time, resp.EstimatedTime)
			assert.Equal(t, tc.cost, resp.EstimatedCost)
		})
	}

	t.Run("missing kind rejected", func(t *testing.T) {
		t.Parallel()

		rec := postJSON(t, router, "/api/generate/estimate", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
