package replicate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// predictionServer fakes the Replicate predictions API: one POST creates a
// prediction, subsequent GETs walk through the scripted statuses.
type predictionServer struct {
	mu       sync.Mutex
	statuses []map[string]any
	polls    int
	created  map[string]any
	authSeen string
}

func (s *predictionServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.authSeen = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&s.created)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pred-1", "status": "starting"})
	})
	mux.HandleFunc("GET /v1/predictions/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		resp := s.statuses[len(s.statuses)-1]
		if s.polls < len(s.statuses) {
			resp = s.statuses[s.polls]
		}
		s.polls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient("test-token", testLogger(),
		WithBaseURL(srv.URL),
		WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	return client
}

func newImageTask(t *testing.T) *domain.GenerationTask {
	t.Helper()
	task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "a barn", domain.TextToImageParams{})
	require.NoError(t, err)
	require.NoError(t, task.Start("m", 10))
	return task
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", testLogger())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	client, err := NewClient("tok", testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	t.Run("succeeds with list output", func(t *testing.T) {
		t.Parallel()

		fake := &predictionServer{statuses: []map[string]any{
			{"id": "pred-1", "status": "processing"},
			{"id": "pred-1", "status": "processing"},
			{"id": "pred-1", "status": "succeeded", "output": []string{"https://replicate.delivery/out.png"}},
		}}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		client := newTestClient(t, srv)
		task := newImageTask(t)

		url, err := client.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, "https://replicate.delivery/out.png", url)
		assert.Equal(t, "Token test-token", fake.authSeen)

		// Three polls at one point each, on top of the start floor.
		assert.Equal(t, float64(13), task.Snapshot().Progress)
	})

	t.Run("succeeds with string output", func(t *testing.T) {
		t.Parallel()

		fake := &predictionServer{statuses: []map[string]any{
			{"id": "pred-1", "status": "succeeded", "output": "https://replicate.delivery/out.mp4"},
		}}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		client := newTestClient(t, srv)
		task, err := domain.NewGenerationTask(1, domain.TaskKindTextToVideo, "p", domain.TextToVideoParams{})
		require.NoError(t, err)

		url, err := client.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, "https://replicate.delivery/out.mp4", url)
	})

	t.Run("prediction failure surfaces detail", func(t *testing.T) {
		t.Parallel()

		fake := &predictionServer{statuses: []map[string]any{
			{"id": "pred-1", "status": "failed", "error": "NSFW content detected"},
		}}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		client := newTestClient(t, srv)

		_, err := client.Generate(context.Background(), newImageTask(t))
		assert.ErrorIs(t, err, generation.ErrProviderFailure)
		assert.Contains(t, err.Error(), "NSFW content detected")
	})

	t.Run("polling ceiling exhaustion times out", func(t *testing.T) {
		t.Parallel()

		fake := &predictionServer{statuses: []map[string]any{
			{"id": "pred-1", "status": "processing"},
		}}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		client := newTestClient(t, srv)
		task := newImageTask(t)

		_, err := client.Generate(context.Background(), task)
		assert.ErrorIs(t, err, generation.ErrTimeout)
		assert.Equal(t, imageMaxPolls, fake.polls)

		// Display progress never exceeds the pre-save ceiling.
		assert.LessOrEqual(t, task.Snapshot().Progress, float64(generation.ProgressCeiling))
	})

	t.Run("submit error maps to provider failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := newTestClient(t, srv)

		_, err := client.Generate(context.Background(), newImageTask(t))
		assert.ErrorIs(t, err, generation.ErrProviderFailure)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("cancellation during polling", func(t *testing.T) {
		t.Parallel()

		fake := &predictionServer{statuses: []map[string]any{
			{"id": "pred-1", "status": "processing"},
		}}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		client, err := NewClient("tok", testLogger(),
			WithBaseURL(srv.URL),
			WithPollInterval(50*time.Millisecond))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err = client.Generate(ctx, newImageTask(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_BuildInput(t *testing.T) {
	t.Parallel()

	client, err := NewClient("tok", testLogger())
	require.NoError(t, err)

	t.Run("text-to-image carries prompt and size", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "a barn",
			domain.TextToImageParams{NegativePrompt: "blurry", Width: 512, Height: 512})
		require.NoError(t, err)

		version, input, err := client.buildInput(task)
		require.NoError(t, err)
		assert.Equal(t, sdxlVersion, version)
		assert.Equal(t, "a barn", input["prompt"])
		assert.Equal(t, "blurry", input["negative_prompt"])
		assert.Equal(t, 512, input["width"])
	})

	t.Run("image-to-video requires source image", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewGenerationTask(1, domain.TaskKindImageToVideo, "",
			domain.ImageToVideoParams{ImageURL: "https://example.com/a.png"})
		require.NoError(t, err)

		version, input, err := client.buildInput(task)
		require.NoError(t, err)
		assert.Equal(t, svdVersion, version)
		assert.Equal(t, "https://example.com/a.png", input["input_image"])
	})
}
