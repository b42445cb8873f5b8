package placeholder

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixcore/pixcore-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_GenerateImage(t *testing.T) {
	t.Parallel()

	p := NewProvider(time.Millisecond, testLogger())

	t.Run("same prompt yields same url", func(t *testing.T) {
		t.Parallel()

		task1, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "a red barn", domain.TextToImageParams{})
		require.NoError(t, err)
		task2, err := domain.NewGenerationTask(2, domain.TaskKindTextToImage, "a red barn", domain.TextToImageParams{})
		require.NoError(t, err)

		url1, err := p.Generate(context.Background(), task1)
		require.NoError(t, err)
		url2, err := p.Generate(context.Background(), task2)
		require.NoError(t, err)

		assert.Equal(t, url1, url2)

		sum := md5.Sum([]byte("a red barn"))
		seed := hex.EncodeToString(sum[:])[:8]
		assert.Equal(t, fmt.Sprintf("https://picsum.photos/seed/%s/1024/1024", seed), url1)
	})

	t.Run("different prompts yield different urls", func(t *testing.T) {
		t.Parallel()

		task1, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "a red barn", domain.TextToImageParams{})
		require.NoError(t, err)
		task2, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "a blue barn", domain.TextToImageParams{})
		require.NoError(t, err)

		url1, err := p.Generate(context.Background(), task1)
		require.NoError(t, err)
		url2, err := p.Generate(context.Background(), task2)
		require.NoError(t, err)

		assert.NotEqual(t, url1, url2)
	})

	t.Run("requested resolution is honored", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "p",
			domain.TextToImageParams{Width: 512, Height: 768})
		require.NoError(t, err)

		url, err := p.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.Contains(t, url, "/512/768")
	})

	t.Run("progress is bumped mid-generation", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "p", domain.TextToImageParams{})
		require.NoError(t, err)
		require.NoError(t, task.Start("m", 10))

		_, err = p.Generate(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, float64(50), task.Snapshot().Progress)
	})
}

func TestProvider_GenerateVideo(t *testing.T) {
	t.Parallel()

	p := NewProvider(time.Millisecond, testLogger())

	for _, kind := range []domain.TaskKind{domain.TaskKindTextToVideo, domain.TaskKindImageToVideo} {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			var params domain.TaskParams = domain.TextToVideoParams{}
			if kind == domain.TaskKindImageToVideo {
				params = domain.ImageToVideoParams{ImageURL: "https://example.com/a.png"}
			}

			task, err := domain.NewGenerationTask(1, kind, "p", params)
			require.NoError(t, err)

			url, err := p.Generate(context.Background(), task)
			require.NoError(t, err)
			assert.Equal(t, SampleVideoURL, url)
		})
	}
}

func TestProvider_GenerateCancellation(t *testing.T) {
	t.Parallel()

	p := NewProvider(time.Second, testLogger())

	task, err := domain.NewGenerationTask(1, domain.TaskKindTextToImage, "p", domain.TextToImageParams{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Generate(ctx, task)
	assert.ErrorIs(t, err, context.Canceled)
}
