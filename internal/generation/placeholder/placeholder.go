// Package placeholder implements a deterministic stand-in provider used
// when no generation backend is configured. It produces reproducible
// placeholder URLs and simulates generation latency so callers exercise
// the same polling UX as the real path.
package placeholder

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
)

// SampleVideoURL is the fixed placeholder artifact for video tasks.
const SampleVideoURL = "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4"

// Provider synthesizes placeholder media. For images the output is a
// stable pseudo-random picsum URL seeded by a hash of the prompt; for
// video it is a fixed sample clip.
type Provider struct {
	delayUnit time.Duration
	logger    *slog.Logger
}

// NewProvider creates a placeholder provider. delayUnit scales the
// simulated latency; production uses one second, tests inject less.
func NewProvider(delayUnit time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		delayUnit: delayUnit,
		logger:    logger.With(slog.String("component", "placeholder_provider")),
	}
}

var _ generation.Provider = (*Provider)(nil)

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, task *domain.GenerationTask) (string, error) {
	p.logger.Warn("no generation API configured, using placeholder",
		slog.String("task_id", task.ID().String()),
		slog.String("kind", string(task.Kind())))

	if task.Kind() == domain.TaskKindTextToImage {
		return p.generateImage(ctx, task)
	}
	return p.generateVideo(ctx, task)
}

// generateImage sleeps through two phases with a progress bump between
// them, then derives a reproducible placeholder URL from the prompt.
func (p *Provider) generateImage(ctx context.Context, task *domain.GenerationTask) (string, error) {
	if err := generation.Sleep(ctx, 2*p.delayUnit); err != nil {
		return "", err
	}
	task.SetProgress(50, "")
	if err := generation.Sleep(ctx, p.delayUnit); err != nil {
		return "", err
	}

	sum := md5.Sum([]byte(task.Prompt()))
	seed := hex.EncodeToString(sum[:])[:8]

	width, height := domain.DefaultImageSize, domain.DefaultImageSize
	if params, ok := task.Params().(domain.TextToImageParams); ok {
		width, height = params.Size()
	}

	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", seed, width, height), nil
}

func (p *Provider) generateVideo(ctx context.Context, task *domain.GenerationTask) (string, error) {
	if err := generation.Sleep(ctx, 3*p.delayUnit); err != nil {
		return "", err
	}
	task.SetProgress(50, "")
	if err := generation.Sleep(ctx, 2*p.delayUnit); err != nil {
		return "", err
	}

	return SampleVideoURL, nil
}
