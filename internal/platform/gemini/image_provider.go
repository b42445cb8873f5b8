// Package gemini provides a generation provider backed by Google's Gemini
// API. Gemini returns image bytes inline rather than an operation to poll,
// so the provider hands the artifact back as a data: URL that the storage
// layer decodes directly.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
	"google.golang.org/genai"
)

// ImageProvider implements generation.Provider for text-to-image tasks
// using the Gemini API.
type ImageProvider struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewImageProvider creates a new ImageProvider.
//
// Parameters:
//   - ctx: Context for client initialization, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - apiKey: Gemini API key
//   - model: Name of the image-capable Gemini model to use
//
// Returns a properly initialized ImageProvider or an error if initialization fails.
func NewImageProvider(ctx context.Context, logger *slog.Logger, apiKey, model string) (*ImageProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &ImageProvider{
		logger: logger.With(slog.String("component", "gemini_image_provider")),
		client: client,
		model:  model,
	}, nil
}

var _ generation.Provider = (*ImageProvider)(nil)

// Generate implements generation.Provider. Only text-to-image tasks are
// supported; video kinds must go to another provider.
func (p *ImageProvider) Generate(ctx context.Context, task *domain.GenerationTask) (string, error) {
	if task.Kind() != domain.TaskKindTextToImage {
		return "", fmt.Errorf("%w: gemini provider only serves %s",
			generation.ErrUnsupportedKind, domain.TaskKindTextToImage)
	}

	p.logger.InfoContext(ctx, "making Gemini image generation call",
		"task_id", task.ID(),
		"model", p.model)

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(task.Prompt()), config)
	if err != nil {
		p.logger.ErrorContext(ctx, "Gemini API call error",
			"error", err,
			"task_id", task.ID())
		return "", fmt.Errorf("%w: %v", generation.ErrProviderFailure, err)
	}

	task.AdvanceProgress(generation.ProgressCeiling, generation.ProgressCeiling)

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
			return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
		}
	}

	return "", fmt.Errorf("%w: response contained no image data", generation.ErrInvalidResponse)
}
