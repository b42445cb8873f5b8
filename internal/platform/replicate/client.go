// Package replicate implements the generation.Provider interface against
// the Replicate predictions API. A generation request is submitted as a
// prediction, then polled at a fixed interval until it reaches a terminal
// state or the polling ceiling for the task kind is exhausted.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
)

// DefaultBaseURL is the production Replicate API endpoint.
const DefaultBaseURL = "https://api.replicate.com"

// Model version identifiers on Replicate.
const (
	sdxlVersion = "39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"
	svdVersion  = "3f0457e4619daac51203dedb472816fd4af51f3149fa7a9e0b5ffcf1b8172438"
)

// Polling ceilings per task kind. Image predictions typically complete
// within two minutes; video predictions get five.
const (
	imageMaxPolls = 120
	videoMaxPolls = 300
)

// Display progress advances per poll, capped at generation.ProgressCeiling.
const (
	imageProgressPerPoll = 1.0
	videoProgressPerPoll = 0.5
)

// Client talks to the Replicate predictions API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a local
// httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPollInterval overrides the delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

// NewClient creates a Replicate client.
// Returns generation.ErrInvalidConfig if the API token is empty.
func NewClient(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: replicate API token cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      DefaultBaseURL,
		token:        token,
		pollInterval: time.Second,
		logger:       logger.With(slog.String("component", "replicate_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ generation.Provider = (*Client)(nil)

// prediction is the subset of the Replicate prediction resource we read.
type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// Generate implements generation.Provider. It submits a prediction for the
// task and polls it at the configured interval, nudging the task's display
// progress on every poll.
func (c *Client) Generate(ctx context.Context, task *domain.GenerationTask) (string, error) {
	version, input, err := c.buildInput(task)
	if err != nil {
		return "", err
	}

	pred, err := c.createPrediction(ctx, version, input)
	if err != nil {
		return "", err
	}

	maxPolls := videoMaxPolls
	progressPerPoll := videoProgressPerPoll
	if task.Kind() == domain.TaskKindTextToImage {
		maxPolls = imageMaxPolls
		progressPerPoll = imageProgressPerPoll
	}

	log := c.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("prediction_id", pred.ID))
	log.Info("prediction submitted", slog.String("kind", string(task.Kind())))

	for i := 0; i < maxPolls; i++ {
		if err := generation.Sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}
		task.AdvanceProgress(progressPerPoll, generation.ProgressCeiling)

		current, err := c.getPrediction(ctx, pred.ID)
		if err != nil {
			return "", err
		}

		switch current.Status {
		case "succeeded":
			url, err := outputURL(current.Output)
			if err != nil {
				return "", err
			}
			log.Info("prediction succeeded", slog.Int("polls", i+1))
			return url, nil
		case "failed", "canceled":
			detail := current.Error
			if detail == "" {
				detail = "generation failed"
			}
			log.Warn("prediction failed", slog.String("detail", detail))
			return "", fmt.Errorf("%w: %s", generation.ErrProviderFailure, detail)
		}
	}

	log.Warn("prediction polling ceiling exhausted", slog.Int("max_polls", maxPolls))
	return "", generation.ErrTimeout
}

// buildInput maps the task's kind and parameters onto a model version and
// prediction input payload.
func (c *Client) buildInput(task *domain.GenerationTask) (string, map[string]any, error) {
	switch params := task.Params().(type) {
	case domain.TextToImageParams:
		width, height := params.Size()
		return sdxlVersion, map[string]any{
			"prompt":          task.Prompt(),
			"negative_prompt": params.NegativePrompt,
			"width":           width,
			"height":          height,
		}, nil
	case domain.TextToVideoParams:
		return svdVersion, map[string]any{
			"prompt": task.Prompt(),
		}, nil
	case domain.ImageToVideoParams:
		if params.ImageURL == "" {
			return "", nil, domain.ErrMissingSourceImage
		}
		return svdVersion, map[string]any{
			"input_image": params.ImageURL,
		}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", generation.ErrUnsupportedKind, task.Kind())
	}
}

func (c *Client) createPrediction(ctx context.Context, version string, input map[string]any) (*prediction, error) {
	body, err := json.Marshal(map[string]any{
		"version": version,
		"input":   input,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.doPrediction(req)
}

func (c *Client) getPrediction(ctx context.Context, id string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)

	return c.doPrediction(req)
}

func (c *Client) doPrediction(req *http.Request) (*prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: replicate returned %d: %s",
			generation.ErrProviderFailure, resp.StatusCode, bytes.TrimSpace(body))
	}

	var pred prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return &pred, nil
}

// outputURL extracts the artifact URL from a prediction output, which is
// either a bare string or an array whose first element is the URL.
func outputURL(raw json.RawMessage) (string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], nil
	}

	return "", fmt.Errorf("%w: prediction output missing", generation.ErrInvalidResponse)
}
