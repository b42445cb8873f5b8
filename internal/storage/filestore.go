// Package storage persists generated media artifacts to durable local
// storage. Artifacts are partitioned by shot id and addressed by a
// storage-relative /media URL that the HTTP layer serves statically.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/platform/logger"
)

// downloadTimeout bounds a single artifact fetch. Generous because video
// outputs can be tens of megabytes from slow origins.
const downloadTimeout = 60 * time.Second

// FileStore writes artifacts beneath a root directory.
type FileStore struct {
	root       string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFileStore creates a FileStore rooted at root, creating the directory
// if needed.
func NewFileStore(root string, log *slog.Logger) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &FileStore{
		root: root,
		// Redirects are followed by default; providers commonly serve
		// artifacts from redirecting CDN URLs.
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     log.With(slog.String("component", "file_store")),
	}, nil
}

// Root returns the storage root directory.
func (s *FileStore) Root() string { return s.root }

// Save downloads the artifact at sourceURL and writes it under the shot's
// storage directory as {taskID}_{timestamp}.{ext}. It returns the
// storage-relative address (/media/shots/{shotID}/{filename}) for later
// retrieval, never the absolute filesystem path.
// Fetch and write failures are propagated, not swallowed.
func (s *FileStore) Save(
	ctx context.Context,
	shotID int64,
	taskID uuid.UUID,
	mediaType domain.MediaType,
	sourceURL string,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	shotDir := filepath.Join(s.root, "shots", strconv.FormatInt(shotID, 10))
	if err := os.MkdirAll(shotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create shot directory: %w", err)
	}

	content, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", taskID, timestamp, mediaType.Extension())

	path := filepath.Join(shotDir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	log.Info("artifact persisted",
		slog.String("task_id", taskID.String()),
		slog.Int64("shot_id", shotID),
		slog.Int("bytes", len(content)))

	return fmt.Sprintf("/media/shots/%d/%s", shotID, filename), nil
}

// fetch retrieves the artifact bytes. http(s) URLs are downloaded; data:
// URLs (inline provider output) are decoded in place.
func (s *FileStore) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	if strings.HasPrefix(sourceURL, "data:") {
		return decodeDataURL(sourceURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact URL: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("artifact download returned status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	return content, nil
}

// decodeDataURL extracts the base64 payload of a data: URL.
func decodeDataURL(url string) ([]byte, error) {
	_, payload, found := strings.Cut(url, ",")
	if !found {
		return nil, fmt.Errorf("malformed data URL")
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return content, nil
}
