package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaType identifies the kind of media a version holds.
type MediaType string

// Supported media types.
const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// IsValid reports whether the media type is image or video.
func (m MediaType) IsValid() bool {
	return m == MediaTypeImage || m == MediaTypeVideo
}

// Extension returns the file extension for artifacts of this media type.
func (m MediaType) Extension() string {
	if m == MediaTypeImage {
		return "png"
	}
	return "mp4"
}

// Version represents a durable media artifact attached to a shot.
//
// At most one version per shot carries IsPrimary; the first version ever
// recorded for a shot becomes primary and later versions start non-primary
// until explicitly promoted.
type Version struct {
	ID        uuid.UUID      `json:"id"`
	ShotID    int64          `json:"shot_id"`
	Type      MediaType      `json:"type"`
	URL       string         `json:"url"`
	ThumbURL  string         `json:"thumb_url,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	IsPrimary bool           `json:"is_primary"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewVersion creates a version for the given shot. The params map is the
// generation parameter snapshot recorded alongside the artifact.
// Returns an error if validation fails.
func NewVersion(shotID int64, mediaType MediaType, url, thumbURL string, params map[string]any) (*Version, error) {
	v := &Version{
		ID:        uuid.New(),
		ShotID:    shotID,
		Type:      mediaType,
		URL:       url,
		ThumbURL:  thumbURL,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks if the Version has valid data.
func (v *Version) Validate() error {
	if v.ShotID <= 0 {
		return ErrEmptyShotID
	}
	if !v.Type.IsValid() {
		return ErrInvalidMediaType
	}
	if v.URL == "" {
		return ErrValidation
	}
	return nil
}
