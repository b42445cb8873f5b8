package service

import (
	"context"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/store"
)

// ShotService is the minimal shot collaborator surface: enough record
// management to own versions and anchor generation tasks.
type ShotService struct {
	shots store.ShotStore
}

// NewShotService creates a ShotService.
func NewShotService(shots store.ShotStore) *ShotService {
	return &ShotService{shots: shots}
}

// CreateShot persists a new shot with pending status.
func (s *ShotService) CreateShot(ctx context.Context, prompt, negativePrompt string, duration float64) (*domain.Shot, error) {
	if duration <= 0 {
		duration = 5.0
	}
	shot := &domain.Shot{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		Duration:       duration,
		Status:         "pending",
	}
	if err := s.shots.Create(ctx, shot); err != nil {
		return nil, err
	}
	return shot, nil
}

// GetShot retrieves a shot by id.
func (s *ShotService) GetShot(ctx context.Context, id int64) (*domain.Shot, error) {
	return s.shots.GetByID(ctx, id)
}
