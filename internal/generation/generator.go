package generation

import (
	"context"
	"time"

	"github.com/pixcore/pixcore-api/internal/domain"
)

// Provider produces a source URL for a task's generated media. The URL may
// be an http(s) location to download from or a data: URL carrying inline
// bytes; internal/storage persists either.
//
// Generate runs inside the task's execution unit and owns the task's
// progress fields for the duration of the call: implementations report
// display progress through AdvanceProgress/SetProgress and must observe
// ctx at every suspension point so cancellation lands promptly.
type Provider interface {
	Generate(ctx context.Context, task *domain.GenerationTask) (sourceURL string, err error)
}

// ProgressCeiling is the soft ceiling providers advance display progress
// toward while waiting on the backend; the remaining range is reserved for
// artifact persistence and completion.
const ProgressCeiling = 85

// Sleep pauses for d or until ctx is cancelled, whichever comes first.
// Returns ctx.Err() when the context ended the sleep. Providers use this
// for polling intervals and simulated latency so cancellation is observed
// at every suspension point.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
