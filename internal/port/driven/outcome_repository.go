package driven

import (
	"context"

	"github.com/alorle/m3u8-grabber/internal/grab"
)

// OutcomeRepository defines the interface for channel outcome persistence.
// This is a driven port implemented by concrete adapters (e.g., BoltDB).
type OutcomeRepository interface {
	// Save stores o as the latest outcome for its key.
	Save(ctx context.Context, o grab.Outcome) error

	// FindLast returns the latest outcome stored for key.
	// Returns grab.ErrOutcomeNotFound if none was recorded.
	FindLast(ctx context.Context, key string) (grab.Outcome, error)
}
