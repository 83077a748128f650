package memory

import (
	"context"
	"sync"

	"github.com/alorle/m3u8-grabber/internal/grab"
)

// OutcomeRepository keeps the latest outcome per channel for the lifetime
// of the process. It backs run history when no database is configured.
type OutcomeRepository struct {
	mu       sync.RWMutex
	outcomes map[string]grab.Outcome
}

func NewOutcomeRepository() *OutcomeRepository {
	return &OutcomeRepository{outcomes: make(map[string]grab.Outcome)}
}

func (r *OutcomeRepository) Save(ctx context.Context, o grab.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[o.Key()] = o
	return nil
}

func (r *OutcomeRepository) FindLast(ctx context.Context, key string) (grab.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return grab.Outcome{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.outcomes[key]
	if !ok {
		return grab.Outcome{}, grab.ErrOutcomeNotFound
	}
	return o, nil
}
