package driven

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/m3u8-grabber/internal/grab"
)

const outcomesBucket = "outcomes"

// OutcomeBoltDBRepository implements the OutcomeRepository port using BoltDB.
// It keeps only the latest outcome per channel, keyed by <site slug>/<file>.
type OutcomeBoltDBRepository struct {
	db *bbolt.DB
}

// NewOutcomeBoltDBRepository creates a new BoltDB-backed outcome repository.
// It initializes the required bucket if it doesn't exist.
func NewOutcomeBoltDBRepository(db *bbolt.DB) (*OutcomeBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(outcomesBucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &OutcomeBoltDBRepository{db: db}, nil
}

// outcomeDTO is the JSON serialization format for an outcome.
type outcomeDTO struct {
	Site       string `json:"site"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	StreamURL  string `json:"stream_url,omitempty"`
	RunID      string `json:"run_id"`
	RecordedAt int64  `json:"recorded_at"`
}

// Save stores o as the latest outcome for its key, replacing any previous one.
func (r *OutcomeBoltDBRepository) Save(ctx context.Context, o grab.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(outcomesBucket))
		if b == nil {
			return errors.New("outcomes bucket not found")
		}

		dto := outcomeDTO{
			Site:       o.Site(),
			Channel:    o.Channel(),
			Status:     string(o.Status()),
			Reason:     o.Reason(),
			StreamURL:  o.StreamURL(),
			RunID:      o.RunID(),
			RecordedAt: o.RecordedAt().UnixNano(),
		}

		data, err := json.Marshal(dto)
		if err != nil {
			return err
		}

		return b.Put([]byte(o.Key()), data)
	})
}

// FindLast retrieves the latest outcome for key.
// Returns grab.ErrOutcomeNotFound if the channel was never recorded.
func (r *OutcomeBoltDBRepository) FindLast(ctx context.Context, key string) (grab.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return grab.Outcome{}, err
	}

	var o grab.Outcome
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(outcomesBucket))
		if b == nil {
			return errors.New("outcomes bucket not found")
		}

		data := b.Get([]byte(key))
		if data == nil {
			return grab.ErrOutcomeNotFound
		}

		var dto outcomeDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return err
		}

		o = grab.ReconstructOutcome(
			dto.Site,
			dto.Channel,
			grab.Status(dto.Status),
			dto.Reason,
			dto.StreamURL,
			dto.RunID,
			time.Unix(0, dto.RecordedAt),
		)
		return nil
	})
	if err != nil {
		return grab.Outcome{}, err
	}

	return o, nil
}
