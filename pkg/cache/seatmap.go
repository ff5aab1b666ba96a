package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cinema-ticketing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	seatMapPrefix    = "seatmap:"
	seatMapGenPrefix = "seatmap:gen:"

	// generationTTL outlives any in-flight fill by a wide margin.
	generationTTL = 24 * time.Hour
)

var errStaleFill = errors.New("seat map changed during fill")

// SeatMapCache keeps the viewer-independent seat states of a screening.
// Every method is safe on a cache without a Redis client, where Get always
// misses and writes are dropped. Failures are logged and treated as misses.
//
// Each screening carries a generation counter bumped by Invalidate. A miss
// hands out the current generation and Set only stores the states while the
// generation is unchanged, so a fill that read the database before a
// concurrent commit cannot overwrite that commit's invalidation.
type SeatMapCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewSeatMapCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *SeatMapCache {
	return &SeatMapCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "seatmap")),
	}
}

func seatMapKey(screeningID uuid.UUID) string {
	return seatMapPrefix + screeningID.String()
}

func generationKey(screeningID uuid.UUID) string {
	return seatMapGenPrefix + screeningID.String()
}

// Get returns the cached states. On a miss it returns the generation that a
// following Set must present.
func (c *SeatMapCache) Get(ctx context.Context, screeningID uuid.UUID) ([]entity.SeatState, string, bool) {
	if c == nil || c.client == nil {
		return nil, "", false
	}

	values, err := c.client.MGet(ctx, seatMapKey(screeningID), generationKey(screeningID)).Result()
	if err != nil {
		c.log.Warn("Failed to read seat map", zap.Error(err), zap.String("screening_id", screeningID.String()))
		return nil, "", false
	}

	generation, _ := values[1].(string)
	raw, ok := values[0].(string)
	if !ok {
		return nil, generation, false
	}

	var states []entity.SeatState
	if err := json.Unmarshal([]byte(raw), &states); err != nil {
		c.log.Warn("Corrupt seat map entry", zap.Error(err), zap.String("screening_id", screeningID.String()))
		return nil, generation, false
	}

	return states, generation, true
}

// Set stores states read from the database after a miss that returned
// generation. The write is dropped when the screening was invalidated since.
func (c *SeatMapCache) Set(ctx context.Context, screeningID uuid.UUID, generation string, states []entity.SeatState) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(states)
	if err != nil {
		c.log.Warn("Failed to encode seat map", zap.Error(err))
		return
	}

	genKey := generationKey(screeningID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, seatMapKey(screeningID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("Seat map fill skipped", zap.String("screening_id", screeningID.String()))
	default:
		c.log.Warn("Failed to write seat map", zap.Error(err), zap.String("screening_id", screeningID.String()))
	}
}

// Invalidate drops the cached states of the given screenings and bumps their
// generations.
func (c *SeatMapCache) Invalidate(ctx context.Context, screeningIDs ...uuid.UUID) {
	if c == nil || c.client == nil || len(screeningIDs) == 0 {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range screeningIDs {
			pipe.Incr(ctx, generationKey(id))
			pipe.Expire(ctx, generationKey(id), generationTTL)
			pipe.Del(ctx, seatMapKey(id))
		}
		return nil
	})
	if err != nil {
		c.log.Warn("Failed to invalidate seat map", zap.Error(err), zap.Int("screenings", len(screeningIDs)))
	}
}
