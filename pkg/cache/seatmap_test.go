package cache

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeatMapCache_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	screeningID := uuid.New()

	for name, c := range map[string]*SeatMapCache{
		"nil cache": nil,
		"no client": NewSeatMapCache(nil, time.Minute, zap.NewNop()),
	} {
		t.Run(name, func(t *testing.T) {
			c.Set(ctx, screeningID, "", []entity.SeatState{{SeatID: uuid.New(), Row: 1, Number: 1}})

			states, generation, ok := c.Get(ctx, screeningID)
			assert.False(t, ok)
			assert.Nil(t, states)
			assert.Empty(t, generation)

			assert.NotPanics(t, func() { c.Invalidate(ctx, screeningID) })
		})
	}
}

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(utils.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func newRedisCache(t *testing.T) (*SeatMapCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSeatMapCache(client, time.Minute, zap.NewNop()), server
}

func TestSeatMapCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)
	screeningID := uuid.New()
	states := []entity.SeatState{{SeatID: uuid.New(), Row: 1, Number: 2, IsBooked: true}}

	_, generation, ok := c.Get(ctx, screeningID)
	require.False(t, ok)

	c.Set(ctx, screeningID, generation, states)

	cached, _, ok := c.Get(ctx, screeningID)
	require.True(t, ok)
	assert.Equal(t, states, cached)
	assert.Equal(t, time.Minute, server.TTL(seatMapKey(screeningID)))

	c.Invalidate(ctx, screeningID)
	_, _, ok = c.Get(ctx, screeningID)
	assert.False(t, ok)
}

func TestSeatMapCache_StaleFillDropped(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)
	screeningID := uuid.New()
	other := uuid.New()

	// Reader misses and loads the old states.
	_, generation, ok := c.Get(ctx, screeningID)
	require.False(t, ok)
	before := []entity.SeatState{{SeatID: uuid.New(), Row: 1, Number: 1}}

	// A claim commits and invalidates before the reader writes back.
	c.Invalidate(ctx, screeningID)
	c.Set(ctx, screeningID, generation, before)

	_, fresh, ok := c.Get(ctx, screeningID)
	assert.False(t, ok)
	assert.False(t, server.Exists(seatMapKey(screeningID)))
	assert.NotEqual(t, generation, fresh)

	// The next fill with the current generation lands.
	after := []entity.SeatState{{SeatID: before[0].SeatID, Row: 1, Number: 1, IsBooked: true}}
	c.Set(ctx, screeningID, fresh, after)
	cached, _, ok := c.Get(ctx, screeningID)
	require.True(t, ok)
	assert.Equal(t, after, cached)

	// Invalidating one screening leaves another's generation alone.
	_, otherGen, _ := c.Get(ctx, other)
	c.Invalidate(ctx, screeningID)
	c.Set(ctx, other, otherGen, before)
	_, _, ok = c.Get(ctx, other)
	assert.True(t, ok)
}

func TestSeatMapCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)
	screeningID := uuid.New()

	require.NoError(t, server.Set(seatMapKey(screeningID), "{not json"))

	states, _, ok := c.Get(ctx, screeningID)
	assert.False(t, ok)
	assert.Nil(t, states)
}
