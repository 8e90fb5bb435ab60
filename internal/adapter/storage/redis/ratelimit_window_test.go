package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_SlidingWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	// a minute-aligned start
	start := time.Unix(1_700_000_040, 0)
	clock := start
	store := NewRateLimitStore(client)
	store.now = func() time.Time { return clock }

	allowed := func(n int) int {
		ok := 0
		for i := 0; i < n; i++ {
			res, err := store.Allow(context.Background(), "alice:transfers", 10, time.Minute)
			require.NoError(t, err)
			if res.Allowed {
				ok++
			}
		}
		return ok
	}

	assert.Equal(t, 10, allowed(15), "full budget in the first window")

	// 15s into the next window the previous one still weighs 75%: 7 of 10
	clock = start.Add(75 * time.Second)
	assert.Equal(t, 3, allowed(10))

	// at 45s it weighs 25%: 2 + the 3 already taken
	clock = start.Add(105 * time.Second)
	assert.Equal(t, 5, allowed(10))

	res, err := store.Allow(context.Background(), "alice:transfers", 10, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Equal(t, start.Unix()+120, res.ResetAt)

	// two windows later nothing carries over
	clock = start.Add(180 * time.Second)
	assert.Equal(t, 10, allowed(12))
}
