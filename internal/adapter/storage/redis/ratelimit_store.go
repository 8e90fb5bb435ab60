package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// slidingWindow estimates the request count over the last window as the
// previous window's count weighted by its overlap plus the current count.
// Rejected requests are not counted.
//
// KEYS: current, previous. ARGV: limit, previous weight in permille, ttl ms.
// Returns {allowed, estimate}.
var slidingWindow = goredis.NewScript(`
local prev = tonumber(redis.call('GET', KEYS[2]) or '0')
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local estimate = math.floor(prev * tonumber(ARGV[2]) / 1000) + cur
if estimate >= tonumber(ARGV[1]) then
	return {0, estimate}
end
if redis.call('INCR', KEYS[1]) == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return {1, estimate + 1}
`)

// RateLimitStore keeps sliding-window request counters per caller.
type RateLimitStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRateLimitStore(client goredis.UniversalClient) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix seconds
}

// Allow counts one request of key against limit over the trailing window.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	if window < time.Second {
		window = time.Second
	}
	secs := int64(window / time.Second)
	now := s.now()
	windowID := now.Unix() / secs
	elapsedMS := now.UnixMilli() - windowID*secs*1000
	prevWeight := max(1000-elapsedMS/secs, 0)

	// the hash tag keeps both windows of a caller in one cluster slot
	current := fmt.Sprintf("%s{%s}:%d", s.prefix, key, windowID)
	previous := fmt.Sprintf("%s{%s}:%d", s.prefix, key, windowID-1)
	ttl := (2*window + time.Second).Milliseconds()

	res, err := slidingWindow.Run(ctx, s.client, []string{current, previous}, limit, prevWeight, ttl).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}

	return &RateLimitResult{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: max(limit-res[1], 0),
		ResetAt:   (windowID + 1) * secs,
	}, nil
}
