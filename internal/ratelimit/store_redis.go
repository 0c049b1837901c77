package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oleobot:ratelimit:"

// slidingWindowScript trims the window, counts it and records the event only
// when under the limit. Scores are unix microseconds.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
  first = tonumber(oldest[2])
end

if count >= limit then
  return {0, count, first}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, math.ceil(window / 1000))
return {1, count + 1, first}
`)

// RedisStore shares sliding windows between instances using one sorted set
// per key.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := s.now()
	values, err := slidingWindowScript.Run(ctx, s.client,
		[]string{keyPrefix + key},
		now.UnixMicro(),
		window.Microseconds(),
		limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected reply %v", key, values)
	}

	allowed, count, first := values[0] == 1, int(values[1]), time.UnixMicro(values[2])
	result := &Result{
		Allowed: allowed,
		Limit:   limit,
		ResetAt: first.Add(window),
	}
	if allowed {
		result.Remaining = limit - count
	}
	return result, nil
}
