package cache

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token bucket with fractional refill. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_per_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_ms')
local tokens = tonumber(state[1])
local last_ms = tonumber(state[2])
if tokens == nil or last_ms == nil then
  tokens = capacity
  last_ms = now_ms
end

local elapsed = math.max(0, now_ms - last_ms)
tokens = math.min(capacity, tokens + elapsed * refill_per_ms)

local allowed = 0
local retry_ms = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
elseif refill_per_ms > 0 then
  retry_ms = math.ceil((1 - tokens) / refill_per_ms)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_ms', now_ms)
redis.call('EXPIRE', key, ttl_seconds)
return { allowed, math.floor(tokens), retry_ms }
`)

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type TokenBucket struct {
	rdb          redis.Scripter
	capacity     int
	refillPerSec float64
	prefix       string
	now          func() time.Time
}

func NewTokenBucket(rdb redis.Scripter, capacity int, refillPerSec float64) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{
		rdb:          rdb,
		capacity:     capacity,
		refillPerSec: refillPerSec,
		prefix:       "rl",
		now:          time.Now,
	}
}

func (b *TokenBucket) Capacity() int { return b.capacity }

func (b *TokenBucket) Allow(ctx context.Context, key string) (Decision, error) {
	args := []any{
		b.now().UnixMilli(),
		b.capacity,
		strconv.FormatFloat(b.refillPerSec/1000, 'f', -1, 64),
		b.ttlSeconds(),
	}
	vals, err := tokenBucketScript.Run(ctx, b.rdb, []string{b.prefix + ":" + key}, args...).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result: %v", vals)
	}
	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// A bucket left alone refills completely well before its key expires.
func (b *TokenBucket) ttlSeconds() int64 {
	if b.refillPerSec <= 0 {
		return 3600
	}
	return int64(math.Ceil(float64(b.capacity)/b.refillPerSec)) + 60
}
