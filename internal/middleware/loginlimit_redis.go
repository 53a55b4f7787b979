package middleware

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nutriva/brand-site-server/internal/redis"
)

var loginLimitScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = 0
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    else
        resetAt = now + window
    end
    return {0, resetAt}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return {1, now + window}
`)

// RedisLoginThrottle is a sliding-window throttle shared by every server
// instance using the same Redis.
type RedisLoginThrottle struct {
	client goredis.Scripter
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLoginThrottle(client goredis.Scripter, limit int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow fails open when Redis is unreachable.
func (t *RedisLoginThrottle) Allow(ctx context.Context, key string) (bool, time.Duration) {
	now := t.now()

	result, err := loginLimitScript.Run(
		ctx,
		t.client,
		[]string{redis.LoginAttemptsKey(key)},
		now.Unix(),
		int64(t.window.Seconds()),
		t.limit,
	).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("login throttle check failed, allowing request")
		return true, 0
	}
	if len(result) != 2 {
		log.Warn().Str("key", key).Msg("unexpected login throttle result, allowing request")
		return true, 0
	}

	if result[0] == 1 {
		return true, 0
	}
	return false, time.Unix(result[1], 0).Sub(now)
}
