package middleware

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares counters between API instances through Redis.
// It fails open when Redis is unreachable.
type RedisRateLimiter struct {
	client  redis.Cmdable
	closer  func() error
	log     *slog.Logger
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter connects to Redis and checks it answers.
func NewRedisRateLimiter(ctx context.Context, addr, password string, db int, log *slog.Logger) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	rl := newRedisRateLimiter(client, log)
	rl.closer = client.Close
	return rl, nil
}

func newRedisRateLimiter(client redis.Cmdable, log *slog.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:  client,
		log:     log,
		prefix:  "volcano:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

// Allow counts one request for key.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, window)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		rl.logError("incr", err)
		return Decision{Allowed: true}
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	count := int(incr.Val())
	return Decision{Allowed: count <= limit, Count: count, ResetAt: time.Now().Add(remaining)}
}

// Close releases the Redis client.
func (rl *RedisRateLimiter) Close() error {
	if rl.closer == nil {
		return nil
	}
	return rl.closer()
}

func (rl *RedisRateLimiter) logError(op string, err error) {
	if rl.log == nil {
		return
	}
	rl.log.Error("redis rate limiter error", "op", op, "error", err)
}
