package httpx

import (
	"context"
	"time"

	"log/slog"

	redis "github.com/redis/go-redis/v9"
)

// redisLimiter counts requests in Redis so limits hold across api
// replicas. A dead backend degrades to allowing traffic: login and
// data paths must not go down with the limiter.
type redisLimiter struct {
	rdb       *redis.Client
	log       *slog.Logger
	opTimeout time.Duration
}

const redisLimiterPrefix = "todo:ratelimit:"

// NewRedisRateLimiter connects and verifies the backend before
// returning. Callers fall back to the in-memory limiter on error.
func NewRedisRateLimiter(addr, password string, db int, log *slog.Logger) (RateLimiter, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &redisLimiter{rdb: rdb, log: log, opTimeout: 250 * time.Millisecond}, nil
}

// Allow runs INCR, EXPIRE NX and TTL in one pipelined round trip.
// EXPIRE NX arms the window only on the bucket's first hit, so a
// burst cannot keep extending its own deadline.
func (rl *redisLimiter) Allow(key string, limit int, window time.Duration) rateDecision {
	if limit <= 0 {
		return rateDecision{allowed: true}
	}
	if window <= 0 {
		window = rateWindowDefault
	}
	ctx, cancel := context.WithTimeout(context.Background(), rl.opTimeout)
	defer cancel()

	bucket := redisLimiterPrefix + key
	pipe := rl.rdb.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.ExpireNX(ctx, bucket, window)
	ttl := pipe.TTL(ctx, bucket)
	if _, err := pipe.Exec(ctx); err != nil {
		if rl.log != nil {
			rl.log.Warn("rate limiter backend unavailable, allowing request", "error", err)
		}
		return rateDecision{allowed: true}
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	n := int(count.Val())
	return rateDecision{
		allowed:   n <= limit,
		count:     n,
		windowEnd: time.Now().Add(remaining),
	}
}

func (rl *redisLimiter) Close() {
	if rl.rdb != nil {
		_ = rl.rdb.Close()
	}
}
