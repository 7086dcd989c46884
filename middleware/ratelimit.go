package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"news-portal/config"
	"news-portal/helper"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenBucket refills `refill` tokens every interval_ms and takes one per
// call. Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

const staleAfter = 5 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP. Buckets live in Redis when a
// client is configured; otherwise, or while Redis errors, an in-process
// limiter with the same capacity takes over.
type RateLimiter struct {
	rdb      redis.Scripter
	capacity int
	interval time.Duration
	prefix   string
	helper   *helper.HTTPHelper
	log      *zap.Logger

	mu        sync.Mutex
	local     map[string]*ipLimiter
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg *config.Config, rdb redis.Scripter, h *helper.HTTPHelper, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:       rdb,
		capacity:  cfg.RateLimitCapacity,
		interval:  cfg.RateLimitRefill,
		prefix:    cfg.RateLimitPrefix,
		helper:    h,
		log:       log,
		local:     make(map[string]*ipLimiter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Limit returns a middleware sharing one bucket per IP across every route
// registered under scope.
func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		allowed, remaining, retry := rl.take(c, scope, ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			secs := int(math.Ceil(retry.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			rl.helper.SendError(c, http.StatusTooManyRequests, "rate limit exceeded", rl.helper.EmptyJsonMap(), `tooManyRequests`)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) take(c *gin.Context, scope, ip string) (bool, int64, time.Duration) {
	if rl.rdb != nil {
		key := rl.prefix + ":" + scope + ":" + ip
		ttl := int64((rl.interval*time.Duration(rl.capacity))/time.Second) + 1

		vals, err := tokenBucket.Run(c.Request.Context(), rl.rdb, []string{key},
			rl.now().UnixMilli(), rl.capacity, rl.interval.Milliseconds(), ttl,
		).Int64Slice()
		if err == nil && len(vals) == 3 {
			return vals[0] == 1, vals[1], time.Duration(vals[2]) * time.Millisecond
		}
		rl.log.Warn("redis rate limit unavailable, using local limiter", zap.String("key", key), zap.Error(err))
	}
	return rl.takeLocal(scope + ":" + ip)
}

func (rl *RateLimiter) takeLocal(key string) (bool, int64, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > staleAfter {
		for k, l := range rl.local {
			if now.Sub(l.lastSeen) > staleAfter {
				delete(rl.local, k)
			}
		}
		rl.lastSweep = now
	}

	l, ok := rl.local[key]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rate.Every(rl.interval), rl.capacity)}
		rl.local[key] = l
	}
	l.lastSeen = now

	r := l.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	return true, int64(l.limiter.TokensAt(now)), 0
}
