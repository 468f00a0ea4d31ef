package services

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitResult describes the outcome of a single CheckLimit call.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

// maxLocalLimiters bounds the in-process fallback before idle entries are pruned.
const maxLocalLimiters = 4096

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitService counts requests per key in Redis with a fixed window.
// When Redis is missing or failing it falls back to an in-process token
// bucket so the contact endpoints stay protected on a single instance.
type RateLimitService struct {
	redis     *redis.Client
	keyPrefix string

	mu    sync.Mutex
	local map[string]*localLimiter
	now   func() time.Time
}

func NewRateLimitService(redis *redis.Client) *RateLimitService {
	return &RateLimitService{
		redis:     redis,
		keyPrefix: "rate_limit:",
		local:     make(map[string]*localLimiter),
		now:       time.Now,
	}
}

func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	if limit <= 0 || window <= 0 {
		return RateLimitResult{Allowed: true, Limit: limit}, nil
	}
	if s.redis == nil {
		return s.checkLocal(key, limit, window), nil
	}

	result, err := s.checkRedis(ctx, key, limit, window)
	if err != nil {
		logger.GetLogger().Warnw("Redis rate limit check failed, using in-process limiter",
			"error", err, "key", key)
		return s.checkLocal(key, limit, window), nil
	}
	return result, nil
}

func (s *RateLimitService) checkRedis(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	rKey := s.keyPrefix + key

	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.ExpireNX(ctx, rKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, err
	}

	count := incr.Val()
	if count > int64(limit) {
		ttl, err := s.redis.TTL(ctx, rKey).Result()
		if err != nil || ttl <= 0 {
			ttl = window
		}
		return RateLimitResult{Allowed: false, Limit: limit, RetryAfter: ttl}, nil
	}

	return RateLimitResult{Allowed: true, Limit: limit, Remaining: limit - int(count)}, nil
}

func (s *RateLimitService) checkLocal(key string, limit int, window time.Duration) RateLimitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.local[key]
	if !ok {
		if len(s.local) >= maxLocalLimiters {
			s.pruneLocked(now, window)
		}
		entry = &localLimiter{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		s.local[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return RateLimitResult{Allowed: false, Limit: limit, RetryAfter: delay}
	}

	remaining := int(entry.limiter.TokensAt(now))
	return RateLimitResult{Allowed: true, Limit: limit, Remaining: max(remaining, 0)}
}

// pruneLocked drops limiters idle for longer than a window; a full bucket
// behaves the same as a fresh one.
func (s *RateLimitService) pruneLocked(now time.Time, window time.Duration) {
	for k, e := range s.local {
		if now.Sub(e.lastSeen) > window {
			delete(s.local, k)
		}
	}
}
