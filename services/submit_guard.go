package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's
// token, so an expired holder cannot free a lock taken after it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type localLock struct {
	token   string
	expires time.Time
}

// SubmitGuard rejects a second one-shot submission from the same sender
// while the first is still being delivered. With Redis the lock is shared by
// every instance; without it the lock is local to the process.
type SubmitGuard struct {
	redis     *redis.Client
	ttl       time.Duration
	keyPrefix string
	newToken  func() string

	mu    sync.Mutex
	local map[string]localLock
	now   func() time.Time
}

func NewSubmitGuard(redis *redis.Client, ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{
		redis:     redis,
		ttl:       ttl,
		keyPrefix: "contact_submit:",
		newToken:  uuid.NewString,
		local:     make(map[string]localLock),
		now:       time.Now,
	}
}

func (g *SubmitGuard) key(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return g.keyPrefix + hex.EncodeToString(sum[:])
}

// Acquire takes the lock for email and returns its token. ok is false when a
// submission for email is already in flight. Redis failures fail open with
// an empty token.
func (g *SubmitGuard) Acquire(ctx context.Context, email string) (token string, ok bool) {
	key := g.key(email)
	token = g.newToken()
	if g.redis == nil {
		return token, g.acquireLocal(key, token)
	}

	ok, err := g.redis.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		logger.GetLogger().Warnw("Submit lock unavailable, continuing without it",
			"error", err, "from", logger.MaskEmail(email))
		return "", true
	}
	if !ok {
		return "", false
	}
	return token, true
}

// Release frees the lock for email if it is still held with token. A lock
// that expired and was taken by another submission is left alone.
func (g *SubmitGuard) Release(ctx context.Context, email, token string) {
	if token == "" {
		return
	}
	key := g.key(email)
	if g.redis == nil {
		g.mu.Lock()
		if held, ok := g.local[key]; ok && held.token == token {
			delete(g.local, key)
		}
		g.mu.Unlock()
		return
	}

	released, err := releaseScript.Run(context.WithoutCancel(ctx), g.redis, []string{key}, token).Int()
	if err != nil {
		logger.GetLogger().Warnw("Failed to release submit lock", "error", err)
		return
	}
	if released == 0 {
		logger.GetLogger().Warnw("Submit lock expired before delivery finished",
			"from", logger.MaskEmail(email), "ttl", g.ttl)
	}
}

func (g *SubmitGuard) acquireLocal(key, token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if held, ok := g.local[key]; ok && now.Before(held.expires) {
		return false
	}
	g.local[key] = localLock{token: token, expires: now.Add(g.ttl)}
	return true
}
