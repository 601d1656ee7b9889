package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/awestore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a request identified by key is allowed
// within the current window.
type RateLimiter interface {
	// Allow reports whether the request may proceed and how many
	// requests remain in the window.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	// Limit returns the per-window request budget.
	Limit() int
}

// RedisRateLimiter counts requests per key in Redis with a fixed
// window, so limits hold across server instances.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow increments the window counter for key and checks it against the limit
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	redisKey := rl.prefix + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		// First hit in the window owns the expiry
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, err
		}
	}

	remaining := rl.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(rl.limit), remaining, nil
}

// Limit returns the per-window request budget
func (rl *RedisRateLimiter) Limit() int {
	return rl.limit
}

// InMemoryRateLimiter is a single-process fixed-window limiter used
// when Redis is not configured.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCounter
	limit   int
	window  time.Duration
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

// NewInMemoryRateLimiter creates an in-memory rate limiter
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	rl := &InMemoryRateLimiter{
		clients: make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
	}
	go rl.cleanup()
	return rl
}

func (rl *InMemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, c := range rl.clients {
			if now.After(c.windowEnd) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow increments the window counter for key and checks it against the limit
func (rl *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, exists := rl.clients[key]
	if !exists || now.After(c.windowEnd) {
		rl.clients[key] = &windowCounter{count: 1, windowEnd: now.Add(rl.window)}
		return true, rl.limit - 1, nil
	}

	c.count++
	remaining := rl.limit - c.count
	if remaining < 0 {
		remaining = 0
	}
	return c.count <= rl.limit, remaining, nil
}

// Limit returns the per-window request budget
func (rl *InMemoryRateLimiter) Limit() int {
	return rl.limit
}

// RateLimit returns a rate limiting middleware keyed by client IP,
// or by user ID when the caller is authenticated.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		if userID := GetJWTUserID(c); userID != "" {
			return "user:" + userID
		}
		return "ip:" + c.ClientIP()
	})
}

// RateLimitByKey returns a rate limiting middleware with a custom key extractor
func RateLimitByKey(limiter RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open on limiter backend errors
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.CodeRateLimited, "Too many requests. Please try again later."))
			return
		}

		c.Next()
	}
}
