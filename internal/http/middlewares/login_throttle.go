package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginThrottle is a Redis fixed-window counter shared across replicas.
// It slows credential guessing on /login and bulk account creation on
// /signup, keyed by route + client IP. Redis failures let the request
// through; the in-memory limiter behind it still applies.
type LoginThrottle struct {
	redis       *redis.Client
	maxAttempts int64
	cooldown    time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int64, cooldown time.Duration) *LoginThrottle {
	return &LoginThrottle{
		redis:       client,
		maxAttempts: maxAttempts,
		cooldown:    cooldown,
	}
}

func (t *LoginThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t.redis == nil {
			c.Next()
			return
		}

		key := throttleKey(c.FullPath(), clientIP(c))

		allowed, err := t.allow(c.Request.Context(), key)

		if err != nil {
			// fail open on Redis errors
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many attempts. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

func (t *LoginThrottle) allow(ctx context.Context, key string) (bool, error) {
	count, err := t.redis.Incr(ctx, key).Result()

	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := t.redis.Expire(ctx, key, t.cooldown).Err(); err != nil {
			return false, err
		}
	}

	return count <= t.maxAttempts, nil
}

func throttleKey(route, ip string) string {
	return "thr:" + route + ":" + ip
}
