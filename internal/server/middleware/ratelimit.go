package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bloom/internal/pkg/cache"
)

// RateLimit applies a fixed-window per-client limit backed by Redis.
// With no Redis configured, or when Redis errors, requests pass through.
func RateLimit(redis *cache.RedisCache, window time.Duration, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redis == nil || max <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP()
		count, err := redis.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		if count > int64(max) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    42901,
				"message": "Too many requests, please slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
