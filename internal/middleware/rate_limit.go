package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/natadigital/auth-service/pkg/logger"
	"github.com/natadigital/auth-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit counts requests per client IP in Redis fixed windows, so limits
// hold across replicas. Redis being unreachable fails open: rejecting logins
// because the counter store is down would be a worse failure mode.
func RateLimit(client *redis.Client, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/int64(window.Seconds()))

		count, err := client.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.GetLogger().Warn("Rate limiter unavailable, allowing request",
				zap.String("client_ip", ip),
				zap.Error(err))
			c.Next()
			return
		}

		if count > int64(maxRequest) {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequest))

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			return
		}

		remaining := int64(maxRequest) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}
