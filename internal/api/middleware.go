package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// AuthRateLimit throttles the credential endpoints. One shared limiter is
// enough for a single-user app surface.
func AuthRateLimit(perSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}

// RequireSession rejects requests made before anyone logged in.
func RequireSession(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Session.User() == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "no user is logged in",
			})
			return
		}
		c.Next()
	}
}
