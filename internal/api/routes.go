package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/profilecard/pkg/logger"
	"github.com/youruser/profilecard/pkg/metrics"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RegisterRoutes mounts the API and the metrics endpoint on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(requestID(), accessLog(h.logger))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/profile/:uid", h.profileCard)
		api.POST("/cache/clear", h.clearCache)
	}
}

// requestID tags every request with an id, reusing the caller's when given.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug(c.Request.Context(), "request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Int("ms", int(time.Since(start).Milliseconds())),
			logger.String(requestIDKey, c.GetString(requestIDKey)))
	}
}
