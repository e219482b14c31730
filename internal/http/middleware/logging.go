// README: Request logging and latency metrics.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"rateline/internal/logging"
	"rateline/internal/metric"
)

func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metric.ObserveRequest(elapsed, status)

		ctx := c.Request.Context()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		log.Log(ctx, level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
			logging.Traced(ctx),
		)
	}
}
