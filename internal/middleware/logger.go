package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/logger"
	"onionpay-api/internal/utils"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		entry := map[string]interface{}{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         utils.GetRealClientIP(c),
			"latency":    latency.String(),
			"user-agent": c.Request.UserAgent(),
			"trace_id":   c.GetString(utils.TraceIDKey),
		}

		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			logger.ErrorLog.WithFields(entry).Error(c.Errors.String())
		} else {
			logger.InfoLog.WithFields(entry).Info("request completed")
		}
	}
}
