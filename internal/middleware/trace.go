package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"onionpay-api/internal/utils"
)

const TraceHeader = "X-Trace-ID"

// Trace 每个请求分配 trace id，写入上下文与响应头
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set(utils.TraceIDKey, traceID)
		c.Writer.Header().Set(TraceHeader, traceID)
		c.Next()
	}
}
