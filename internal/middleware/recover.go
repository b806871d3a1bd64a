package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/utils"
)

func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				traceID := c.GetString(utils.TraceIDKey)
				logger.ErrorLog.WithFields(map[string]interface{}{
					"trace_id": traceID,
					"path":     c.Request.URL.Path,
				}).Errorf("[PANIC] %v\n%s", r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorWithTrace(constant.CodeSystemError, traceID))
			}
		}()
		c.Next()
	}
}
