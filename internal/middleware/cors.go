package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", ApiKeyHeader, TraceHeader}

// PublicCORS /v1 接口允许任意来源（publishable key 会嵌入浏览器）
func PublicCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    corsHeaders,
		ExposeHeaders:   []string{TraceHeader},
		MaxAge:          12 * time.Hour,
	})
}

// AdminCORS /api 接口只允许配置的来源；未配置时不加 CORS 头
func AdminCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    []string{TraceHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// CORS 按路径前缀选择策略；挂在引擎上以便预检请求也能命中
func CORS(adminOrigins []string) gin.HandlerFunc {
	public := PublicCORS()
	admin := AdminCORS(adminOrigins)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, "/v1/"):
			public(c)
		case strings.HasPrefix(path, "/api/"), path == "/ws":
			admin(c)
		default:
			c.Next()
		}
	}
}
