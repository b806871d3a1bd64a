package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// RequestBaseURL 根据当前请求推导对外访问地址，优先使用配置的 publicBaseUrl
func RequestBaseURL(c *gin.Context, publicBaseURL string) string {
	if base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"); base != "" {
		return base
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(c.GetHeader("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	host := c.Request.Host
	if fwd := firstHeaderValue(c.GetHeader("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}

// 代理链会追加多个值，取最靠近客户端的第一个
func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
