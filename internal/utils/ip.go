package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealClientIP 获取客户端真实 IP
// Cloudflare 头优先；其余代理头交给 gin 按 trustedProxies 解析，避免伪造 X-Forwarded-For 绕过限流
func GetRealClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" && isValidIP(ip) {
		return ip
	}
	if ip := c.ClientIP(); isValidIP(ip) {
		return ip
	}
	ip, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err == nil && isValidIP(ip) {
		return ip
	}
	return ""
}

// 判断 IP 是否为有效 IPv4/IPv6
func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
