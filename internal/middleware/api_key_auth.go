package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/model"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

const (
	ApiKeyCtxKey = "api_key"
	ApiKeyHeader = "X-API-Key"
)

// PresentedApiKey Authorization: Bearer <key> 或 X-API-Key
func PresentedApiKey(c *gin.Context) string {
	if auth := strings.TrimSpace(c.GetHeader("Authorization")); auth != "" {
		if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return auth
	}
	return strings.TrimSpace(c.GetHeader(ApiKeyHeader))
}

// ApiKeyAuth 商户接口鉴权，required 为最低等级
func ApiKeyAuth(keys *service.ApiKeyService, required service.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := PresentedApiKey(c)
		if presented == "" {
			utils.Abort(c, constant.CodeUnauthorized)
			return
		}
		k, err := keys.Authenticate(c.Request.Context(), presented, required)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.Set(ApiKeyCtxKey, k)
		c.Next()
	}
}

// CurrentApiKey 鉴权通过的密钥
func CurrentApiKey(c *gin.Context) *model.ApiKey {
	if v, ok := c.Get(ApiKeyCtxKey); ok {
		if k, ok := v.(*model.ApiKey); ok {
			return k
		}
	}
	return nil
}
