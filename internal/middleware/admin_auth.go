package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/utils"
)

const PrincipalCtxKey = "principal"

// AdminClaims 外部身份系统签发的管理员令牌
type AdminClaims struct {
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// ParseAdminToken HS256 校验，sub 必填
func ParseAdminToken(secret, raw string) (dto.Principal, error) {
	var p dto.Principal
	if secret == "" {
		return p, constant.NewError(constant.CodeServiceUnavailable)
	}
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return p, constant.NewError(constant.CodeTokenExpired)
	}
	if err != nil || claims.Subject == "" {
		return p, constant.NewError(constant.CodeTokenInvalid)
	}
	return dto.Principal{
		UserID:          claims.Subject,
		Email:           claims.Email,
		FirstName:       claims.GivenName,
		LastName:        claims.FamilyName,
		ProfileImageURL: claims.Picture,
	}, nil
}

func adminToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}

// AdminAuth 管理端鉴权，令牌来自 Authorization 头或 token 查询参数（websocket）
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := adminToken(c)
		if raw == "" {
			utils.Abort(c, constant.CodeTokenInvalid)
			return
		}
		p, err := ParseAdminToken(secret, raw)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.Set(PrincipalCtxKey, p)
		c.Next()
	}
}

// CurrentPrincipal 当前管理员
func CurrentPrincipal(c *gin.Context) dto.Principal {
	if v, ok := c.Get(PrincipalCtxKey); ok {
		if p, ok := v.(dto.Principal); ok {
			return p
		}
	}
	return dto.Principal{}
}
