package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/middleware"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

type AuthHandler struct {
	svc *service.UserService
}

func NewAuthHandler(svc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// CurrentUser GET /api/auth/user，按令牌资料同步用户
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	u, err := h.svc.Sync(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
