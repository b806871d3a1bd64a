package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/middleware"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

type ApiKeyHandler struct {
	svc *service.ApiKeyService
}

func NewApiKeyHandler(svc *service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{svc: svc}
}

func (h *ApiKeyHandler) List(c *gin.Context) {
	keys, err := h.svc.List(c.Request.Context(), middleware.CurrentPrincipal(c).UserID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, keys)
}

// Create 明文密钥只在本次响应中出现
func (h *ApiKeyHandler) Create(c *gin.Context) {
	var req dto.CreateApiKeyReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BindFail(c, err)
			return
		}
	}
	tier, err := service.ParseTier(req.Type)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	plain, rec, err := h.svc.Issue(c.Request.Context(), middleware.CurrentPrincipal(c).UserID, req.Name, tier)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreateApiKeyResp{Key: plain, ApiKey: service.ToApiKeyView(rec)})
}

func (h *ApiKeyHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Abort(c, constant.CodeParamsFormatError)
		return
	}
	if err := h.svc.Revoke(c.Request.Context(), uint(id), middleware.CurrentPrincipal(c).UserID); err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.MessageResponse{Message: "API key deactivated successfully"})
}
