package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

type QrCodeHandler struct {
	svc      *service.QrCodeService
	maxBytes int64
}

func NewQrCodeHandler(svc *service.QrCodeService, maxBytes int64) *QrCodeHandler {
	return &QrCodeHandler{svc: svc, maxBytes: maxBytes}
}

// Current GET /api/qr-code，未配置时返回 null
func (h *QrCodeHandler) Current(c *gin.Context) {
	qr, err := h.svc.Current(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}

// Create POST /api/qr-code，multipart：upiId + 可选 qrImage
func (h *QrCodeHandler) Create(c *gin.Context) {
	upiID := c.PostForm("upiId")
	fh, err := c.FormFile("qrImage")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		utils.Abort(c, constant.CodeParamsFormatError)
		return
	}

	if fh == nil {
		qr, err := h.svc.Create(c.Request.Context(), upiID, nil)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, qr)
		return
	}

	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		utils.Abort(c, constant.CodeQRImageTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer f.Close()

	qr, err := h.svc.Create(c.Request.Context(), upiID, f)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}
