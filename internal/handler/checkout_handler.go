package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/dto"
	"onionpay-api/internal/middleware"
	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

// CheckoutHandler 商户会话与付款人接口
type CheckoutHandler struct {
	svc           *service.CheckoutService
	orders        *service.OrderService
	publicBaseURL string
}

func NewCheckoutHandler(svc *service.CheckoutService, orders *service.OrderService, publicBaseURL string) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, orders: orders, publicBaseURL: publicBaseURL}
}

// CreateSession POST /v1/checkout/sessions
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindFail(c, err)
		return
	}
	resp, err := h.svc.CreateSession(c.Request.Context(), middleware.CurrentApiKey(c), req, utils.RequestBaseURL(c, h.publicBaseURL))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status GET /v1/checkout/status/:orderId
func (h *CheckoutHandler) Status(c *gin.Context) {
	resp, err := h.svc.Status(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PaymentPage GET /v1/checkout/orders/:orderId
func (h *CheckoutHandler) PaymentPage(c *gin.Context) {
	resp, err := h.svc.PaymentPage(c.Request.Context(), c.Param("orderId"), utils.RequestBaseURL(c, h.publicBaseURL))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QRImage GET /v1/checkout/qr/:orderId?size=256
func (h *CheckoutHandler) QRImage(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	if size < 128 || size > 1024 {
		size = 256
	}
	png, err := h.svc.QRImage(c.Request.Context(), c.Param("orderId"), size)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Submit POST /v1/checkout/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req dto.SubmitUTRReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindFail(c, err)
		return
	}
	order, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.MessageResponse{Message: "Payment proof submitted successfully", OrderID: order.OrderID})
}

// GetOrder GET /v1/orders/:orderId（secret key）
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
