package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/service"
	"onionpay-api/internal/utils"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	orders *service.OrderService
}

func NewDashboardHandler(svc *service.DashboardService, orders *service.OrderService) *DashboardHandler {
	return &DashboardHandler{svc: svc, orders: orders}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) PendingOrders(c *gin.Context) {
	orders, err := h.orders.ListPending(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Approve POST /api/dashboard/approve-payment/:orderId
func (h *DashboardHandler) Approve(c *gin.Context) {
	order, err := h.orders.Approve(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	h.svc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, order)
}

// Reject POST /api/dashboard/reject-payment/:orderId
func (h *DashboardHandler) Reject(c *gin.Context) {
	order, err := h.orders.Reject(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	h.svc.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, order)
}
