package public

import (
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 创建订单并触发促销评估
func (h *Handler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.GetOrder(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ReevaluateOrder 重新评估订单促销
func (h *Handler) ReevaluateOrder(c *gin.Context) {
	evaluation, err := h.OrderService.ReevaluateOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, evaluation)
}

// PayOrder 标记订单支付成功
func (h *Handler) PayOrder(c *gin.Context) {
	order, err := h.OrderService.MarkPaid(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.OrderService.CancelOrder(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
