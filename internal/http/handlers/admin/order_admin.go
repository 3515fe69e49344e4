package admin

import (
	handlershared "github.com/laundro-next/internal/http/handlers/shared"
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 获取订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		UserID   string `form:"user_id"`
		StoreID  string `form:"store_id"`
		TenantID string `form:"tenant_id"`
		Status   string `form:"status"`
		OrderNo  string `form:"order_no"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   query.UserID,
		StoreID:  query.StoreID,
		TenantID: query.TenantID,
		Status:   query.Status,
		OrderNo:  query.OrderNo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// ListPromotionUsages 获取活动使用流水列表
func (h *Handler) ListPromotionUsages(c *gin.Context) {
	var query struct {
		Page       int    `form:"page"`
		PageSize   int    `form:"page_size"`
		CampaignID string `form:"campaign_id"`
		UserID     string `form:"user_id"`
		StoreID    string `form:"store_id"`
		TenantID   string `form:"tenant_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	usages, total, err := h.PromotionUsageRepo.List(repository.UsageListFilter{
		Page:       page,
		PageSize:   pageSize,
		CampaignID: query.CampaignID,
		UserID:     query.UserID,
		StoreID:    query.StoreID,
		TenantID:   query.TenantID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, usages, buildPagination(page, pageSize, total))
}
