package admin

import (
	handlershared "github.com/laundro-next/internal/http/handlers/shared"
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest 创建门店请求
type CreateStoreRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	TenantID string `json:"tenant_id"`
	Timezone string `json:"timezone"`
}

// CreateStore 创建门店
func (h *Handler) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	store := &models.Store{
		Name:     req.Name,
		Address:  req.Address,
		Timezone: req.Timezone,
	}
	if req.TenantID != "" {
		store.TenantID = &req.TenantID
	}
	if err := h.StoreService.CreateStore(store); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, store)
}

// ListStores 获取门店列表
func (h *Handler) ListStores(c *gin.Context) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		TenantID string `form:"tenant_id"`
		Status   string `form:"status"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	stores, total, err := h.StoreService.ListStores(repository.StoreListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: query.TenantID,
		Status:   query.Status,
		Search:   query.Search,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, stores, buildPagination(page, pageSize, total))
}

// CreateMachineRequest 创建设备请求
type CreateMachineRequest struct {
	StoreID     string  `json:"store_id" binding:"required"`
	Name        string  `json:"name"`
	Type        string  `json:"type" binding:"required"`
	BasePrice   float64 `json:"base_price"`
	PricePerKg  float64 `json:"price_per_kg"`
	PricePerMin float64 `json:"price_per_min"`
}

// CreateMachine 创建设备
func (h *Handler) CreateMachine(c *gin.Context) {
	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	machine := &models.Machine{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Type:        req.Type,
		BasePrice:   models.NewMoneyFromDecimal(decimal.NewFromFloat(req.BasePrice)),
		PricePerKg:  models.NewMoneyFromDecimal(decimal.NewFromFloat(req.PricePerKg)),
		PricePerMin: models.NewMoneyFromDecimal(decimal.NewFromFloat(req.PricePerMin)),
	}
	if err := h.StoreService.CreateMachine(machine); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, machine)
}
