package public

import (
	handlershared "github.com/laundro-next/internal/http/handlers/shared"
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListStores 获取可用门店列表
func (h *Handler) ListStores(c *gin.Context) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	stores, total, err := h.StoreService.ListStores(repository.StoreListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     query.Search,
		OnlyActive: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	response.SuccessWithPage(c, stores, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// ListStoreMachines 获取门店设备列表
func (h *Handler) ListStoreMachines(c *gin.Context) {
	machines, err := h.StoreService.ListMachines(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, machines)
}
