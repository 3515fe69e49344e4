package admin

import (
	"time"

	handlershared "github.com/laundro-next/internal/http/handlers/shared"
	"github.com/laundro-next/internal/http/response"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/repository"
	svc "github.com/laundro-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CampaignRequest 创建/更新活动请求
type CampaignRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	TenantID    string                  `json:"tenant_id"`
	StartTime   string                  `json:"start_time" binding:"required"`
	EndTime     string                  `json:"end_time"`
	Conditions  promotion.ConditionList `json:"conditions"`
	Rewards     promotion.RewardList    `json:"rewards" binding:"required"`
	Limits      promotion.LimitList     `json:"limits"`
}

func (r *CampaignRequest) toInput() (*svc.CampaignInput, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	var endTime *time.Time
	if r.EndTime != "" {
		parsed, err := time.Parse(time.RFC3339, r.EndTime)
		if err != nil {
			return nil, err
		}
		endTime = &parsed
	}
	return &svc.CampaignInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		TenantID:    r.TenantID,
		StartTime:   startTime,
		EndTime:     endTime,
		Conditions:  r.Conditions,
		Rewards:     r.Rewards,
		Limits:      r.Limits,
	}, nil
}

// CreateCampaign 创建活动
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid time format", err)
		return
	}
	campaign, err := h.CampaignAdminService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, campaign)
}

// UpdateCampaign 更新活动
func (h *Handler) UpdateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid time format", err)
		return
	}
	campaign, err := h.CampaignAdminService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, campaign)
}

// GetCampaign 获取活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.CampaignAdminService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, campaign)
}

// ListCampaigns 获取活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		Status   string `form:"status"`
		TenantID string `form:"tenant_id"`
		Search   string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	page, pageSize := handlershared.NormalizePagination(query.Page, query.PageSize)

	campaigns, total, err := h.CampaignAdminService.List(repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   query.Status,
		TenantID: query.TenantID,
		Search:   query.Search,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, campaigns, buildPagination(page, pageSize, total))
}

// PauseCampaign 暂停活动
func (h *Handler) PauseCampaign(c *gin.Context) {
	if err := h.CampaignAdminService.Pause(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ResumeCampaign 恢复活动
func (h *Handler) ResumeCampaign(c *gin.Context) {
	if err := h.CampaignAdminService.Resume(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteCampaign 软删除活动
func (h *Handler) DeleteCampaign(c *gin.Context) {
	if err := h.CampaignAdminService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
