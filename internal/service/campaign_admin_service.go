package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/laundro-next/internal/cache"
	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/repository"
)

// CampaignAdminService 促销活动管理服务
type CampaignAdminService struct {
	campaignRepo repository.CampaignRepository
}

// NewCampaignAdminService 创建促销活动管理服务
func NewCampaignAdminService(campaignRepo repository.CampaignRepository) *CampaignAdminService {
	return &CampaignAdminService{campaignRepo: campaignRepo}
}

// CampaignInput 创建/更新活动的输入
type CampaignInput struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	TenantID    string                  `json:"tenant_id"`
	StartTime   time.Time               `json:"start_time"`
	EndTime     *time.Time              `json:"end_time"`
	Conditions  promotion.ConditionList `json:"conditions"`
	Rewards     promotion.RewardList    `json:"rewards"`
	Limits      promotion.LimitList     `json:"limits"`
	CreatedBy   string                  `json:"-"`
}

// validate 校验输入的声明结构
func (in *CampaignInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrCampaignInvalid
	}
	if in.StartTime.IsZero() {
		return ErrCampaignInvalid
	}
	if in.EndTime != nil && !in.EndTime.After(in.StartTime) {
		return ErrCampaignInvalid
	}
	if len(in.Rewards) == 0 {
		return ErrCampaignInvalid
	}
	for _, cond := range in.Conditions {
		if err := promotion.ValidateCondition(cond); err != nil {
			return fmt.Errorf("%w: %v", ErrCampaignInvalid, err)
		}
	}
	for _, reward := range in.Rewards {
		if err := promotion.ValidateReward(reward); err != nil {
			return fmt.Errorf("%w: %v", ErrCampaignInvalid, err)
		}
	}
	for _, limit := range in.Limits {
		if err := promotion.ValidateLimit(limit); err != nil {
			return fmt.Errorf("%w: %v", ErrCampaignInvalid, err)
		}
	}
	return nil
}

// creatableStatuses 创建活动时允许的初始状态
var creatableStatuses = map[string]bool{
	constants.CampaignStatusDraft:     true,
	constants.CampaignStatusScheduled: true,
	constants.CampaignStatusActive:    true,
}

// Create 创建活动
func (s *CampaignAdminService) Create(ctx context.Context, in *CampaignInput) (*models.PromotionCampaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = constants.CampaignStatusDraft
	}
	if !creatableStatuses[status] {
		return nil, ErrCampaignStatusConflict
	}

	campaign := &models.PromotionCampaign{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      status,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Conditions:  in.Conditions,
		Rewards:     in.Rewards,
		Limits:      in.Limits,
		CreatedBy:   in.CreatedBy,
	}
	if tenantID := strings.TrimSpace(in.TenantID); tenantID != "" {
		campaign.TenantID = &tenantID
	}
	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, campaign)
	logger.Infow("campaign_created", "campaign_id", campaign.ID, "name", campaign.Name, "status", campaign.Status)
	return campaign, nil
}

// Update 更新活动声明；FINISHED/INACTIVE 活动不可再编辑
func (s *CampaignAdminService) Update(ctx context.Context, id string, in *CampaignInput) (*models.PromotionCampaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.Status == constants.CampaignStatusFinished || campaign.Status == constants.CampaignStatusInactive {
		return nil, ErrCampaignStatusConflict
	}

	campaign.Name = strings.TrimSpace(in.Name)
	campaign.Description = in.Description
	campaign.StartTime = in.StartTime
	campaign.EndTime = in.EndTime
	campaign.Conditions = in.Conditions
	campaign.Rewards = in.Rewards
	campaign.Limits = in.Limits
	campaign.TenantID = nil
	if tenantID := strings.TrimSpace(in.TenantID); tenantID != "" {
		campaign.TenantID = &tenantID
	}
	if status := strings.ToUpper(strings.TrimSpace(in.Status)); status != "" {
		campaign.Status = status
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx, campaign)
	logger.Infow("campaign_updated", "campaign_id", campaign.ID, "status", campaign.Status)
	return campaign, nil
}

// Pause 暂停活动；仅 ACTIVE/SCHEDULED 可暂停
func (s *CampaignAdminService) Pause(ctx context.Context, id string) error {
	return s.transition(ctx, id, constants.CampaignStatusPaused,
		constants.CampaignStatusActive, constants.CampaignStatusScheduled)
}

// Resume 恢复活动；仅 PAUSED 可恢复
func (s *CampaignAdminService) Resume(ctx context.Context, id string) error {
	return s.transition(ctx, id, constants.CampaignStatusActive, constants.CampaignStatusPaused)
}

// transition 状态迁移，from 为空集表示任意状态可迁移
func (s *CampaignAdminService) transition(ctx context.Context, id, to string, from ...string) error {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrCampaignNotFound
	}
	if len(from) > 0 {
		allowed := false
		for _, status := range from {
			if campaign.Status == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrCampaignStatusConflict
		}
	}
	if err := s.campaignRepo.UpdateStatus(id, to); err != nil {
		return err
	}
	campaign.Status = to
	s.invalidateCatalog(ctx, campaign)
	logger.Infow("campaign_status_changed", "campaign_id", id, "status", to)
	return nil
}

// Delete 软删除活动并置为 INACTIVE，历史订单的快照不受影响
func (s *CampaignAdminService) Delete(ctx context.Context, id string) error {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrCampaignNotFound
	}
	if err := s.campaignRepo.SoftDelete(id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx, campaign)
	logger.Infow("campaign_deleted", "campaign_id", id)
	return nil
}

// Get 获取活动详情
func (s *CampaignAdminService) Get(id string) (*models.PromotionCampaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List 获取活动列表
func (s *CampaignAdminService) List(filter repository.CampaignListFilter) ([]models.PromotionCampaign, int64, error) {
	return s.campaignRepo.List(filter)
}

func (s *CampaignAdminService) invalidateCatalog(ctx context.Context, campaign *models.PromotionCampaign) {
	tenantID := ""
	if campaign.TenantID != nil {
		tenantID = *campaign.TenantID
	}
	if err := cache.InvalidateCampaignCatalog(ctx, tenantID); err != nil {
		logger.Warnw("campaign_catalog_invalidate_failed", "campaign_id", campaign.ID, "error", err)
	}
}
