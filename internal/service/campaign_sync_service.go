package service

import (
	"context"
	"time"

	"github.com/laundro-next/internal/cache"
	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/repository"
)

// CampaignSyncService 活动状态同步服务。
// 周期性地把到期的 SCHEDULED 活动置为 ACTIVE，把过期活动置为 FINISHED。
// 评估侧同时接受 ACTIVE/SCHEDULED 并按时间窗过滤，同步延迟不影响评估正确性。
type CampaignSyncService struct {
	campaignRepo repository.CampaignRepository
}

// NewCampaignSyncService 创建活动状态同步服务
func NewCampaignSyncService(campaignRepo repository.CampaignRepository) *CampaignSyncService {
	return &CampaignSyncService{campaignRepo: campaignRepo}
}

// Sync 执行一次状态同步，返回激活与结束的活动数
func (s *CampaignSyncService) Sync(ctx context.Context, now time.Time) (activated, finished int, err error) {
	due, err := s.campaignRepo.ListScheduledDue(now)
	if err != nil {
		return 0, 0, err
	}
	for i := range due {
		if err := s.campaignRepo.UpdateStatus(due[i].ID, constants.CampaignStatusActive); err != nil {
			logger.Errorw("campaign_activate_failed", "campaign_id", due[i].ID, "error", err)
			continue
		}
		activated++
	}

	expired, err := s.campaignRepo.ListExpired(now)
	if err != nil {
		return activated, 0, err
	}
	for i := range expired {
		if err := s.campaignRepo.UpdateStatus(expired[i].ID, constants.CampaignStatusFinished); err != nil {
			logger.Errorw("campaign_finish_failed", "campaign_id", expired[i].ID, "error", err)
			continue
		}
		finished++
	}

	if activated > 0 || finished > 0 {
		if err := cache.InvalidateCampaignCatalog(ctx, ""); err != nil {
			logger.Warnw("campaign_catalog_invalidate_failed", "error", err)
		}
		logger.Infow("campaign_sync_done", "activated", activated, "finished", finished)
	}
	return activated, finished, nil
}
