package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/laundro-next/internal/models"
)

const catalogCacheTTLDefault = 60 * time.Second

// catalogKey 活动目录缓存键（按租户分片，空租户为全局目录）
func catalogKey(tenantID string) string {
	if tenantID == "" {
		return "promotion:catalog:global"
	}
	return fmt.Sprintf("promotion:catalog:tenant:%s", tenantID)
}

// GetCampaignCatalog 读取租户的活动目录缓存
func GetCampaignCatalog(ctx context.Context, tenantID string) ([]models.PromotionCampaign, bool, error) {
	var campaigns []models.PromotionCampaign
	hit, err := GetJSON(ctx, catalogKey(tenantID), &campaigns)
	if err != nil || !hit {
		return nil, false, err
	}
	return campaigns, true, nil
}

// SetCampaignCatalog 写入租户的活动目录缓存
func SetCampaignCatalog(ctx context.Context, tenantID string, campaigns []models.PromotionCampaign, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = catalogCacheTTLDefault
	}
	return SetJSON(ctx, catalogKey(tenantID), campaigns, ttl)
}

// InvalidateCampaignCatalog 失效活动目录缓存。
// 全局活动变更无法枚举所有租户键，租户目录依赖短 TTL 自然过期。
func InvalidateCampaignCatalog(ctx context.Context, tenantID string) error {
	if err := Del(ctx, catalogKey("")); err != nil {
		return err
	}
	if tenantID == "" {
		return nil
	}
	return Del(ctx, catalogKey(tenantID))
}
