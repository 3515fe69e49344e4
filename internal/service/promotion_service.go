package service

import (
	"context"
	"time"

	"github.com/laundro-next/internal/cache"
	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/repository"

	"gorm.io/gorm"
)

// PromotionService 订单促销评估服务
type PromotionService struct {
	campaignRepo    repository.CampaignRepository
	orderRepo       repository.OrderRepository
	storeRepo       repository.StoreRepository
	linkRepo        repository.PromotionOrderRepository
	usageRepo       repository.PromotionUsageRepository
	catalogCacheTTL time.Duration
	location        *time.Location
}

// NewPromotionService 创建促销评估服务
func NewPromotionService(
	campaignRepo repository.CampaignRepository,
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	linkRepo repository.PromotionOrderRepository,
	usageRepo repository.PromotionUsageRepository,
	catalogCacheTTLSeconds int,
	timezone string,
) *PromotionService {
	location, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		if timezone != "" {
			logger.Warnw("promotion_timezone_invalid", "timezone", timezone, "error", err)
		}
		location, _ = time.LoadLocation(constants.DefaultEvaluationTimezone)
	}
	ttl := time.Duration(catalogCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &PromotionService{
		campaignRepo:    campaignRepo,
		orderRepo:       orderRepo,
		storeRepo:       storeRepo,
		linkRepo:        linkRepo,
		usageRepo:       usageRepo,
		catalogCacheTTL: ttl,
		location:        location,
	}
}

// EvaluateOrder 对订单执行一次完整的促销评估并落库。
// 仅 NEW 状态的订单参与评估；其余状态直接跳过，保证金额不再变动。
// 评估是幂等的：同一订单重复评估会覆盖上一次的结果。
func (s *PromotionService) EvaluateOrder(ctx context.Context, orderID string) (*promotion.Evaluation, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusNew {
		logger.Debugw("promotion_evaluate_skipped",
			"order_id", order.ID,
			"status", order.Status,
		)
		return nil, nil
	}

	orderCtx, err := s.buildContext(order)
	if err != nil {
		return nil, err
	}

	// 目录筛选以评估时刻为准，订单创建时间只用于 TIME_IN_DAY 条件
	now := time.Now()

	var result promotion.Evaluation
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		campaigns, err := s.loadCatalog(ctx, tx, orderCtx.TenantID, now)
		if err != nil {
			return err
		}
		engine := promotion.NewEngine(s.orderRepo.WithTx(tx), s.usageRepo.WithTx(tx))
		result = engine.Evaluate(orderCtx, campaigns)
		return s.commit(tx, order, result)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("promotion_evaluated",
		"order_id", order.ID,
		"campaign_id", result.CampaignID,
		"discount_amount", result.DiscountAmount.String(),
		"total_amount", result.TotalAmount.String(),
	)
	return &result, nil
}

// buildContext 从订单与门店构造评估上下文
func (s *PromotionService) buildContext(order *models.Order) (*promotion.OrderContext, error) {
	store, err := s.storeRepo.GetByID(order.StoreID)
	if err != nil {
		return nil, err
	}

	orderCtx := &promotion.OrderContext{
		SubTotal:    order.SubTotal.Decimal,
		StoreID:     order.StoreID,
		TotalWasher: order.TotalWasher,
		TotalDryer:  order.TotalDryer,
		OrderTime:   order.CreatedAt,
		Location:    s.location,
	}
	if order.CreatedBy != nil {
		orderCtx.UserID = *order.CreatedBy
	}
	if order.TenantID != nil {
		orderCtx.TenantID = *order.TenantID
	} else if store != nil && store.TenantID != nil {
		orderCtx.TenantID = *store.TenantID
	}
	if store != nil && store.Timezone != "" {
		if loc, err := time.LoadLocation(store.Timezone); err == nil {
			orderCtx.Location = loc
		}
	}
	return orderCtx, nil
}

// loadCatalog 读取租户可参与的活动目录，优先走缓存
func (s *PromotionService) loadCatalog(ctx context.Context, tx *gorm.DB, tenantID string, now time.Time) ([]promotion.CampaignInput, error) {
	var campaigns []models.PromotionCampaign

	cached, hit, err := cache.GetCampaignCatalog(ctx, tenantID)
	if err != nil {
		logger.Warnw("promotion_catalog_cache_read_failed", "tenant_id", tenantID, "error", err)
	}
	if hit {
		campaigns = cached
	} else {
		campaigns, err = s.campaignRepo.WithTx(tx).FetchEligible(tenantID, now)
		if err != nil {
			return nil, err
		}
		if err := cache.SetCampaignCatalog(ctx, tenantID, campaigns, s.catalogCacheTTL); err != nil {
			logger.Warnw("promotion_catalog_cache_write_failed", "tenant_id", tenantID, "error", err)
		}
	}

	return toEngineInputs(campaigns, now), nil
}

// toEngineInputs 在评估时刻再校验一次活动时间窗。
// 缓存目录按写入时刻过滤，TTL 内活动可能已过期或刚刚生效。
func toEngineInputs(campaigns []models.PromotionCampaign, now time.Time) []promotion.CampaignInput {
	inputs := make([]promotion.CampaignInput, 0, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i]
		if c.StartTime.After(now) {
			continue
		}
		if c.EndTime != nil && c.EndTime.Before(now) {
			continue
		}
		inputs = append(inputs, c.ToEngineInput())
	}
	return inputs
}

// commit 在评估事务内落库结果：订单金额字段与活动关联保持一致。
// 有赢家时写入/覆盖关联，无赢家时清除旧关联并还原金额。
func (s *PromotionService) commit(tx *gorm.DB, order *models.Order, result promotion.Evaluation) error {
	orderRepo := s.orderRepo.WithTx(tx)
	linkRepo := s.linkRepo.WithTx(tx)

	order.DiscountAmount = models.NewMoneyFromDecimal(result.DiscountAmount)
	order.TotalAmount = models.NewMoneyFromDecimal(result.TotalAmount)
	order.PromotionSummary = result.Summary

	if err := orderRepo.UpdateEvaluation(order); err != nil {
		return err
	}

	if result.Applied() {
		return linkRepo.Upsert(&models.PromotionOrder{
			CampaignID:     result.CampaignID,
			OrderID:        order.ID,
			DiscountAmount: models.NewMoneyFromDecimal(result.DiscountAmount),
		})
	}
	return linkRepo.DeleteByOrderID(order.ID)
}

// RecordUsage 支付成功后落账活动使用流水，供用量与预算限制统计
func (s *PromotionService) RecordUsage(order *models.Order) error {
	if order == nil {
		return ErrOrderNotFound
	}
	link, err := s.linkRepo.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	if link == nil {
		return nil
	}
	usedAt := time.Now()
	if order.PaidAt != nil {
		usedAt = *order.PaidAt
	}
	return s.usageRepo.Record(&models.PromotionUsage{
		CampaignID:     link.CampaignID,
		OrderID:        order.ID,
		UserID:         order.CreatedBy,
		StoreID:        order.StoreID,
		TenantID:       order.TenantID,
		DiscountAmount: link.DiscountAmount,
		UsedAt:         usedAt,
	})
}

// ReverseUsage 订单取消时冲销使用流水
func (s *PromotionService) ReverseUsage(orderID string) error {
	return s.usageRepo.DeleteByOrderID(orderID)
}
