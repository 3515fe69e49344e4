package repository

import (
	"fmt"

	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionUsageRepository 活动使用流水数据访问接口。
// 同时作为评估引擎的用量台账实现。
type PromotionUsageRepository interface {
	promotion.UsageLedger
	Record(usage *models.PromotionUsage) error
	DeleteByOrderID(orderID string) error
	List(filter UsageListFilter) ([]models.PromotionUsage, int64, error)
	WithTx(tx *gorm.DB) *GormPromotionUsageRepository
}

// GormPromotionUsageRepository GORM 实现
type GormPromotionUsageRepository struct {
	db *gorm.DB
}

// NewPromotionUsageRepository 创建活动使用流水仓库
func NewPromotionUsageRepository(db *gorm.DB) *GormPromotionUsageRepository {
	return &GormPromotionUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionUsageRepository) WithTx(tx *gorm.DB) *GormPromotionUsageRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionUsageRepository{db: tx}
}

// Record 落账一条使用流水
func (r *GormPromotionUsageRepository) Record(usage *models.PromotionUsage) error {
	return r.db.Create(usage).Error
}

// DeleteByOrderID 删除订单的使用流水（订单取消/退款时冲销）
func (r *GormPromotionUsageRepository) DeleteByOrderID(orderID string) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.PromotionUsage{}).Error
}

// CountUsage 按口径统计活动已使用次数
func (r *GormPromotionUsageRepository) CountUsage(promotionID string, scope promotion.ScopeKind, scopeID string) (int64, error) {
	query, err := r.scopedQuery(promotionID, scope, scopeID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumDiscounted 按口径汇总活动已发放优惠金额
func (r *GormPromotionUsageRepository) SumDiscounted(promotionID string, scope promotion.ScopeKind, scopeID string) (decimal.Decimal, error) {
	query, err := r.scopedQuery(promotionID, scope, scopeID)
	if err != nil {
		return decimal.Zero, err
	}
	var row struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(discount_amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *GormPromotionUsageRepository) scopedQuery(promotionID string, scope promotion.ScopeKind, scopeID string) (*gorm.DB, error) {
	query := r.db.Model(&models.PromotionUsage{}).Where("campaign_id = ?", promotionID)
	switch scope {
	case promotion.ScopeTotal:
		return query, nil
	case promotion.ScopeUser:
		return query.Where("user_id = ?", scopeID), nil
	case promotion.ScopeStore:
		return query.Where("store_id = ?", scopeID), nil
	case promotion.ScopeTenant:
		return query.Where("tenant_id = ?", scopeID), nil
	default:
		return nil, fmt.Errorf("unsupported usage scope: %s", scope)
	}
}

// List 获取使用流水列表
func (r *GormPromotionUsageRepository) List(filter UsageListFilter) ([]models.PromotionUsage, int64, error) {
	query := r.db.Model(&models.PromotionUsage{})

	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.UsedFrom != nil {
		query = query.Where("used_at >= ?", *filter.UsedFrom)
	}
	if filter.UsedTo != nil {
		query = query.Where("used_at <= ?", *filter.UsedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var usages []models.PromotionUsage
	if err := query.Order("used_at desc, id desc").Find(&usages).Error; err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}
