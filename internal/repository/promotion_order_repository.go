package repository

import (
	"errors"

	"github.com/laundro-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromotionOrderRepository 活动-订单关联数据访问接口
type PromotionOrderRepository interface {
	GetByOrderID(orderID string) (*models.PromotionOrder, error)
	Upsert(link *models.PromotionOrder) error
	DeleteByOrderID(orderID string) error
	CountByCampaign(campaignID string) (int64, error)
	WithTx(tx *gorm.DB) *GormPromotionOrderRepository
}

// GormPromotionOrderRepository GORM 实现
type GormPromotionOrderRepository struct {
	db *gorm.DB
}

// NewPromotionOrderRepository 创建活动-订单关联仓库
func NewPromotionOrderRepository(db *gorm.DB) *GormPromotionOrderRepository {
	return &GormPromotionOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionOrderRepository) WithTx(tx *gorm.DB) *GormPromotionOrderRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionOrderRepository{db: tx}
}

// GetByOrderID 获取订单命中的活动关联
func (r *GormPromotionOrderRepository) GetByOrderID(orderID string) (*models.PromotionOrder, error) {
	var link models.PromotionOrder
	if err := r.db.Where("order_id = ?", orderID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// Upsert 写入或更新订单的活动关联（order_id 唯一）
func (r *GormPromotionOrderRepository) Upsert(link *models.PromotionOrder) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"campaign_id", "discount_amount", "updated_at"}),
	}).Create(link).Error
}

// DeleteByOrderID 删除订单的活动关联
func (r *GormPromotionOrderRepository) DeleteByOrderID(orderID string) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.PromotionOrder{}).Error
}

// CountByCampaign 统计活动命中的订单数
func (r *GormPromotionOrderRepository) CountByCampaign(campaignID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PromotionOrder{}).
		Where("campaign_id = ?", campaignID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
