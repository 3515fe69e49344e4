package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromotionOrder 活动-订单关联表（一个订单最多命中一个活动）
type PromotionOrder struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`                          // 主键（UUID）
	CampaignID     string    `gorm:"type:varchar(36);index;not null" json:"campaign_id"`             // 活动ID
	OrderID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"order_id"`          // 订单ID（唯一）
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`   // 该活动产生的优惠金额
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (PromotionOrder) TableName() string {
	return "promotion_orders"
}

// BeforeCreate 创建前生成 UUID 主键
func (p *PromotionOrder) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PromotionUsage 活动使用流水表（支付后落账，供用量与预算限制统计）
type PromotionUsage struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`                        // 主键（UUID）
	CampaignID     string    `gorm:"type:varchar(36);index;not null" json:"campaign_id"`           // 活动ID
	OrderID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"order_id"`        // 订单ID（唯一）
	UserID         *string   `gorm:"type:varchar(36);index" json:"user_id"`                        // 用户ID
	StoreID        string    `gorm:"type:varchar(36);index;not null" json:"store_id"`              // 门店ID
	TenantID       *string   `gorm:"type:varchar(36);index" json:"tenant_id"`                      // 租户ID
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	UsedAt         time.Time `gorm:"index;not null" json:"used_at"`                                // 使用时间
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (PromotionUsage) TableName() string {
	return "promotion_usages"
}

// BeforeCreate 创建前生成 UUID 主键
func (u *PromotionUsage) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
