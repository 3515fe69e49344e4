package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laundro-next/internal/promotion"
)

// PromotionCampaign 促销活动表
type PromotionCampaign struct {
	ID          string                  `gorm:"type:varchar(36);primarykey" json:"id"`          // 主键（UUID）
	Name        string                  `gorm:"type:varchar(200);not null" json:"name"`         // 活动名称
	Description string                  `gorm:"type:varchar(1000)" json:"description"`          // 活动描述
	Status      string                  `gorm:"index;not null" json:"status"`                   // 活动状态
	TenantID    *string                 `gorm:"type:varchar(36);index" json:"tenant_id"`        // 归属租户（空为全局活动）
	StartTime   time.Time               `gorm:"index;not null" json:"start_time"`               // 生效时间
	EndTime     *time.Time              `gorm:"index" json:"end_time"`                          // 失效时间（空为长期有效）
	Conditions  promotion.ConditionList `gorm:"type:json" json:"conditions"`                    // 参与条件
	Rewards     promotion.RewardList    `gorm:"type:json" json:"rewards"`                       // 优惠规则
	Limits      promotion.LimitList     `gorm:"type:json" json:"limits"`                        // 使用限制
	CreatedBy   string                  `gorm:"type:varchar(36)" json:"created_by,omitempty"`   // 创建人
	CreatedAt   time.Time               `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt   time.Time               `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt   gorm.DeletedAt          `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (PromotionCampaign) TableName() string {
	return "promotion_campaigns"
}

// BeforeCreate 创建前生成 UUID 主键
func (c *PromotionCampaign) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ToEngineInput 转为评估引擎的活动输入
func (c *PromotionCampaign) ToEngineInput() promotion.CampaignInput {
	return promotion.CampaignInput{
		ID:         c.ID,
		Name:       c.Name,
		TenantID:   tenantIDOrEmpty(c.TenantID),
		CreatedAt:  c.CreatedAt,
		Conditions: c.Conditions,
		Rewards:    c.Rewards,
		Limits:     c.Limits,
	}
}

// IsGlobal 是否全局活动
func (c *PromotionCampaign) IsGlobal() bool {
	return c.TenantID == nil || *c.TenantID == ""
}

func tenantIDOrEmpty(tenantID *string) string {
	if tenantID == nil {
		return ""
	}
	return *tenantID
}
