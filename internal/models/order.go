package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laundro-next/internal/promotion"
)

// Order 订单表
type Order struct {
	ID               string             `gorm:"type:varchar(36);primarykey" json:"id"`                        // 主键（UUID）
	OrderNo          string             `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	Status           string             `gorm:"index;not null" json:"status"`                                 // 订单状态
	StoreID          string             `gorm:"type:varchar(36);index;not null" json:"store_id"`              // 下单门店
	TenantID         *string            `gorm:"type:varchar(36);index" json:"tenant_id"`                      // 门店归属租户（冗余）
	CreatedBy        *string            `gorm:"type:varchar(36);index" json:"created_by"`                     // 下单用户（游客为空）
	Currency         string             `gorm:"not null" json:"currency"`                                     // 币种
	SubTotal         Money              `gorm:"type:decimal(20,2);not null;default:0" json:"sub_total"`       // 原始金额
	DiscountAmount   Money              `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount      Money              `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	TotalWasher      int                `gorm:"not null;default:0" json:"total_washer"`                       // 洗衣机数量
	TotalDryer       int                `gorm:"not null;default:0" json:"total_dryer"`                        // 烘干机数量
	PromotionSummary *promotion.Summary `gorm:"type:json" json:"promotion_summary,omitempty"`                 // 命中活动快照
	PaidAt           *time.Time         `gorm:"index" json:"paid_at"`                                         // 支付时间
	CanceledAt       *time.Time         `gorm:"index" json:"canceled_at"`                                     // 取消时间
	CreatedAt        time.Time          `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt        time.Time          `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`                                               // 软删除时间

	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate 创建前生成 UUID 主键
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderDetail 订单明细表（一台设备一条）
type OrderDetail struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`               // 主键（UUID）
	OrderID     string         `gorm:"type:varchar(36);index;not null" json:"order_id"`     // 订单ID
	MachineID   string         `gorm:"type:varchar(36);index;not null" json:"machine_id"`   // 设备ID
	MachineType string         `gorm:"type:varchar(20);index;not null" json:"machine_type"` // 设备类型（WASHER/DRYER）
	Status      string         `gorm:"index;not null" json:"status"`                        // 明细状态
	ExtraKg     int            `gorm:"not null;default:0" json:"extra_kg"`                  // 加量公斤数（洗衣机）
	Minutes     int            `gorm:"not null;default:0" json:"minutes"`                   // 烘干分钟数（烘干机）
	Amount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 明细金额
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (OrderDetail) TableName() string {
	return "order_details"
}

// BeforeCreate 创建前生成 UUID 主键
func (d *OrderDetail) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
