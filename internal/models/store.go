package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store 门店表
type Store struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`   // 主键（UUID）
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`  // 门店名称
	Address   string         `gorm:"type:varchar(500)" json:"address"`        // 门店地址
	Status    string         `gorm:"index;not null" json:"status"`            // 门店状态
	TenantID  *string        `gorm:"type:varchar(36);index" json:"tenant_id"` // 归属租户
	Timezone  string         `gorm:"type:varchar(64)" json:"timezone"`        // 门店时区
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}

// BeforeCreate 创建前生成 UUID 主键
func (s *Store) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Machine 洗烘设备表
type Machine struct {
	ID         string         `gorm:"type:varchar(36);primarykey" json:"id"`                    // 主键（UUID）
	StoreID    string         `gorm:"type:varchar(36);index;not null" json:"store_id"`          // 所属门店
	Name       string         `gorm:"type:varchar(100)" json:"name"`                            // 设备编号
	Type       string         `gorm:"type:varchar(20);index;not null" json:"type"`              // 设备类型（WASHER/DRYER）
	BasePrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`  // 基础价格
	PricePerKg Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_per_kg"` // 加量单价（洗衣机）
	PricePerMin Money         `gorm:"type:decimal(20,2);not null;default:0" json:"price_per_min"` // 每分钟单价（烘干机）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (Machine) TableName() string {
	return "machines"
}

// BeforeCreate 创建前生成 UUID 主键
func (m *Machine) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
