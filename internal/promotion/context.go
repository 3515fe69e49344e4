package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderContext 单次评估的订单上下文。
// 每次评估独立构造一份，评估期间只读，不跨评估共享。
type OrderContext struct {
	SubTotal    decimal.Decimal
	StoreID     string
	TenantID    string // 为空表示订单无法解析到租户
	UserID      string // 为空表示匿名下单
	TotalWasher int
	TotalDryer  int
	OrderTime   time.Time
	Location    *time.Location // TIME_IN_DAY 条件使用的当地时区
}

// LocationOrUTC 返回评估时区，未配置时退回 UTC
func (c *OrderContext) LocationOrUTC() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}
