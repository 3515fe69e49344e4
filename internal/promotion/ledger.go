package promotion

import "github.com/shopspring/decimal"

// ScopeKind 用量统计口径
type ScopeKind string

// 用量统计口径常量
const (
	ScopeTotal  ScopeKind = "TOTAL"
	ScopeUser   ScopeKind = "USER"
	ScopeStore  ScopeKind = "STORE"
	ScopeTenant ScopeKind = "TENANT"
)

// UsageLedger 活动用量/预算台账。
// 拒绝型限制（使用次数、预算上限）通过它查询已消耗量。
// 传入 nil 表示台账未接入，此时相关限制放行（降级路径，见 limit.go）。
type UsageLedger interface {
	CountUsage(promotionID string, scope ScopeKind, scopeID string) (int64, error)
	SumDiscounted(promotionID string, scope ScopeKind, scopeID string) (decimal.Decimal, error)
}

// SpendHistory 历史消费查询。
// AMOUNT_PER_USER / AMOUNT_PER_STORE / AMOUNT_PER_TENANT 条件依赖它统计已支付订单总额。
type SpendHistory interface {
	SumPaidByUser(userID string) (decimal.Decimal, error)
	SumPaidByStore(storeID string) (decimal.Decimal, error)
	SumPaidByTenant(tenantID string) (decimal.Decimal, error)
}
