package promotion

import (
	"github.com/laundro-next/internal/logger"

	"github.com/shopspring/decimal"
)

// LimitOutcome 单条限制的检查结果。
// Cap 为 nil 时是拒绝型限制（只决定放行与否）；
// Cap 非 nil 时是封顶型限制（始终放行，只压低折扣）。
type LimitOutcome struct {
	Allowed bool
	Cap     *decimal.Decimal
}

func rejectOutcome() LimitOutcome { return LimitOutcome{Allowed: false} }

func allowOutcome() LimitOutcome { return LimitOutcome{Allowed: true} }

func capOutcome(cap decimal.Decimal) LimitOutcome {
	return LimitOutcome{Allowed: true, Cap: &cap}
}

// LimitChecker 限制检查器。
// ledger 为 nil 时，依赖台账的用量/预算限制放行（降级行为，接入台账前的已知空档）。
type LimitChecker struct {
	ledger UsageLedger
}

// NewLimitChecker 创建限制检查器
func NewLimitChecker(ledger UsageLedger) *LimitChecker {
	return &LimitChecker{ledger: ledger}
}

// ApplyChain 按声明顺序走完活动的限制链。
// 任一拒绝型限制不放行则整个活动出局；否则最终折扣为
// min(已计算回馈, 所有封顶值中的最小值)。空限制链原样放行。
func (l *LimitChecker) ApplyChain(promotionID string, calculated decimal.Decimal, limits []Limit, ctx *OrderContext) (decimal.Decimal, bool, error) {
	final := calculated
	for _, limit := range limits {
		outcome, err := l.CheckAndApply(promotionID, calculated, limit, ctx)
		if err != nil {
			return decimal.Zero, false, err
		}
		if !outcome.Allowed {
			return decimal.Zero, false, nil
		}
		if outcome.Cap != nil && outcome.Cap.LessThan(final) {
			final = *outcome.Cap
		}
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	return final, true, nil
}

// CheckAndApply 检查单条限制
func (l *LimitChecker) CheckAndApply(promotionID string, calculated decimal.Decimal, limit Limit, ctx *OrderContext) (LimitOutcome, error) {
	switch limit.Type {
	case LimitTotalUsage:
		return l.checkUsage(promotionID, limit, ScopeTotal, "")
	case LimitUsagePerUser:
		if ctx.UserID == "" {
			return rejectOutcome(), nil
		}
		return l.checkUsage(promotionID, limit, ScopeUser, ctx.UserID)
	case LimitUsagePerStore:
		if ctx.StoreID == "" {
			return rejectOutcome(), nil
		}
		return l.checkUsage(promotionID, limit, ScopeStore, ctx.StoreID)
	case LimitUsagePerTenant:
		if ctx.TenantID == "" {
			return rejectOutcome(), nil
		}
		return l.checkUsage(promotionID, limit, ScopeTenant, ctx.TenantID)
	case LimitTotalAmount:
		return l.checkBudget(promotionID, limit)
	case LimitAmountPerOrder, LimitAmountPerUser, LimitAmountPerStore, LimitAmountPerTenant:
		value, err := decimalFromValue(limit.Value)
		if err != nil {
			return rejectOutcome(), err
		}
		return capOutcome(value), nil
	default:
		// 未注册的限制类型跳过，不影响其余限制
		return allowOutcome(), nil
	}
}

// checkUsage 使用次数是否已达上限
func (l *LimitChecker) checkUsage(promotionID string, limit Limit, scope ScopeKind, scopeID string) (LimitOutcome, error) {
	if l.ledger == nil {
		// 台账未接入，放行。这是接入前的降级行为，不是业务规则。
		logger.Debugw("promotion_limit_ledger_missing", "promotion_id", promotionID, "limit_type", limit.Type)
		return allowOutcome(), nil
	}
	maxUsage, err := decimalFromValue(limit.Value)
	if err != nil {
		return rejectOutcome(), err
	}
	used, err := l.ledger.CountUsage(promotionID, scope, scopeID)
	if err != nil {
		return rejectOutcome(), err
	}
	if decimal.NewFromInt(used).GreaterThanOrEqual(maxUsage) {
		return rejectOutcome(), nil
	}
	return allowOutcome(), nil
}

// checkBudget 累计折扣金额是否已耗尽预算
func (l *LimitChecker) checkBudget(promotionID string, limit Limit) (LimitOutcome, error) {
	if l.ledger == nil {
		logger.Debugw("promotion_limit_ledger_missing", "promotion_id", promotionID, "limit_type", limit.Type)
		return allowOutcome(), nil
	}
	budget, err := decimalFromValue(limit.Value)
	if err != nil {
		return rejectOutcome(), err
	}
	spent, err := l.ledger.SumDiscounted(promotionID, ScopeTotal, "")
	if err != nil {
		return rejectOutcome(), err
	}
	if spent.GreaterThanOrEqual(budget) {
		return rejectOutcome(), nil
	}
	return allowOutcome(), nil
}
