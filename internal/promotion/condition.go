package promotion

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConditionChecker 条件检查器。
// 每种 ConditionType 对应一个封闭的分支；不认识的类型按不满足处理，
// 使整个活动失去资格（而不是静默跳过）。
type ConditionChecker struct {
	spend SpendHistory
}

// NewConditionChecker 创建条件检查器
func NewConditionChecker(spend SpendHistory) *ConditionChecker {
	return &ConditionChecker{spend: spend}
}

// CheckAll 按 AND 语义检查活动的全部条件；空条件集恒为满足。
// 返回错误表示声明本身违反契约（操作符/数值形态非法），调用方应排除该活动并记录日志。
func (c *ConditionChecker) CheckAll(conditions []Condition, ctx *OrderContext) (bool, error) {
	for _, cond := range conditions {
		ok, err := c.Check(cond, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Check 检查单个条件是否满足
func (c *ConditionChecker) Check(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx == nil {
		return false, errors.New("order context is nil")
	}
	switch cond.Type {
	case ConditionTenants:
		return c.checkTenants(cond, ctx)
	case ConditionStores:
		return c.checkStores(cond, ctx)
	case ConditionTotalAmount:
		return applyAmountCondition(cond, ctx.SubTotal)
	case ConditionMachineTypes:
		return c.checkMachineTypes(cond, ctx)
	case ConditionTimeInDay:
		return c.checkTimeInDay(cond, ctx)
	case ConditionAmountPerUser:
		return c.checkAmountPerUser(cond, ctx)
	case ConditionAmountPerStore:
		return c.checkAmountPerStore(cond, ctx)
	case ConditionAmountPerTenant:
		return c.checkAmountPerTenant(cond, ctx)
	default:
		// 未注册的条件类型：该条件不满足，活动整体出局
		return false, nil
	}
}

// checkTenants 订单租户是否命中集合。
// 无租户的订单对 NOT_IN 恒满足（不在任何租户列表里）。
func (c *ConditionChecker) checkTenants(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx.TenantID == "" {
		return cond.Operator == OperatorNotIn, nil
	}
	return applyMembership(cond, ctx.TenantID)
}

// checkStores 订单门店是否命中集合
func (c *ConditionChecker) checkStores(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx.StoreID == "" {
		return false, nil
	}
	return applyMembership(cond, ctx.StoreID)
}

// checkMachineTypes 订单包含的机器类型是否命中集合。
// 订单按洗衣机/烘干机数量归类：任一被使用的类型命中即 IN 满足，命中即 NOT_IN 不满足。
func (c *ConditionChecker) checkMachineTypes(cond Condition, ctx *OrderContext) (bool, error) {
	set := toSet(stringListFromValue(cond.Value))
	_, washerIn := set["WASHER"]
	_, dryerIn := set["DRYER"]
	washerUsed := ctx.TotalWasher > 0
	dryerUsed := ctx.TotalDryer > 0

	switch cond.Operator {
	case OperatorIn:
		return (washerUsed && washerIn) || (dryerUsed && dryerIn), nil
	case OperatorNotIn:
		return !(washerUsed && washerIn) && !(dryerUsed && dryerIn), nil
	default:
		return false, fmt.Errorf("operator %q not supported for MACHINE_TYPES condition", cond.Operator)
	}
}

// checkTimeInDay 订单当地时刻是否落在条件声明的时段内。
// 条件值为两个 RFC3339 时间点，仅取其在评估时区下的一天内时刻。
func (c *ConditionChecker) checkTimeInDay(cond Condition, ctx *OrderContext) (bool, error) {
	if cond.Operator != OperatorBetween && cond.Operator != OperatorNotBetween {
		return false, fmt.Errorf("operator %q not supported for TIME_IN_DAY condition", cond.Operator)
	}
	startRaw, endRaw, err := pairFromValue(cond.Value)
	if err != nil {
		return false, err
	}
	loc := ctx.LocationOrUTC()
	start, err := timeOfDay(startRaw, loc)
	if err != nil {
		return false, err
	}
	end, err := timeOfDay(endRaw, loc)
	if err != nil {
		return false, err
	}
	orderClock := clockSeconds(ctx.OrderTime.In(loc))
	within := start <= orderClock && orderClock <= end
	if cond.Operator == OperatorNotBetween {
		return !within, nil
	}
	return within, nil
}

// checkAmountPerUser 用户历史支付总额是否满足阈值
func (c *ConditionChecker) checkAmountPerUser(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx.UserID == "" {
		return false, nil
	}
	if c.spend == nil {
		return false, errors.New("spend history is required for AMOUNT_PER_USER condition")
	}
	total, err := c.spend.SumPaidByUser(ctx.UserID)
	if err != nil {
		return false, err
	}
	return applyAmountCondition(cond, total)
}

// checkAmountPerStore 门店历史支付总额是否满足阈值
func (c *ConditionChecker) checkAmountPerStore(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx.StoreID == "" {
		return false, nil
	}
	if c.spend == nil {
		return false, errors.New("spend history is required for AMOUNT_PER_STORE condition")
	}
	total, err := c.spend.SumPaidByStore(ctx.StoreID)
	if err != nil {
		return false, err
	}
	return applyAmountCondition(cond, total)
}

// checkAmountPerTenant 租户历史支付总额是否满足阈值
func (c *ConditionChecker) checkAmountPerTenant(cond Condition, ctx *OrderContext) (bool, error) {
	if ctx.TenantID == "" {
		return false, nil
	}
	if c.spend == nil {
		return false, errors.New("spend history is required for AMOUNT_PER_TENANT condition")
	}
	total, err := c.spend.SumPaidByTenant(ctx.TenantID)
	if err != nil {
		return false, err
	}
	return applyAmountCondition(cond, total)
}

// applyMembership 字符串集合成员判断，仅支持 IN / NOT_IN
func applyMembership(cond Condition, member string) (bool, error) {
	set := toSet(stringListFromValue(cond.Value))
	_, found := set[member]
	switch cond.Operator {
	case OperatorIn:
		return found, nil
	case OperatorNotIn:
		return !found, nil
	default:
		return false, fmt.Errorf("operator %q not supported for %s condition", cond.Operator, cond.Type)
	}
}

// applyAmountCondition 金额阈值比较；区间操作符取条件值的两个端点
func applyAmountCondition(cond Condition, left decimal.Decimal) (bool, error) {
	if cond.Operator == OperatorBetween || cond.Operator == OperatorNotBetween {
		lowRaw, highRaw, err := pairFromValue(cond.Value)
		if err != nil {
			return false, err
		}
		low, err := decimalFromValue(lowRaw)
		if err != nil {
			return false, err
		}
		high, err := decimalFromValue(highRaw)
		if err != nil {
			return false, err
		}
		return ApplyOperator(cond.Operator, left, low, &high)
	}
	right, err := decimalFromValue(cond.Value)
	if err != nil {
		return false, err
	}
	return ApplyOperator(cond.Operator, left, right, nil)
}

// timeOfDay 取 RFC3339 时间点在指定时区下的一天内秒数
func timeOfDay(raw interface{}, loc *time.Location) (int, error) {
	str, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("time value %v is not a string", raw)
	}
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return 0, err
	}
	return clockSeconds(parsed.In(loc)), nil
}

func clockSeconds(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
