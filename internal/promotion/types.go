package promotion

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ConditionType 条件类型
type ConditionType string

// 条件类型常量
const (
	ConditionTenants         ConditionType = "TENANTS"
	ConditionStores          ConditionType = "STORES"
	ConditionTotalAmount     ConditionType = "TOTAL_AMOUNT"
	ConditionMachineTypes    ConditionType = "MACHINE_TYPES"
	ConditionTimeInDay       ConditionType = "TIME_IN_DAY"
	ConditionAmountPerUser   ConditionType = "AMOUNT_PER_USER"
	ConditionAmountPerStore  ConditionType = "AMOUNT_PER_STORE"
	ConditionAmountPerTenant ConditionType = "AMOUNT_PER_TENANT"
)

// RewardType 回馈类型
type RewardType string

// 回馈类型常量
const (
	RewardFixedAmount      RewardType = "FIXED_AMOUNT"
	RewardPercentageAmount RewardType = "PERCENTAGE_AMOUNT"
)

// LimitType 限制类型
type LimitType string

// 限制类型常量
const (
	LimitTotalUsage      LimitType = "TOTAL_USAGE"
	LimitUsagePerUser    LimitType = "USAGE_PER_USER"
	LimitUsagePerStore   LimitType = "USAGE_PER_STORE"
	LimitUsagePerTenant  LimitType = "USAGE_PER_TENANT"
	LimitTotalAmount     LimitType = "TOTAL_AMOUNT"
	LimitAmountPerOrder  LimitType = "AMOUNT_PER_ORDER"
	LimitAmountPerUser   LimitType = "AMOUNT_PER_USER"
	LimitAmountPerStore  LimitType = "AMOUNT_PER_STORE"
	LimitAmountPerTenant LimitType = "AMOUNT_PER_TENANT"
)

// Unit 数值单位
type Unit string

// 单位常量
const (
	UnitVND        Unit = "VND"
	UnitPercentage Unit = "PERCENTAGE"
	UnitOrder      Unit = "ORDER"
)

// Condition 活动条件声明
type Condition struct {
	Type         ConditionType `json:"type"`
	Operator     Operator      `json:"operator"`
	Value        interface{}   `json:"value"`
	DisplayValue string        `json:"display_value,omitempty"`
}

// Reward 活动回馈声明
type Reward struct {
	Type  RewardType  `json:"type"`
	Value interface{} `json:"value"`
	Unit  Unit        `json:"unit"`
}

// Limit 活动限制声明
type Limit struct {
	Type  LimitType   `json:"type"`
	Value interface{} `json:"value"`
	Unit  Unit        `json:"unit"`
}

// ConditionList 条件列表（存储为 JSON 列）
type ConditionList []Condition

// RewardList 回馈列表（存储为 JSON 列）
type RewardList []Reward

// LimitList 限制列表（存储为 JSON 列）
type LimitList []Limit

// Value 用于数据库写入
func (l ConditionList) Value() (driver.Value, error) { return marshalList(l) }

// Scan 用于数据库读取
func (l *ConditionList) Scan(value interface{}) error { return unmarshalList(value, l) }

// UnmarshalJSON 解析条件列表（数值走 json.Number，避免浮点误差）
func (l *ConditionList) UnmarshalJSON(b []byte) error {
	type plain ConditionList
	return decodeWithNumber(b, (*plain)(l))
}

// Value 用于数据库写入
func (l RewardList) Value() (driver.Value, error) { return marshalList(l) }

// Scan 用于数据库读取
func (l *RewardList) Scan(value interface{}) error { return unmarshalList(value, l) }

// UnmarshalJSON 解析回馈列表
func (l *RewardList) UnmarshalJSON(b []byte) error {
	type plain RewardList
	return decodeWithNumber(b, (*plain)(l))
}

// Value 用于数据库写入
func (l LimitList) Value() (driver.Value, error) { return marshalList(l) }

// Scan 用于数据库读取
func (l *LimitList) Scan(value interface{}) error { return unmarshalList(value, l) }

// UnmarshalJSON 解析限制列表
func (l *LimitList) UnmarshalJSON(b []byte) error {
	type plain LimitList
	return decodeWithNumber(b, (*plain)(l))
}

func marshalList(v interface{}) (driver.Value, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

func unmarshalList(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func decodeWithNumber(b []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(dest)
}

// decimalFromValue 将声明里的多态数值转换为精确十进制
func decimalFromValue(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Decimal{}, errors.New("value is nil")
	case decimal.Decimal:
		return n, nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("value %v is not numeric", v)
	}
}

// stringListFromValue 将声明数值规整为字符串集合；标量按单元素集合处理
func stringListFromValue(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{fmt.Sprint(v)}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, fmt.Sprint(item))
	}
	return result
}

// pairFromValue 取区间类数值的两个端点
func pairFromValue(v interface{}) (interface{}, interface{}, error) {
	items, ok := v.([]interface{})
	if !ok || len(items) != 2 {
		return nil, nil, fmt.Errorf("value %v is not a pair", v)
	}
	return items[0], items[1], nil
}

// conditionOperators 每种条件类型允许的操作符
var conditionOperators = map[ConditionType][]Operator{
	ConditionTenants:         {OperatorIn, OperatorNotIn},
	ConditionStores:          {OperatorIn, OperatorNotIn},
	ConditionMachineTypes:    {OperatorIn, OperatorNotIn},
	ConditionTimeInDay:       {OperatorBetween, OperatorNotBetween},
	ConditionTotalAmount:     comparisonOperators,
	ConditionAmountPerUser:   comparisonOperators,
	ConditionAmountPerStore:  comparisonOperators,
	ConditionAmountPerTenant: comparisonOperators,
}

var comparisonOperators = []Operator{
	OperatorEqual, OperatorNotEqual,
	OperatorGreaterThan, OperatorGreaterThanOrEqual,
	OperatorLessThan, OperatorLessThanOrEqual,
	OperatorBetween, OperatorNotBetween,
}

// rewardUnits 每种回馈类型要求的单位
var rewardUnits = map[RewardType]Unit{
	RewardFixedAmount:      UnitVND,
	RewardPercentageAmount: UnitPercentage,
}

// limitUnits 每种限制类型要求的单位
var limitUnits = map[LimitType]Unit{
	LimitTotalUsage:      UnitOrder,
	LimitUsagePerUser:    UnitOrder,
	LimitUsagePerStore:   UnitOrder,
	LimitUsagePerTenant:  UnitOrder,
	LimitTotalAmount:     UnitVND,
	LimitAmountPerOrder:  UnitVND,
	LimitAmountPerUser:   UnitVND,
	LimitAmountPerStore:  UnitVND,
	LimitAmountPerTenant: UnitVND,
}

// ValidateCondition 校验条件声明（类型、操作符与数值形态）
func ValidateCondition(cond Condition) error {
	operators, ok := conditionOperators[cond.Type]
	if !ok {
		return fmt.Errorf("unknown condition type %q", cond.Type)
	}
	if !operatorIn(cond.Operator, operators) {
		return fmt.Errorf("operator %q not supported for condition type %q", cond.Operator, cond.Type)
	}
	switch cond.Type {
	case ConditionTotalAmount, ConditionAmountPerUser, ConditionAmountPerStore, ConditionAmountPerTenant:
		if cond.Operator == OperatorBetween || cond.Operator == OperatorNotBetween {
			left, right, err := pairFromValue(cond.Value)
			if err != nil {
				return err
			}
			if _, err := decimalFromValue(left); err != nil {
				return err
			}
			if _, err := decimalFromValue(right); err != nil {
				return err
			}
			return nil
		}
		_, err := decimalFromValue(cond.Value)
		return err
	case ConditionTimeInDay:
		_, _, err := pairFromValue(cond.Value)
		return err
	default:
		if cond.Value == nil {
			return fmt.Errorf("condition type %q requires a value", cond.Type)
		}
		return nil
	}
}

// ValidateReward 校验回馈声明（单位必须匹配类型，数值必须为非负数）
func ValidateReward(reward Reward) error {
	required, ok := rewardUnits[reward.Type]
	if !ok {
		return fmt.Errorf("unknown reward type %q", reward.Type)
	}
	if reward.Unit != required {
		return fmt.Errorf("reward type %q requires unit %q, got %q", reward.Type, required, reward.Unit)
	}
	value, err := decimalFromValue(reward.Value)
	if err != nil {
		return err
	}
	if value.IsNegative() {
		return fmt.Errorf("reward value %s must not be negative", value)
	}
	return nil
}

// ValidateLimit 校验限制声明
func ValidateLimit(limit Limit) error {
	required, ok := limitUnits[limit.Type]
	if !ok {
		return fmt.Errorf("unknown limit type %q", limit.Type)
	}
	if limit.Unit != required {
		return fmt.Errorf("limit type %q requires unit %q, got %q", limit.Type, required, limit.Unit)
	}
	value, err := decimalFromValue(limit.Value)
	if err != nil {
		return err
	}
	if value.IsNegative() {
		return fmt.Errorf("limit value %s must not be negative", value)
	}
	return nil
}

func operatorIn(op Operator, set []Operator) bool {
	for _, candidate := range set {
		if op == candidate {
			return true
		}
	}
	return false
}
