package promotion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Operator 条件比较操作符
type Operator string

// 操作符常量
const (
	OperatorEqual              Operator = "EQUAL"
	OperatorNotEqual           Operator = "NOT_EQUAL"
	OperatorGreaterThan        Operator = "GREATER_THAN"
	OperatorGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OperatorLessThan           Operator = "LESS_THAN"
	OperatorLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OperatorBetween            Operator = "BETWEEN"
	OperatorNotBetween         Operator = "NOT_BETWEEN"
	OperatorIn                 Operator = "IN"
	OperatorNotIn              Operator = "NOT_IN"
)

// ApplyOperator 对两个（区间操作符为三个）十进制数应用比较操作符。
// 区间操作符缺失第二个右值、或传入不支持的操作符均视为契约违反并返回错误。
// BETWEEN 为双闭区间。
func ApplyOperator(op Operator, left, right decimal.Decimal, right2 *decimal.Decimal) (bool, error) {
	switch op {
	case OperatorEqual:
		return left.Equal(right), nil
	case OperatorNotEqual:
		return !left.Equal(right), nil
	case OperatorGreaterThan:
		return left.GreaterThan(right), nil
	case OperatorGreaterThanOrEqual:
		return left.GreaterThanOrEqual(right), nil
	case OperatorLessThan:
		return left.LessThan(right), nil
	case OperatorLessThanOrEqual:
		return left.LessThanOrEqual(right), nil
	case OperatorBetween:
		if right2 == nil {
			return false, fmt.Errorf("operator %s requires two right operands", op)
		}
		return left.GreaterThanOrEqual(right) && left.LessThanOrEqual(*right2), nil
	case OperatorNotBetween:
		if right2 == nil {
			return false, fmt.Errorf("operator %s requires two right operands", op)
		}
		return !(left.GreaterThanOrEqual(right) && left.LessThanOrEqual(*right2)), nil
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}
