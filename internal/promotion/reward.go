package promotion

import (
	"fmt"

	"github.com/laundro-next/internal/logger"

	"github.com/shopspring/decimal"
)

// CalculateReward 计算单条回馈对应的折扣金额。
// 单位与类型不匹配视为配置错误并返回错误；折扣不超过订单小计。
func CalculateReward(reward Reward, subTotal decimal.Decimal) (decimal.Decimal, error) {
	value, err := decimalFromValue(reward.Value)
	if err != nil {
		return decimal.Zero, err
	}
	switch reward.Type {
	case RewardFixedAmount:
		if reward.Unit != UnitVND {
			return decimal.Zero, fmt.Errorf("reward type %s requires unit %s, got %s", reward.Type, UnitVND, reward.Unit)
		}
		return clampDiscount(value, subTotal), nil
	case RewardPercentageAmount:
		if reward.Unit != UnitPercentage {
			return decimal.Zero, fmt.Errorf("reward type %s requires unit %s, got %s", reward.Type, UnitPercentage, reward.Unit)
		}
		discount := subTotal.Mul(value).Div(decimal.NewFromInt(100))
		return clampDiscount(discount, subTotal), nil
	default:
		return decimal.Zero, errUnknownRewardType
	}
}

// clampDiscount 单条折扣收敛到 [0, 小计]，负声明值记零
func clampDiscount(discount, subTotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, subTotal)
}

var errUnknownRewardType = fmt.Errorf("unknown reward type")

// SumRewards 汇总活动全部回馈的折扣。
// 单条失败（单位不匹配、类型未知）只跳过该条，总额再次收敛到 [0, 小计]。
func SumRewards(campaignID string, rewards []Reward, subTotal decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, reward := range rewards {
		discount, err := CalculateReward(reward, subTotal)
		if err != nil {
			if err != errUnknownRewardType {
				logger.Warnw("promotion_reward_skipped", "campaign_id", campaignID, "reward_type", reward.Type, "error", err)
			}
			continue
		}
		total = total.Add(discount)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(total, subTotal)
}
