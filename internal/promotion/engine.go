package promotion

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/laundro-next/internal/logger"

	"github.com/shopspring/decimal"
)

// CampaignInput 引擎侧的活动快照。
// 由调用方从目录读出并转换，引擎本身不接触存储。
type CampaignInput struct {
	ID         string
	Name       string
	TenantID   string // 为空表示全局活动
	CreatedAt  time.Time
	Conditions ConditionList
	Rewards    RewardList
	Limits     LimitList
}

// Summary 中选活动的声明快照，随订单落库供审计
type Summary struct {
	CampaignID string        `json:"campaign_id"`
	Name       string        `json:"name"`
	Conditions ConditionList `json:"conditions"`
	Rewards    RewardList    `json:"rewards"`
	Limits     LimitList     `json:"limits"`
}

// Value 用于数据库写入
func (s Summary) Value() (driver.Value, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 用于数据库读取
func (s *Summary) Scan(value interface{}) error {
	return unmarshalList(value, s)
}

// Evaluation 一次评估的产出
type Evaluation struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	CampaignID     string // 为空表示无活动中选
	Summary        *Summary
}

// Applied 是否有活动中选
func (e Evaluation) Applied() bool {
	return e.CampaignID != ""
}

// Engine 活动评估引擎。
// 候选流水线：范围复核 → 条件 AND 链 → 回馈求和 → 限制链，
// 幸存者中折扣最高的活动中选。引擎只做纯计算，结果由调用方落库。
type Engine struct {
	conditions *ConditionChecker
	limits     *LimitChecker
}

// NewEngine 创建评估引擎；spend 与 ledger 允许为 nil（相关检查降级）
func NewEngine(spend SpendHistory, ledger UsageLedger) *Engine {
	return &Engine{
		conditions: NewConditionChecker(spend),
		limits:     NewLimitChecker(ledger),
	}
}

type candidate struct {
	campaign CampaignInput
	discount decimal.Decimal
}

// Evaluate 在候选活动中选出对该订单最有价值的一个。
// 折扣相同时按活动创建时间早者优先，再按 ID 升序，保证结果可复现。
func (e *Engine) Evaluate(ctx *OrderContext, campaigns []CampaignInput) Evaluation {
	result := Evaluation{
		SubTotal:    ctx.SubTotal,
		TotalAmount: ctx.SubTotal,
	}

	var survivors []candidate
	for _, campaign := range campaigns {
		if !scopeMatches(campaign, ctx) {
			continue
		}

		ok, err := e.conditions.CheckAll(campaign.Conditions, ctx)
		if err != nil {
			logger.Warnw("promotion_condition_check_failed", "campaign_id", campaign.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}

		calculated := SumRewards(campaign.ID, campaign.Rewards, ctx.SubTotal)

		final, allowed, err := e.limits.ApplyChain(campaign.ID, calculated, campaign.Limits, ctx)
		if err != nil {
			logger.Warnw("promotion_limit_check_failed", "campaign_id", campaign.ID, "error", err)
			continue
		}
		if !allowed {
			continue
		}

		survivors = append(survivors, candidate{campaign: campaign, discount: final})
	}

	if len(survivors) == 0 {
		return result
	}

	best := survivors[0]
	for _, current := range survivors[1:] {
		if betterCandidate(current, best) {
			best = current
		}
	}

	result.CampaignID = best.campaign.ID
	result.DiscountAmount = best.discount
	result.TotalAmount = ctx.SubTotal.Sub(best.discount)
	result.Summary = &Summary{
		CampaignID: best.campaign.ID,
		Name:       best.campaign.Name,
		Conditions: best.campaign.Conditions,
		Rewards:    best.campaign.Rewards,
		Limits:     best.campaign.Limits,
	}
	return result
}

// scopeMatches 范围复核：全局活动对所有订单生效，租户活动只对同租户订单生效
func scopeMatches(campaign CampaignInput, ctx *OrderContext) bool {
	if campaign.TenantID == "" {
		return true
	}
	if ctx.TenantID == "" {
		return false
	}
	return campaign.TenantID == ctx.TenantID
}

// betterCandidate 折扣高者胜；相同折扣按创建时间早、ID 小的顺序确定唯一赢家
func betterCandidate(a, b candidate) bool {
	if !a.discount.Equal(b.discount) {
		return a.discount.GreaterThan(b.discount)
	}
	if !a.campaign.CreatedAt.Equal(b.campaign.CreatedAt) {
		return a.campaign.CreatedAt.Before(b.campaign.CreatedAt)
	}
	return a.campaign.ID < b.campaign.ID
}
