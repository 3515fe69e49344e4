package queue

import (
	"encoding/json"

	"github.com/laundro-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderEvaluate 订单促销评估任务
	TaskOrderEvaluate = constants.TaskOrderEvaluate
	// TaskCampaignSync 活动状态同步任务
	TaskCampaignSync = constants.TaskCampaignSync
)

// OrderEvaluatePayload 订单促销评估任务载荷
type OrderEvaluatePayload struct {
	OrderID string `json:"order_id"`
}

// CampaignSyncPayload 活动状态同步任务载荷
type CampaignSyncPayload struct {
	TriggeredAt int64 `json:"triggered_at"`
}

// NewOrderEvaluateTask 创建订单促销评估任务
func NewOrderEvaluateTask(payload OrderEvaluatePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEvaluate, body), nil
}

// NewCampaignSyncTask 创建活动状态同步任务
func NewCampaignSyncTask(payload CampaignSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignSync, body), nil
}
