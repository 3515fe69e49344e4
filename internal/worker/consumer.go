package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/provider"
	"github.com/laundro-next/internal/queue"
	"github.com/laundro-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderEvaluate, c.handleOrderEvaluate)
	mux.HandleFunc(queue.TaskCampaignSync, c.handleCampaignSync)
}

func (c *Consumer) handleOrderEvaluate(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_evaluate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderEvaluatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_evaluate_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_evaluate_skip_invalid_payload")
		return nil
	}
	if c.PromotionService == nil {
		logger.Warnw("worker_order_evaluate_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	_, err := c.PromotionService.EvaluateOrder(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_evaluate_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_evaluate_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCampaignSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_campaign_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.CampaignSyncService == nil {
		logger.Warnw("worker_campaign_sync_skip_service_nil")
		return nil
	}
	if _, _, err := c.CampaignSyncService.Sync(ctx, time.Now()); err != nil {
		logger.Warnw("worker_campaign_sync_failed", "error", err)
		return err
	}
	return nil
}
