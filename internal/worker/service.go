package worker

import (
	"context"
	"errors"
	"time"

	"github.com/laundro-next/internal/config"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/queue"

	"github.com/hibiken/asynq"
)

const campaignSyncIntervalDefault = time.Minute

// Service 异步队列服务
type Service struct {
	name         string
	server       *asynq.Server
	mux          *asynq.ServeMux
	consumer     *Consumer
	syncInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	syncInterval := campaignSyncIntervalDefault
	if cfg.Promotion.SyncIntervalSeconds > 0 {
		syncInterval = time.Duration(cfg.Promotion.SyncIntervalSeconds) * time.Second
	}
	return &Service{
		name:         "worker",
		server:       server,
		mux:          mux,
		consumer:     consumer,
		syncInterval: syncInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CampaignSyncService != nil {
		go s.runCampaignSyncLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCampaignSyncLoop 周期执行活动状态同步
func (s *Service) runCampaignSyncLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.CampaignSyncService == nil {
		return
	}
	runOnce := func() {
		if _, _, err := s.consumer.CampaignSyncService.Sync(ctx, time.Now()); err != nil {
			logger.Warnw("worker_campaign_sync_loop_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
