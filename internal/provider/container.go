package provider

import (
	"github.com/laundro-next/internal/cache"
	"github.com/laundro-next/internal/config"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/queue"
	"github.com/laundro-next/internal/repository"
	"github.com/laundro-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CampaignRepo       repository.CampaignRepository
	OrderRepo          repository.OrderRepository
	StoreRepo          repository.StoreRepository
	MachineRepo        repository.MachineRepository
	PromotionOrderRepo repository.PromotionOrderRepository
	PromotionUsageRepo repository.PromotionUsageRepository

	// Services
	PromotionService     *service.PromotionService
	CampaignAdminService *service.CampaignAdminService
	CampaignSyncService  *service.CampaignSyncService
	OrderService         *service.OrderService
	StoreService         *service.StoreService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.MachineRepo = repository.NewMachineRepository(db)
	c.PromotionOrderRepo = repository.NewPromotionOrderRepository(db)
	c.PromotionUsageRepo = repository.NewPromotionUsageRepository(db)
}

func (c *Container) initServices() {
	c.PromotionService = service.NewPromotionService(
		c.CampaignRepo,
		c.OrderRepo,
		c.StoreRepo,
		c.PromotionOrderRepo,
		c.PromotionUsageRepo,
		c.Config.Promotion.CatalogCacheTTLSeconds,
		c.Config.Promotion.EvaluationTimezone,
	)
	c.CampaignAdminService = service.NewCampaignAdminService(c.CampaignRepo)
	c.CampaignSyncService = service.NewCampaignSyncService(c.CampaignRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo, c.MachineRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.StoreRepo, c.MachineRepo, c.QueueClient, c.PromotionService)
}
