package router

import (
	"fmt"
	"strings"

	"github.com/laundro-next/internal/cache"
	"github.com/laundro-next/internal/config"
	"github.com/laundro-next/internal/constants"
	adminhandlers "github.com/laundro-next/internal/http/handlers/admin"
	publichandlers "github.com/laundro-next/internal/http/handlers/public"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	createOrderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:create_order", redisPrefix),
		WindowSeconds: 60,
		MaxRequests:   30,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 前台接口
		public := apiV1.Group("/public")
		{
			public.GET("/stores", publicHandler.ListStores)
			public.GET("/stores/:id/machines", publicHandler.ListStoreMachines)
			public.POST("/orders",
				RateLimitMiddleware(cache.Client(), createOrderRule, KeyByIP),
				publicHandler.CreateOrder)
			public.GET("/orders/:id", publicHandler.GetOrder)
			public.POST("/orders/:id/evaluate", publicHandler.ReevaluateOrder)
			public.POST("/orders/:id/pay", publicHandler.PayOrder)
			public.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		}

		// 管理接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/campaigns", adminHandler.CreateCampaign)
			admin.GET("/campaigns", adminHandler.ListCampaigns)
			admin.GET("/campaigns/:id", adminHandler.GetCampaign)
			admin.PUT("/campaigns/:id", adminHandler.UpdateCampaign)
			admin.POST("/campaigns/:id/pause", adminHandler.PauseCampaign)
			admin.POST("/campaigns/:id/resume", adminHandler.ResumeCampaign)
			admin.DELETE("/campaigns/:id", adminHandler.DeleteCampaign)

			admin.POST("/stores", adminHandler.CreateStore)
			admin.GET("/stores", adminHandler.ListStores)
			admin.POST("/machines", adminHandler.CreateMachine)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/promotion-usages", adminHandler.ListPromotionUsages)
		}
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
