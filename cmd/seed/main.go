package main

import (
	"time"

	"github.com/laundro-next/internal/config"
	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	tenantID := "tenant-demo"

	// 添加门店
	store := models.Store{
		Name:     "Laundro Quận 1",
		Address:  "12 Nguyễn Huệ, Quận 1, TP.HCM",
		Status:   constants.StoreStatusActive,
		TenantID: &tenantID,
		Timezone: constants.DefaultEvaluationTimezone,
	}
	if err := models.DB.Create(&store).Error; err != nil {
		stdLog.Fatalf("Failed to seed store: %v", err)
	}

	// 添加设备
	machines := []models.Machine{
		{
			StoreID:    store.ID,
			Name:       "W-01",
			Type:       constants.MachineTypeWasher,
			BasePrice:  models.NewMoneyFromInt(50000),
			PricePerKg: models.NewMoneyFromInt(5000),
		},
		{
			StoreID:    store.ID,
			Name:       "W-02",
			Type:       constants.MachineTypeWasher,
			BasePrice:  models.NewMoneyFromInt(50000),
			PricePerKg: models.NewMoneyFromInt(5000),
		},
		{
			StoreID:     store.ID,
			Name:        "D-01",
			Type:        constants.MachineTypeDryer,
			BasePrice:   models.NewMoneyFromInt(20000),
			PricePerMin: models.NewMoneyFromInt(1000),
		},
	}
	for i := range machines {
		if err := models.DB.Create(&machines[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed machine: %v", err)
		}
	}

	// 添加促销活动
	now := time.Now()
	endTime := now.AddDate(0, 1, 0)
	orderCap := decimal.NewFromInt(150000)
	campaigns := []models.PromotionCampaign{
		{
			Name:      "Giảm 10% toàn hệ thống",
			Status:    constants.CampaignStatusActive,
			StartTime: now.AddDate(0, 0, -1),
			EndTime:   &endTime,
			Conditions: promotion.ConditionList{
				{Type: promotion.ConditionTotalAmount, Operator: promotion.OperatorGreaterThanOrEqual, Value: "200000"},
			},
			Rewards: promotion.RewardList{
				{Type: promotion.RewardPercentageAmount, Value: decimal.NewFromInt(10), Unit: promotion.UnitPercentage},
			},
			Limits: promotion.LimitList{
				{Type: promotion.LimitAmountPerOrder, Value: orderCap, Unit: promotion.UnitVND},
			},
		},
		{
			Name:      "Khách quen giảm 100k",
			Status:    constants.CampaignStatusActive,
			TenantID:  &tenantID,
			StartTime: now.AddDate(0, 0, -1),
			EndTime:   &endTime,
			Conditions: promotion.ConditionList{
				{Type: promotion.ConditionAmountPerUser, Operator: promotion.OperatorGreaterThanOrEqual, Value: "1000000"},
			},
			Rewards: promotion.RewardList{
				{Type: promotion.RewardFixedAmount, Value: decimal.NewFromInt(100000), Unit: promotion.UnitVND},
			},
			Limits: promotion.LimitList{
				{Type: promotion.LimitUsagePerUser, Value: decimal.NewFromInt(1), Unit: promotion.UnitOrder},
			},
		},
	}
	for i := range campaigns {
		if err := models.DB.Create(&campaigns[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed campaign: %v", err)
		}
	}

	stdLog.Printf("Seed done: store=%s machines=%d campaigns=%d", store.ID, len(machines), len(campaigns))
}
