package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	svc          *OrderService
	promotionSvc *PromotionService
	campaignRepo repository.CampaignRepository
	orderRepo    repository.OrderRepository
	usageRepo    repository.PromotionUsageRepository
	db           *gorm.DB
	store        *models.Store
	washer       *models.Machine
	dryer        *models.Machine
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.Machine{},
		&models.Order{}, &models.OrderDetail{},
		&models.PromotionCampaign{}, &models.PromotionOrder{}, &models.PromotionUsage{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	campaignRepo := repository.NewCampaignRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	linkRepo := repository.NewPromotionOrderRepository(db)
	usageRepo := repository.NewPromotionUsageRepository(db)

	promotionSvc := NewPromotionService(campaignRepo, orderRepo, storeRepo, linkRepo, usageRepo, 60, "UTC")
	// 队列未启用，评估走同步路径
	svc := NewOrderService(orderRepo, storeRepo, machineRepo, nil, promotionSvc)

	store := &models.Store{Name: "main store", Status: constants.StoreStatusActive}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	washer := &models.Machine{
		StoreID:    store.ID,
		Name:       "W-01",
		Type:       constants.MachineTypeWasher,
		BasePrice:  models.NewMoneyFromInt(50000),
		PricePerKg: models.NewMoneyFromInt(5000),
	}
	dryer := &models.Machine{
		StoreID:     store.ID,
		Name:        "D-01",
		Type:        constants.MachineTypeDryer,
		BasePrice:   models.NewMoneyFromInt(20000),
		PricePerMin: models.NewMoneyFromInt(1000),
	}
	if err := db.Create(washer).Error; err != nil {
		t.Fatalf("create washer failed: %v", err)
	}
	if err := db.Create(dryer).Error; err != nil {
		t.Fatalf("create dryer failed: %v", err)
	}

	return &orderServiceFixture{
		svc:          svc,
		promotionSvc: promotionSvc,
		campaignRepo: campaignRepo,
		orderRepo:    orderRepo,
		usageRepo:    usageRepo,
		db:           db,
		store:        store,
		washer:       washer,
		dryer:        dryer,
	}
}

func TestCreateOrderPricing(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID: f.store.ID,
		UserID:  "user-1",
		Selections: []CreateOrderSelection{
			{MachineID: f.washer.ID, ExtraKg: 2},
			{MachineID: f.dryer.ID, Minutes: 30},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 洗衣机 50000 + 2*5000，烘干机 20000 + 30*1000
	if !order.SubTotal.Decimal.Equal(decimal.NewFromInt(110000)) {
		t.Fatalf("expected subtotal 110000, got %s", order.SubTotal)
	}
	if order.Status != constants.OrderStatusNew {
		t.Fatalf("expected NEW status, got %s", order.Status)
	}
	if order.Currency != constants.SiteCurrencyDefault {
		t.Fatalf("expected VND currency, got %s", order.Currency)
	}
	if order.TotalWasher != 1 || order.TotalDryer != 1 {
		t.Fatalf("machine counters wrong: washer=%d dryer=%d", order.TotalWasher, order.TotalDryer)
	}
	if order.OrderNo == "" {
		t.Fatalf("expected generated order number")
	}

	reloaded, err := f.svc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(reloaded.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(reloaded.Details))
	}
}

func TestCreateOrderEvaluatesInline(t *testing.T) {
	f := setupOrderServiceTest(t)

	campaign := &models.PromotionCampaign{
		Name:      "ten percent",
		Status:    constants.CampaignStatusActive,
		StartTime: time.Now().Add(-time.Hour),
		Rewards: promotion.RewardList{
			{Type: promotion.RewardPercentageAmount, Value: 10, Unit: promotion.UnitPercentage},
		},
	}
	if err := f.campaignRepo.Create(campaign); err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID: f.store.ID,
		Selections: []CreateOrderSelection{
			{MachineID: f.washer.ID},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	reloaded, err := f.orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.DiscountAmount.Decimal.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected inline evaluation discount 5000, got %s", reloaded.DiscountAmount)
	}
	if !reloaded.TotalAmount.Decimal.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("expected total 45000, got %s", reloaded.TotalAmount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		input   *CreateOrderInput
		wantErr error
	}{
		{"nil input", nil, ErrMachineSelectionInvalid},
		{"no selections", &CreateOrderInput{StoreID: f.store.ID}, ErrMachineSelectionInvalid},
		{"unknown store", &CreateOrderInput{
			StoreID:    "missing",
			Selections: []CreateOrderSelection{{MachineID: f.washer.ID}},
		}, ErrStoreNotFound},
		{"unknown machine", &CreateOrderInput{
			StoreID:    f.store.ID,
			Selections: []CreateOrderSelection{{MachineID: "missing"}},
		}, ErrMachineNotFound},
		{"washer with minutes", &CreateOrderInput{
			StoreID:    f.store.ID,
			Selections: []CreateOrderSelection{{MachineID: f.washer.ID, Minutes: 10}},
		}, ErrMachineSelectionInvalid},
		{"dryer without minutes", &CreateOrderInput{
			StoreID:    f.store.ID,
			Selections: []CreateOrderSelection{{MachineID: f.dryer.ID}},
		}, ErrMachineSelectionInvalid},
		{"dryer with extra kg", &CreateOrderInput{
			StoreID:    f.store.ID,
			Selections: []CreateOrderSelection{{MachineID: f.dryer.ID, Minutes: 30, ExtraKg: 1}},
		}, ErrMachineSelectionInvalid},
	}
	for _, tc := range cases {
		if _, err := f.svc.CreateOrder(ctx, tc.input); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCreateOrderInactiveStore(t *testing.T) {
	f := setupOrderServiceTest(t)

	if err := f.db.Model(f.store).Update("status", constants.StoreStatusInactive).Error; err != nil {
		t.Fatalf("deactivate store failed: %v", err)
	}

	_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:    f.store.ID,
		Selections: []CreateOrderSelection{{MachineID: f.washer.ID}},
	})
	if !errors.Is(err, ErrStoreInactive) {
		t.Fatalf("expected ErrStoreInactive, got %v", err)
	}
}

func TestCreateOrderMachineFromAnotherStore(t *testing.T) {
	f := setupOrderServiceTest(t)

	other := &models.Store{Name: "other store", Status: constants.StoreStatusActive}
	if err := f.db.Create(other).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	foreign := &models.Machine{
		StoreID:   other.ID,
		Name:      "W-99",
		Type:      constants.MachineTypeWasher,
		BasePrice: models.NewMoneyFromInt(40000),
	}
	if err := f.db.Create(foreign).Error; err != nil {
		t.Fatalf("create machine failed: %v", err)
	}

	_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:    f.store.ID,
		Selections: []CreateOrderSelection{{MachineID: foreign.ID}},
	})
	if !errors.Is(err, ErrMachineNotFound) {
		t.Fatalf("expected ErrMachineNotFound for cross-store machine, got %v", err)
	}
}

func TestMarkPaidRecordsUsage(t *testing.T) {
	f := setupOrderServiceTest(t)

	campaign := &models.PromotionCampaign{
		Name:      "fixed 10k",
		Status:    constants.CampaignStatusActive,
		StartTime: time.Now().Add(-time.Hour),
		Rewards: promotion.RewardList{
			{Type: promotion.RewardFixedAmount, Value: 10000, Unit: promotion.UnitVND},
		},
	}
	if err := f.campaignRepo.Create(campaign); err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID: f.store.ID,
		UserID:  "user-1",
		Selections: []CreateOrderSelection{
			{MachineID: f.washer.ID},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paid, err := f.svc.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.OrderStatusPaymentSuccess || paid.PaidAt == nil {
		t.Fatalf("unexpected paid order state: status=%s paid_at=%v", paid.Status, paid.PaidAt)
	}

	count, err := f.usageRepo.CountUsage(campaign.ID, promotion.ScopeUser, "user-1")
	if err != nil {
		t.Fatalf("count usage failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected usage recorded on payment, got %d", count)
	}

	if _, err := f.svc.MarkPaid(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("double payment should be rejected, got %v", err)
	}
}

func TestCancelOrderReversesUsage(t *testing.T) {
	f := setupOrderServiceTest(t)

	campaign := &models.PromotionCampaign{
		Name:      "fixed 10k",
		Status:    constants.CampaignStatusActive,
		StartTime: time.Now().Add(-time.Hour),
		Rewards: promotion.RewardList{
			{Type: promotion.RewardFixedAmount, Value: 10000, Unit: promotion.UnitVND},
		},
	}
	if err := f.campaignRepo.Create(campaign); err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID: f.store.ID,
		UserID:  "user-1",
		Selections: []CreateOrderSelection{
			{MachineID: f.washer.ID},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := f.svc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	cancelled, err := f.svc.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CanceledAt == nil {
		t.Fatalf("unexpected cancelled state: status=%s", cancelled.Status)
	}

	count, err := f.usageRepo.CountUsage(campaign.ID, promotion.ScopeTotal, "")
	if err != nil {
		t.Fatalf("count usage failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected usage reversed on cancel, got %d", count)
	}

	if _, err := f.svc.CancelOrder(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("cancelling a cancelled order should be rejected, got %v", err)
	}
}

func TestReevaluateOrderStatusGuard(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		StoreID:    f.store.ID,
		Selections: []CreateOrderSelection{{MachineID: f.washer.ID}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := f.svc.ReevaluateOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("reevaluate of NEW order failed: %v", err)
	}

	if _, err := f.svc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := f.svc.ReevaluateOrder(context.Background(), order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("reevaluate of paid order should be rejected, got %v", err)
	}

	if _, err := f.svc.ReevaluateOrder(context.Background(), "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
