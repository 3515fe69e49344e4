package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/logger"
	"github.com/laundro-next/internal/models"
	"github.com/laundro-next/internal/promotion"
	"github.com/laundro-next/internal/queue"
	"github.com/laundro-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	storeRepo        repository.StoreRepository
	machineRepo      repository.MachineRepository
	queueClient      *queue.Client
	promotionService *PromotionService
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	machineRepo repository.MachineRepository,
	queueClient *queue.Client,
	promotionService *PromotionService,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		storeRepo:        storeRepo,
		machineRepo:      machineRepo,
		queueClient:      queueClient,
		promotionService: promotionService,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	StoreID    string                 `json:"store_id"`
	UserID     string                 `json:"user_id"`
	Selections []CreateOrderSelection `json:"selections"`
}

// CreateOrderSelection 单台设备的选择
type CreateOrderSelection struct {
	MachineID string `json:"machine_id"`
	ExtraKg   int    `json:"extra_kg"` // 洗衣机加量
	Minutes   int    `json:"minutes"`  // 烘干时长
}

// CreateOrder 创建订单并触发促销评估。
// 洗衣机计价为基础价加每公斤加量价，烘干机为基础价加每分钟时长价。
func (s *OrderService) CreateOrder(ctx context.Context, in *CreateOrderInput) (*models.Order, error) {
	if in == nil || len(in.Selections) == 0 {
		return nil, ErrMachineSelectionInvalid
	}

	store, err := s.storeRepo.GetByID(in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if store.Status != constants.StoreStatusActive {
		return nil, ErrStoreInactive
	}

	machineIDs := make([]string, 0, len(in.Selections))
	for _, sel := range in.Selections {
		machineIDs = append(machineIDs, sel.MachineID)
	}
	machines, err := s.machineRepo.ListByIDs(machineIDs)
	if err != nil {
		return nil, err
	}
	machineByID := make(map[string]*models.Machine, len(machines))
	for i := range machines {
		machineByID[machines[i].ID] = &machines[i]
	}

	order := &models.Order{
		OrderNo:  generateOrderNo(),
		Status:   constants.OrderStatusNew,
		StoreID:  store.ID,
		TenantID: store.TenantID,
		Currency: constants.SiteCurrencyDefault,
	}
	if userID := strings.TrimSpace(in.UserID); userID != "" {
		order.CreatedBy = &userID
	}

	subTotal := decimal.Zero
	details := make([]models.OrderDetail, 0, len(in.Selections))
	for _, sel := range in.Selections {
		machine, ok := machineByID[sel.MachineID]
		if !ok || machine.StoreID != store.ID {
			return nil, ErrMachineNotFound
		}

		amount, err := priceSelection(machine, sel)
		if err != nil {
			return nil, err
		}
		subTotal = subTotal.Add(amount)

		switch machine.Type {
		case constants.MachineTypeWasher:
			order.TotalWasher++
		case constants.MachineTypeDryer:
			order.TotalDryer++
		}

		details = append(details, models.OrderDetail{
			MachineID:   machine.ID,
			MachineType: machine.Type,
			Status:      constants.OrderDetailStatusNew,
			ExtraKg:     sel.ExtraKg,
			Minutes:     sel.Minutes,
			Amount:      models.NewMoneyFromDecimal(amount),
		})
	}

	order.SubTotal = models.NewMoneyFromDecimal(subTotal)
	order.TotalAmount = order.SubTotal
	order.Details = details

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order)
	}); err != nil {
		return nil, err
	}

	s.triggerEvaluation(ctx, order.ID)
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"store_id", order.StoreID,
		"sub_total", order.SubTotal.String(),
	)
	return order, nil
}

// priceSelection 按设备类型计算单条明细金额
func priceSelection(machine *models.Machine, sel CreateOrderSelection) (decimal.Decimal, error) {
	switch machine.Type {
	case constants.MachineTypeWasher:
		if sel.ExtraKg < 0 || sel.Minutes != 0 {
			return decimal.Zero, ErrMachineSelectionInvalid
		}
		extra := machine.PricePerKg.Decimal.Mul(decimal.NewFromInt(int64(sel.ExtraKg)))
		return machine.BasePrice.Decimal.Add(extra), nil
	case constants.MachineTypeDryer:
		if sel.Minutes <= 0 || sel.ExtraKg != 0 {
			return decimal.Zero, ErrMachineSelectionInvalid
		}
		duration := machine.PricePerMin.Decimal.Mul(decimal.NewFromInt(int64(sel.Minutes)))
		return machine.BasePrice.Decimal.Add(duration), nil
	default:
		return decimal.Zero, ErrMachineSelectionInvalid
	}
}

// triggerEvaluation 触发订单促销评估，队列不可用时退化为同步评估
func (s *OrderService) triggerEvaluation(ctx context.Context, orderID string) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderEvaluate(queue.OrderEvaluatePayload{OrderID: orderID})
		if err == nil {
			return
		}
		logger.Warnw("order_evaluate_enqueue_failed", "order_id", orderID, "error", err)
	}
	if s.promotionService == nil {
		return
	}
	if _, err := s.promotionService.EvaluateOrder(ctx, orderID); err != nil {
		logger.Errorw("order_evaluate_inline_failed", "order_id", orderID, "error", err)
	}
}

// ReevaluateOrder 重新评估订单（仅 NEW 状态有效）
func (s *OrderService) ReevaluateOrder(ctx context.Context, orderID string) (*promotion.Evaluation, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusNew {
		return nil, ErrOrderStatusInvalid
	}
	return s.promotionService.EvaluateOrder(ctx, orderID)
}

// MarkPaid 标记订单支付成功并落账活动使用流水
func (s *OrderService) MarkPaid(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusNew && order.Status != constants.OrderStatusWaitingForPayment {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	order.Status = constants.OrderStatusPaymentSuccess
	order.PaidAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	if err := s.promotionService.RecordUsage(order); err != nil {
		logger.Errorw("promotion_usage_record_failed", "order_id", order.ID, "error", err)
	}
	logger.Infow("order_paid", "order_id", order.ID, "total_amount", order.TotalAmount.String())
	return order, nil
}

// CancelOrder 取消订单并冲销活动使用流水
func (s *OrderService) CancelOrder(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusFinished || order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	order.Status = constants.OrderStatusCancelled
	order.CanceledAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	if err := s.promotionService.ReverseUsage(order.ID); err != nil {
		logger.Errorw("promotion_usage_reverse_failed", "order_id", order.ID, "error", err)
	}
	logger.Infow("order_cancelled", "order_id", order.ID)
	return order, nil
}

// GetOrder 获取订单详情（含明细）
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDWithDetails(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("LN%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
