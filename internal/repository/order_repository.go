package repository

import (
	"errors"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetByIDWithDetails(id string) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateEvaluation(order *models.Order) error
	List(filter OrderListFilter) ([]models.Order, int64, error)
	SumPaidByUser(userID string) (decimal.Decimal, error)
	SumPaidByStore(storeID string) (decimal.Decimal, error)
	SumPaidByTenant(tenantID string) (decimal.Decimal, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// paidStatuses 计入消费统计的订单状态
var paidStatuses = []string{
	constants.OrderStatusPaymentSuccess,
	constants.OrderStatusInProgress,
	constants.OrderStatusFinished,
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// GetByID 根据ID获取订单
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDWithDetails 根据ID获取订单（含明细）
func (r *GormOrderRepository) GetByIDWithDetails(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Details").Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateEvaluation 更新评估结果字段（优惠金额、实付金额、命中活动快照）
func (r *GormOrderRepository) UpdateEvaluation(order *models.Order) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"discount_amount":   order.DiscountAmount,
			"total_amount":      order.TotalAmount,
			"promotion_summary": order.PromotionSummary,
		}).Error
}

// List 获取订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.UserID != "" {
		query = query.Where("created_by = ?", filter.UserID)
	}
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SumPaidByUser 汇总用户已支付订单实付金额
func (r *GormOrderRepository) SumPaidByUser(userID string) (decimal.Decimal, error) {
	return r.sumPaid("created_by = ?", userID)
}

// SumPaidByStore 汇总门店已支付订单实付金额
func (r *GormOrderRepository) SumPaidByStore(storeID string) (decimal.Decimal, error) {
	return r.sumPaid("store_id = ?", storeID)
}

// SumPaidByTenant 汇总租户已支付订单实付金额
func (r *GormOrderRepository) SumPaidByTenant(tenantID string) (decimal.Decimal, error) {
	return r.sumPaid("tenant_id = ?", tenantID)
}

func (r *GormOrderRepository) sumPaid(cond string, arg string) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.Model(&models.Order{}).
		Where(cond, arg).
		Where("status IN ?", paidStatuses).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
