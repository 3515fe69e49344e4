package repository

import (
	"errors"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 门店数据访问接口
type StoreRepository interface {
	GetByID(id string) (*models.Store, error)
	Create(store *models.Store) error
	Update(store *models.Store) error
	List(filter StoreListFilter) ([]models.Store, int64, error)
	WithTx(tx *gorm.DB) *GormStoreRepository
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStoreRepository) WithTx(tx *gorm.DB) *GormStoreRepository {
	if tx == nil {
		return r
	}
	return &GormStoreRepository{db: tx}
}

// GetByID 根据ID获取门店
func (r *GormStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Create 创建门店
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// Update 更新门店
func (r *GormStoreRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// List 获取门店列表
func (r *GormStoreRepository) List(filter StoreListFilter) ([]models.Store, int64, error) {
	var stores []models.Store
	query := r.db.Model(&models.Store{})

	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.StoreStatusActive)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at desc, id desc").Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// MachineRepository 设备数据访问接口
type MachineRepository interface {
	GetByID(id string) (*models.Machine, error)
	ListByIDs(ids []string) ([]models.Machine, error)
	ListByStore(storeID string) ([]models.Machine, error)
	Create(machine *models.Machine) error
	Update(machine *models.Machine) error
	WithTx(tx *gorm.DB) *GormMachineRepository
}

// GormMachineRepository GORM 实现
type GormMachineRepository struct {
	db *gorm.DB
}

// NewMachineRepository 创建设备仓库
func NewMachineRepository(db *gorm.DB) *GormMachineRepository {
	return &GormMachineRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMachineRepository) WithTx(tx *gorm.DB) *GormMachineRepository {
	if tx == nil {
		return r
	}
	return &GormMachineRepository{db: tx}
}

// GetByID 根据ID获取设备
func (r *GormMachineRepository) GetByID(id string) (*models.Machine, error) {
	var machine models.Machine
	if err := r.db.Where("id = ?", id).First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &machine, nil
}

// ListByIDs 批量获取设备
func (r *GormMachineRepository) ListByIDs(ids []string) ([]models.Machine, error) {
	if len(ids) == 0 {
		return []models.Machine{}, nil
	}
	var machines []models.Machine
	if err := r.db.Where("id IN ?", ids).Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// ListByStore 获取门店下全部设备
func (r *GormMachineRepository) ListByStore(storeID string) ([]models.Machine, error) {
	var machines []models.Machine
	if err := r.db.Where("store_id = ?", storeID).Order("name asc").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// Create 创建设备
func (r *GormMachineRepository) Create(machine *models.Machine) error {
	return r.db.Create(machine).Error
}

// Update 更新设备
func (r *GormMachineRepository) Update(machine *models.Machine) error {
	return r.db.Save(machine).Error
}
