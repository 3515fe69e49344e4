package repository

import (
	"errors"
	"time"

	"github.com/laundro-next/internal/constants"
	"github.com/laundro-next/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository 促销活动数据访问接口
type CampaignRepository interface {
	GetByID(id string) (*models.PromotionCampaign, error)
	Create(campaign *models.PromotionCampaign) error
	Update(campaign *models.PromotionCampaign) error
	UpdateStatus(id string, status string) error
	SoftDelete(id string) error
	List(filter CampaignListFilter) ([]models.PromotionCampaign, int64, error)
	FetchEligible(tenantID string, now time.Time) ([]models.PromotionCampaign, error)
	ListScheduledDue(now time.Time) ([]models.PromotionCampaign, error)
	ListExpired(now time.Time) ([]models.PromotionCampaign, error)
	WithTx(tx *gorm.DB) *GormCampaignRepository
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建促销活动仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) *GormCampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// GetByID 根据ID获取活动
func (r *GormCampaignRepository) GetByID(id string) (*models.PromotionCampaign, error) {
	var campaign models.PromotionCampaign
	if err := r.db.Where("id = ?", id).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// Create 创建活动
func (r *GormCampaignRepository) Create(campaign *models.PromotionCampaign) error {
	return r.db.Create(campaign).Error
}

// Update 更新活动
func (r *GormCampaignRepository) Update(campaign *models.PromotionCampaign) error {
	return r.db.Save(campaign).Error
}

// UpdateStatus 更新活动状态
func (r *GormCampaignRepository) UpdateStatus(id string, status string) error {
	return r.db.Model(&models.PromotionCampaign{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SoftDelete 软删除活动并置为 INACTIVE
func (r *GormCampaignRepository) SoftDelete(id string) error {
	if err := r.db.Model(&models.PromotionCampaign{}).
		Where("id = ?", id).
		Update("status", constants.CampaignStatusInactive).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", id).Delete(&models.PromotionCampaign{}).Error
}

// List 获取活动列表
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.PromotionCampaign, int64, error) {
	var campaigns []models.PromotionCampaign
	query := r.db.Model(&models.PromotionCampaign{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.ActiveAt != nil {
		query = query.Where("start_time <= ?", *filter.ActiveAt).
			Where("end_time IS NULL OR end_time >= ?", *filter.ActiveAt)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at desc, id desc").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// FetchEligible 获取可参与评估的活动：未删除、状态为 ACTIVE 或 SCHEDULED、
// 已到生效时间且未过失效时间、全局或归属指定租户。
func (r *GormCampaignRepository) FetchEligible(tenantID string, now time.Time) ([]models.PromotionCampaign, error) {
	query := r.db.Model(&models.PromotionCampaign{}).
		Where("status IN ?", []string{constants.CampaignStatusActive, constants.CampaignStatusScheduled}).
		Where("start_time <= ?", now).
		Where("end_time IS NULL OR end_time >= ?", now)

	if tenantID == "" {
		query = query.Where("tenant_id IS NULL OR tenant_id = ''")
	} else {
		query = query.Where("tenant_id IS NULL OR tenant_id = '' OR tenant_id = ?", tenantID)
	}

	var campaigns []models.PromotionCampaign
	if err := query.Order("created_at asc, id asc").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListScheduledDue 获取已到生效时间的 SCHEDULED 活动
func (r *GormCampaignRepository) ListScheduledDue(now time.Time) ([]models.PromotionCampaign, error) {
	var campaigns []models.PromotionCampaign
	if err := r.db.Model(&models.PromotionCampaign{}).
		Where("status = ?", constants.CampaignStatusScheduled).
		Where("start_time <= ?", now).
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListExpired 获取已过失效时间但尚未结束的活动
func (r *GormCampaignRepository) ListExpired(now time.Time) ([]models.PromotionCampaign, error) {
	var campaigns []models.PromotionCampaign
	if err := r.db.Model(&models.PromotionCampaign{}).
		Where("status IN ?", []string{constants.CampaignStatusActive, constants.CampaignStatusScheduled, constants.CampaignStatusPaused}).
		Where("end_time IS NOT NULL AND end_time < ?", now).
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}
