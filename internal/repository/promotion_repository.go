package repository

import (
	"errors"
	"time"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository 活动数据访问接口
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	ListActive(now time.Time) ([]models.Promotion, error)
	ListUnexpired(now time.Time) ([]models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	UpdateStatus(id uint, status string) error
	ReplaceScopes(promotionID uint, variantIDs, categoryIDs []uint) error
	DeactivateEnded(now time.Time) (int64, error)
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	WithTx(tx *gorm.DB) *GormPromotionRepository
}

// GormPromotionRepository GORM 实现
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建活动仓库
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) *GormPromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

func (r *GormPromotionRepository) withScopes() *gorm.DB {
	return r.db.Preload("Products").Preload("Categories")
}

// GetByID 根据ID获取活动（含适用范围）
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.withScopes().First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// ListActive 获取当前时间窗口内的启用活动，按 ID 升序
func (r *GormPromotionRepository) ListActive(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.withScopes().
		Where("status = ?", constants.PromotionStatusActive).
		Where("start_date <= ? AND end_date >= ?", now, now)
	if err := query.Order("id asc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListUnexpired 获取启用且尚未结束的活动（含未开始），按 ID 升序，用于目录快照
func (r *GormPromotionRepository) ListUnexpired(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.withScopes().
		Where("status = ?", constants.PromotionStatusActive).
		Where("end_date >= ?", now)
	if err := query.Order("id asc").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Create 创建活动及其适用范围
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update 更新活动主体字段，不触碰适用范围
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Omit("Products", "Categories").Save(promotion).Error
}

// UpdateStatus 启用/停用活动
func (r *GormPromotionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Promotion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// ReplaceScopes 覆盖活动的商品/分类范围
func (r *GormPromotionRepository) ReplaceScopes(promotionID uint, variantIDs, categoryIDs []uint) error {
	if err := r.db.Where("promotion_id = ?", promotionID).Delete(&models.PromotionProduct{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("promotion_id = ?", promotionID).Delete(&models.PromotionCategory{}).Error; err != nil {
		return err
	}
	if len(variantIDs) > 0 {
		rows := make([]models.PromotionProduct, 0, len(variantIDs))
		for _, id := range variantIDs {
			rows = append(rows, models.PromotionProduct{PromotionID: promotionID, VariantID: id})
		}
		if err := r.db.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(categoryIDs) > 0 {
		rows := make([]models.PromotionCategory, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			rows = append(rows, models.PromotionCategory{PromotionID: promotionID, CategoryID: id})
		}
		if err := r.db.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeactivateEnded 将已过结束时间的启用活动置为停用，返回影响行数
func (r *GormPromotionRepository) DeactivateEnded(now time.Time) (int64, error) {
	result := r.db.Model(&models.Promotion{}).
		Where("status = ? AND end_date < ?", constants.PromotionStatusActive, now).
		Updates(map[string]interface{}{
			"status":     constants.PromotionStatusInactive,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// List 获取活动列表
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	query := r.db.Model(&models.Promotion{})
	if filter.ID != 0 {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PromotionType != "" {
		query = query.Where("promotion_type = ?", filter.PromotionType)
	}
	query = applyKeyword(query, filter.Keyword, "name", "description")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var promotions []models.Promotion
	if err := query.Preload("Products").Preload("Categories").Order("id desc").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}
	return promotions, total, nil
}
