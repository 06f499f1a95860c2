package repository

import (
	"github.com/vitrina-next/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠码使用流水，只追加不修改
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	SummarizeByCoupon(couponID uint) (*CouponUsageSummary, error)
	ListByCoupon(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建使用流水仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create 追加一条使用记录
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CouponUsageSummary 优惠码流水汇总
type CouponUsageSummary struct {
	Count         int64        `gorm:"column:usage_count"`
	Users         int64        `gorm:"column:user_count"`
	TotalDiscount models.Money `gorm:"column:total_discount"`
}

// SummarizeByCoupon 汇总使用次数、去重用户数与累计优惠金额
func (r *GormCouponUsageRepository) SummarizeByCoupon(couponID uint) (*CouponUsageSummary, error) {
	var summary CouponUsageSummary
	err := r.db.Model(&models.CouponUsage{}).
		Select("COUNT(*) AS usage_count, COUNT(DISTINCT user_id) AS user_count, COALESCE(SUM(discount_amount), 0) AS total_discount").
		Where("coupon_id = ?", couponID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListByCoupon 分页查询优惠码使用记录
func (r *GormCouponUsageRepository) ListByCoupon(filter CouponUsageListFilter) ([]models.CouponUsage, int64, error) {
	query := r.db.Model(&models.CouponUsage{}).Where("coupon_id = ?", filter.CouponID)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderedOnly {
		query = query.Where("order_id IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var usages []models.CouponUsage
	if err := query.Order("id desc").Find(&usages).Error; err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}
