package service

import (
	"context"
	"strings"

	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"
)

// CouponAdminService 优惠码管理服务
type CouponAdminService struct {
	repo          repository.CouponRepository
	promotionRepo repository.PromotionRepository
	usageRepo     repository.CouponUsageRepository
}

// NewCouponAdminService 创建优惠码管理服务
func NewCouponAdminService(repo repository.CouponRepository, promotionRepo repository.PromotionRepository, usageRepo repository.CouponUsageRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo, promotionRepo: promotionRepo, usageRepo: usageRepo}
}

// CreateCouponInput 创建优惠码输入
type CreateCouponInput struct {
	Code        string
	PromotionID uint
	Status      string
}

// CouponUsageStats 优惠码使用统计
type CouponUsageStats struct {
	LedgerCount      int64        `json:"ledger_count"`
	DistinctUsers    int64        `json:"distinct_users"`
	TotalDiscount    models.Money `json:"total_discount"`
	RedemptionCount  int64        `json:"redemption_count"`
	RedemptionCached bool         `json:"redemption_cached"`
}

// Create 创建优惠码，一个活动只能绑定一个优惠码
func (s *CouponAdminService) Create(input CreateCouponInput) (*models.Coupon, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" || input.PromotionID == 0 {
		return nil, ErrCouponInvalid
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.CouponStatusActive
	}
	if status != constants.CouponStatusActive && status != constants.CouponStatusInactive {
		return nil, ErrCouponInvalid
	}

	promotion, err := s.promotionRepo.GetByID(input.PromotionID)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}

	exist, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeExists
	}
	bound, _, err := s.repo.List(repository.CouponListFilter{PromotionID: input.PromotionID, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(bound) > 0 {
		return nil, ErrCouponInvalid
	}

	coupon := &models.Coupon{
		Code:        code,
		PromotionID: promotion.ID,
		Status:      status,
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	coupon.Promotion = promotion
	logger.Infow("coupon_created", "coupon_id", coupon.ID, "promotion_id", promotion.ID)
	return coupon, nil
}

// UpdateStatus 启用/停用优惠码
func (s *CouponAdminService) UpdateStatus(id uint, status string) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponInvalid
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.CouponStatusActive && status != constants.CouponStatusInactive {
		return nil, ErrCouponInvalid
	}
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	coupon.Status = status
	return coupon, nil
}

// List 获取优惠码列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	filter.Code = strings.TrimSpace(filter.Code)
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// ListUsages 分页查看优惠码使用流水
func (s *CouponAdminService) ListUsages(ctx context.Context, filter repository.CouponUsageListFilter) ([]models.CouponUsage, int64, *CouponUsageStats, error) {
	if filter.CouponID == 0 {
		return nil, 0, nil, ErrCouponInvalid
	}
	coupon, err := s.repo.GetByID(filter.CouponID)
	if err != nil {
		return nil, 0, nil, err
	}
	if coupon == nil {
		return nil, 0, nil, ErrCouponNotFound
	}
	usages, total, err := s.usageRepo.ListByCoupon(filter)
	if err != nil {
		return nil, 0, nil, err
	}
	summary, err := s.usageRepo.SummarizeByCoupon(filter.CouponID)
	if err != nil {
		return nil, 0, nil, err
	}
	stats := &CouponUsageStats{
		LedgerCount:   summary.Count,
		DistinctUsers: summary.Users,
		TotalDiscount: summary.TotalDiscount,
	}
	count, hit, err := cache.GetCouponRedemptions(ctx, filter.CouponID)
	if err != nil {
		logger.Warnw("coupon_redemption_counter_read_failed", "coupon_id", filter.CouponID, "error", err)
	}
	stats.RedemptionCount = count
	stats.RedemptionCached = hit
	return usages, total, stats, nil
}
