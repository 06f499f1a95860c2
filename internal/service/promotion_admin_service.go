package service

import (
	"context"
	"strings"
	"time"

	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionAdminService 活动管理服务
type PromotionAdminService struct {
	db          *gorm.DB
	repo        repository.PromotionRepository
	clusterRepo repository.ClusterRepository
}

// NewPromotionAdminService 创建活动管理服务
func NewPromotionAdminService(db *gorm.DB, repo repository.PromotionRepository, clusterRepo repository.ClusterRepository) *PromotionAdminService {
	return &PromotionAdminService{db: db, repo: repo, clusterRepo: clusterRepo}
}

// PromotionInput 创建/更新活动输入
type PromotionInput struct {
	Name                  string
	Description           string
	PromotionType         string
	CouponType            string
	DiscountValue         models.Money
	AppliesTo             string
	IsExclusive           bool
	MinQuantity           int
	MinOrderCount         int
	MinUnitMeasure        decimal.Decimal
	StartDate             time.Time
	EndDate               time.Time
	Status                string
	ClusterID             *uint
	RestrictToCluster     bool
	UsageLimit            int
	UsageLimitPerCustomer int
	VariantIDs            []uint
	CategoryIDs           []uint
}

var (
	promotionTypes = map[string]struct{}{
		constants.PromotionTypeQuantityDiscount:   {},
		constants.PromotionTypeOrderCountDiscount: {},
		constants.PromotionTypeUnitDiscount:       {},
		constants.PromotionTypeOffer:              {},
		constants.PromotionTypePromotion:          {},
		constants.PromotionTypeCoupon:             {},
	}
	couponTypes = map[string]struct{}{
		constants.CouponTypePercentageDiscount: {},
		constants.CouponTypeFixedDiscount:      {},
		constants.CouponTypeFreeShipping:       {},
	}
	// 自动活动按百分比分摊到行，不支持固定金额或包邮
	automaticPromotionTypes = map[string]struct{}{
		constants.PromotionTypeQuantityDiscount:   {},
		constants.PromotionTypeOrderCountDiscount: {},
		constants.PromotionTypeUnitDiscount:       {},
	}
	appliesToValues = map[string]struct{}{
		constants.AppliesToAll:                {},
		constants.AppliesToSpecificProducts:   {},
		constants.AppliesToSpecificCategories: {},
	}
)

// normalizePromotionInput 校验并归一化活动输入
func (s *PromotionAdminService) normalizePromotionInput(input PromotionInput) (PromotionInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.PromotionType = strings.ToLower(strings.TrimSpace(input.PromotionType))
	input.CouponType = strings.ToLower(strings.TrimSpace(input.CouponType))
	input.AppliesTo = strings.ToLower(strings.TrimSpace(input.AppliesTo))
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.AppliesTo == "" {
		input.AppliesTo = constants.AppliesToAll
	}
	if input.Status == "" {
		input.Status = constants.PromotionStatusActive
	}

	if input.Name == "" {
		return input, ErrPromotionInvalid
	}
	if _, ok := promotionTypes[input.PromotionType]; !ok {
		return input, ErrPromotionInvalid
	}
	if _, ok := couponTypes[input.CouponType]; !ok {
		return input, ErrPromotionInvalid
	}
	if _, ok := appliesToValues[input.AppliesTo]; !ok {
		return input, ErrPromotionInvalid
	}
	if input.Status != constants.PromotionStatusActive && input.Status != constants.PromotionStatusInactive {
		return input, ErrPromotionInvalid
	}

	if _, automatic := automaticPromotionTypes[input.PromotionType]; automatic && input.CouponType != constants.CouponTypePercentageDiscount {
		return input, ErrPromotionInvalid
	}

	value := input.DiscountValue.Decimal
	switch input.CouponType {
	case constants.CouponTypePercentageDiscount:
		if !value.IsPositive() || value.GreaterThan(hundred) {
			return input, ErrPromotionInvalid
		}
	case constants.CouponTypeFixedDiscount:
		if !value.IsPositive() {
			return input, ErrPromotionInvalid
		}
	case constants.CouponTypeFreeShipping:
		if value.IsNegative() {
			return input, ErrPromotionInvalid
		}
	}

	if input.MinQuantity < 0 || input.MinOrderCount < 0 || input.MinUnitMeasure.IsNegative() {
		return input, ErrPromotionInvalid
	}
	if input.UsageLimit < 0 || input.UsageLimitPerCustomer < 0 {
		return input, ErrPromotionInvalid
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.EndDate.Before(input.StartDate) {
		return input, ErrPromotionInvalid
	}

	input.VariantIDs = uniqueIDs(input.VariantIDs)
	input.CategoryIDs = uniqueIDs(input.CategoryIDs)
	switch input.AppliesTo {
	case constants.AppliesToSpecificProducts:
		if len(input.VariantIDs) == 0 {
			return input, ErrPromotionInvalid
		}
		input.CategoryIDs = nil
	case constants.AppliesToSpecificCategories:
		if len(input.CategoryIDs) == 0 {
			return input, ErrPromotionInvalid
		}
		input.VariantIDs = nil
	default:
		input.VariantIDs = nil
		input.CategoryIDs = nil
	}

	if input.RestrictToCluster {
		if input.ClusterID == nil || *input.ClusterID == 0 {
			return input, ErrPromotionInvalid
		}
		cluster, err := s.clusterRepo.GetByID(*input.ClusterID)
		if err != nil {
			return input, err
		}
		if cluster == nil {
			return input, ErrClusterNotFound
		}
	}
	return input, nil
}

func applyPromotionInput(promotion *models.Promotion, input PromotionInput) {
	promotion.Name = input.Name
	promotion.Description = strings.TrimSpace(input.Description)
	promotion.PromotionType = input.PromotionType
	promotion.CouponType = input.CouponType
	promotion.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue.Decimal)
	promotion.AppliesTo = input.AppliesTo
	promotion.IsExclusive = input.IsExclusive
	promotion.MinQuantity = input.MinQuantity
	promotion.MinOrderCount = input.MinOrderCount
	promotion.MinUnitMeasure = input.MinUnitMeasure
	promotion.StartDate = input.StartDate
	promotion.EndDate = input.EndDate
	promotion.Status = input.Status
	promotion.ClusterID = input.ClusterID
	promotion.RestrictToCluster = input.RestrictToCluster
	promotion.UsageLimit = input.UsageLimit
	promotion.UsageLimitPerCustomer = input.UsageLimitPerCustomer
}

// Create 创建活动
func (s *PromotionAdminService) Create(ctx context.Context, input PromotionInput) (*models.Promotion, error) {
	normalized, err := s.normalizePromotionInput(input)
	if err != nil {
		return nil, err
	}
	promotion := &models.Promotion{}
	applyPromotionInput(promotion, normalized)
	for _, id := range normalized.VariantIDs {
		promotion.Products = append(promotion.Products, models.PromotionProduct{VariantID: id})
	}
	for _, id := range normalized.CategoryIDs {
		promotion.Categories = append(promotion.Categories, models.PromotionCategory{CategoryID: id})
	}
	if err := s.repo.Create(promotion); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	logger.Infow("promotion_created", "promotion_id", promotion.ID, "promotion_type", promotion.PromotionType)
	return promotion, nil
}

// Update 更新活动并覆盖适用范围
func (s *PromotionAdminService) Update(ctx context.Context, id uint, input PromotionInput) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPromotionNotFound
	}
	normalized, err := s.normalizePromotionInput(input)
	if err != nil {
		return nil, err
	}
	applyPromotionInput(existing, normalized)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(existing); err != nil {
			return err
		}
		return repo.ReplaceScopes(existing.ID, normalized.VariantIDs, normalized.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	logger.Infow("promotion_updated", "promotion_id", existing.ID)
	return s.repo.GetByID(existing.ID)
}

// Get 获取活动详情
func (s *PromotionAdminService) Get(id uint) (*models.Promotion, error) {
	if id == 0 {
		return nil, ErrPromotionInvalid
	}
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 获取活动列表
func (s *PromotionAdminService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.PromotionType = strings.ToLower(strings.TrimSpace(filter.PromotionType))
	return s.repo.List(filter)
}

// Activate 启用活动
func (s *PromotionAdminService) Activate(ctx context.Context, id uint) (*models.Promotion, error) {
	return s.setStatus(ctx, id, constants.PromotionStatusActive)
}

// Deactivate 停用活动（逻辑下线，不删除）
func (s *PromotionAdminService) Deactivate(ctx context.Context, id uint) (*models.Promotion, error) {
	return s.setStatus(ctx, id, constants.PromotionStatusInactive)
}

func (s *PromotionAdminService) setStatus(ctx context.Context, id uint, status string) (*models.Promotion, error) {
	promotion, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if promotion.Status == status {
		return promotion, nil
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	promotion.Status = status
	s.invalidateCatalog(ctx)
	logger.Infow("promotion_status_changed", "promotion_id", id, "status", status)
	return promotion, nil
}

// ExpireEnded 停用已过期活动，返回处理数量
func (s *PromotionAdminService) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	affected, err := s.repo.DeactivateEnded(now)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.invalidateCatalog(ctx)
	}
	return affected, nil
}

func (s *PromotionAdminService) invalidateCatalog(ctx context.Context) {
	if err := cache.InvalidateActivePromotions(ctx); err != nil {
		logger.Warnw("promotion_catalog_invalidate_failed", "error", err)
	}
}

func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
