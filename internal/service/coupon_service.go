package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠码校验与折扣计算
type CouponService struct {
	couponRepo  repository.CouponRepository
	clusterRepo repository.ClusterRepository
	promotions  *PromotionService
	now         func() time.Time
}

// NewCouponService 创建优惠码服务
func NewCouponService(couponRepo repository.CouponRepository, clusterRepo repository.ClusterRepository, promotions *PromotionService) *CouponService {
	return &CouponService{
		couponRepo:  couponRepo,
		clusterRepo: clusterRepo,
		promotions:  promotions,
		now:         time.Now,
	}
}

// WithTx 返回绑定事务的副本
func (s *CouponService) WithTx(tx *gorm.DB) *CouponService {
	if tx == nil {
		return s
	}
	scoped := *s
	scoped.couponRepo = s.couponRepo.WithTx(tx)
	scoped.clusterRepo = s.clusterRepo.WithTx(tx)
	scoped.promotions = s.promotions.WithTx(tx)
	return &scoped
}

// CouponRequest 优惠码解析输入
type CouponRequest struct {
	Code           string
	UserID         uint
	Lines          []LineItem
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	AutoPromotions []models.Promotion
}

// CouponResolution 优惠码解析结果；Applied 为 false 时 Reason 给出拒绝原因
type CouponResolution struct {
	Applied      bool
	Reason       string
	Coupon       *models.Coupon
	Discount     decimal.Decimal
	ShippingCost decimal.Decimal
	FreeShipping bool
}

func rejected(reason string, coupon *models.Coupon, shipping decimal.Decimal) *CouponResolution {
	return &CouponResolution{
		Reason:       reason,
		Coupon:       coupon,
		Discount:     decimal.Zero,
		ShippingCost: shipping,
	}
}

// Resolve 解析优惠码；业务拒绝不视为错误，只有系统故障返回 error
func (s *CouponService) Resolve(ctx context.Context, req CouponRequest) (*CouponResolution, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, ErrCouponCodeRequired
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}
	if coupon == nil || coupon.Promotion == nil {
		return rejected(constants.CouponRejectNotFound, nil, req.ShippingCost), nil
	}
	if reason := s.checkWindow(coupon); reason != "" {
		return rejected(reason, coupon, req.ShippingCost), nil
	}

	promotion := coupon.Promotion
	if promotion.RestrictToCluster {
		member, err := s.isClusterMember(promotion, req.UserID)
		if err != nil {
			return nil, err
		}
		if !member {
			return rejected(constants.CouponRejectClusterRestricted, coupon, req.ShippingCost), nil
		}
	}

	inScope, err := s.inScope(ctx, promotion, req)
	if err != nil {
		return nil, err
	}
	if !inScope {
		return rejected(constants.CouponRejectScopeMismatch, coupon, req.ShippingCost), nil
	}

	// 独占优惠码不与任何自动活动叠加
	if promotion.IsExclusive && len(req.AutoPromotions) > 0 {
		return rejected(constants.CouponRejectExclusiveConflict, coupon, req.ShippingCost), nil
	}
	for _, auto := range req.AutoPromotions {
		if auto.IsExclusive {
			return rejected(constants.CouponRejectExclusiveConflict, coupon, req.ShippingCost), nil
		}
	}

	return computeCouponDiscount(coupon, req.Subtotal, req.ShippingCost), nil
}

func (s *CouponService) checkWindow(coupon *models.Coupon) string {
	promotion := coupon.Promotion
	if coupon.Status != constants.CouponStatusActive || promotion.Status != constants.PromotionStatusActive {
		return constants.CouponRejectInactive
	}
	now := s.now()
	if now.Before(promotion.StartDate) {
		return constants.CouponRejectNotStarted
	}
	if now.After(promotion.EndDate) {
		return constants.CouponRejectExpired
	}
	return ""
}

func (s *CouponService) isClusterMember(promotion *models.Promotion, userID uint) (bool, error) {
	if promotion.ClusterID == nil || *promotion.ClusterID == 0 || userID == 0 {
		return false, nil
	}
	member, err := s.clusterRepo.IsMember(*promotion.ClusterID, userID)
	if err != nil {
		return false, fmt.Errorf("check cluster membership: %w", err)
	}
	return member, nil
}

// inScope 至少一行落在优惠码活动范围内；带门槛的类型还需满足门槛
func (s *CouponService) inScope(ctx context.Context, promotion *models.Promotion, req CouponRequest) (bool, error) {
	if !scopeOf(promotion).anyIncluded(req.Lines) {
		return false, nil
	}
	progress, hasRule, err := s.promotions.EvaluatePromotion(ctx, promotion, req.Lines, req.UserID)
	if err != nil {
		return false, err
	}
	if hasRule && !progress.Applicable {
		return false, nil
	}
	return true, nil
}

func computeCouponDiscount(coupon *models.Coupon, subtotal, shipping decimal.Decimal) *CouponResolution {
	result := &CouponResolution{
		Applied:      true,
		Coupon:       coupon,
		Discount:     decimal.Zero,
		ShippingCost: shipping,
	}
	value := coupon.Promotion.DiscountValue.Decimal
	switch coupon.Promotion.CouponType {
	case constants.CouponTypePercentageDiscount:
		discount := subtotal.Mul(value).Div(hundred)
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		result.Discount = discount.Round(2)
	case constants.CouponTypeFixedDiscount:
		discount := value
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		result.Discount = discount.Round(2)
	case constants.CouponTypeFreeShipping:
		result.FreeShipping = true
		result.ShippingCost = decimal.Zero
	}
	if result.Discount.IsNegative() {
		result.Discount = decimal.Zero
	}
	return result
}
