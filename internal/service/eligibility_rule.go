package service

import (
	"context"
	"fmt"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/shopspring/decimal"
)

// UserContext 参与资格判定的用户信息
type UserContext struct {
	UserID uint
}

// OrderHistory 查询用户历史订单
type OrderHistory interface {
	CountDeliveredOrders(ctx context.Context, userID uint) (int64, error)
}

// EligibilityProgress 门槛达成情况
type EligibilityProgress struct {
	Applicable bool
	Current    decimal.Decimal
	Required   decimal.Decimal
}

// Remaining 距离门槛还差多少
func (p EligibilityProgress) Remaining() decimal.Decimal {
	remaining := p.Required.Sub(p.Current)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// EligibilityRule 自动活动的资格规则
// 仅 quantityRule、orderCountRule、unitMeasureRule 三种实现
type EligibilityRule interface {
	Evaluate(ctx context.Context, lines []LineItem, user UserContext) (EligibilityProgress, error)
	Kind() string
	sealed()
}

type quantityRule struct {
	scope promotionScope
	min   int
}

func (r quantityRule) Kind() string { return constants.PromotionTypeQuantityDiscount }
func (quantityRule) sealed() {}

func (r quantityRule) Evaluate(_ context.Context, lines []LineItem, _ UserContext) (EligibilityProgress, error) {
	total := 0
	for _, line := range lines {
		if r.scope.includes(line) {
			total += line.Quantity
		}
	}
	return EligibilityProgress{
		Applicable: total >= r.min,
		Current:    decimal.NewFromInt(int64(total)),
		Required:   decimal.NewFromInt(int64(r.min)),
	}, nil
}

type orderCountRule struct {
	min     int
	history OrderHistory
}

func (r orderCountRule) Kind() string { return constants.PromotionTypeOrderCountDiscount }
func (orderCountRule) sealed() {}

func (r orderCountRule) Evaluate(ctx context.Context, _ []LineItem, user UserContext) (EligibilityProgress, error) {
	var delivered int64
	if user.UserID != 0 && r.history != nil {
		count, err := r.history.CountDeliveredOrders(ctx, user.UserID)
		if err != nil {
			return EligibilityProgress{}, fmt.Errorf("count delivered orders: %w", err)
		}
		delivered = count
	}
	return EligibilityProgress{
		Applicable: delivered >= int64(r.min),
		Current:    decimal.NewFromInt(delivered),
		Required:   decimal.NewFromInt(int64(r.min)),
	}, nil
}

type unitMeasureRule struct {
	scope promotionScope
	min   decimal.Decimal
}

func (r unitMeasureRule) Kind() string { return constants.PromotionTypeUnitDiscount }
func (unitMeasureRule) sealed() {}

func (r unitMeasureRule) Evaluate(_ context.Context, lines []LineItem, _ UserContext) (EligibilityProgress, error) {
	total := decimal.Zero
	for _, line := range lines {
		if r.scope.includes(line) {
			total = total.Add(line.UnitMeasure)
		}
	}
	return EligibilityProgress{
		Applicable: total.GreaterThanOrEqual(r.min),
		Current:    total,
		Required:   r.min,
	}, nil
}

// RuleForPromotion 返回活动对应的资格规则；offer/promotion/coupon 等类型没有自动规则
func RuleForPromotion(promotion *models.Promotion, history OrderHistory) (EligibilityRule, bool) {
	if promotion == nil {
		return nil, false
	}
	scope := scopeOf(promotion)
	switch promotion.PromotionType {
	case constants.PromotionTypeQuantityDiscount:
		return quantityRule{scope: scope, min: nonNegative(promotion.MinQuantity)}, true
	case constants.PromotionTypeOrderCountDiscount:
		return orderCountRule{min: nonNegative(promotion.MinOrderCount), history: history}, true
	case constants.PromotionTypeUnitDiscount:
		threshold := promotion.MinUnitMeasure
		if threshold.IsNegative() {
			threshold = decimal.Zero
		}
		return unitMeasureRule{scope: scope, min: threshold}, true
	default:
		return nil, false
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// repositoryOrderHistory 基于订单仓库统计已送达订单
type repositoryOrderHistory struct {
	repo repository.OrderRepository
}

func (h repositoryOrderHistory) CountDeliveredOrders(_ context.Context, userID uint) (int64, error) {
	if h.repo == nil {
		return 0, nil
	}
	return h.repo.CountByUserAndStatus(userID, constants.OrderStatusDelivered)
}
