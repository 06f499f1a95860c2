package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutInput 下单输入
type CheckoutInput struct {
	UserID                uint
	CouponCode            string
	DeliveryOption        string
	EstimatedDeliveryDays int
	Locale                string
}

// CheckoutResult 下单结果
type CheckoutResult struct {
	Order   *models.Order  `json:"order"`
	Pricing *PricingResult `json:"pricing"`
}

// CheckoutService 购物车下单
type CheckoutService struct {
	pricing   *PricingService
	orderRepo repository.OrderRepository
}

// NewCheckoutService 创建下单服务
func NewCheckoutService(pricing *PricingService, orderRepo repository.OrderRepository) *CheckoutService {
	return &CheckoutService{pricing: pricing, orderRepo: orderRepo}
}

// PlaceOrder 在单个事务内定价、建单、记录优惠码使用并清空购物车
// 优惠码被拒绝时整体回滚并返回 *CouponRejectedError
func (s *CheckoutService) PlaceOrder(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if input.UserID == 0 {
		return nil, ErrCartNotFound
	}
	var (
		result *CheckoutResult
		usage  *models.CouponUsage
	)
	err := s.pricing.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := s.pricing.scope(tx)
		computation, err := scope.price(ctx, PricingInput{
			UserID:                input.UserID,
			UseCart:               true,
			CouponCode:            input.CouponCode,
			DeliveryOption:        input.DeliveryOption,
			EstimatedDeliveryDays: input.EstimatedDeliveryDays,
			Locale:                input.Locale,
		})
		if err != nil {
			return err
		}
		if computation.coupon != nil && !computation.coupon.Applied {
			return &CouponRejectedError{Reason: computation.coupon.Reason}
		}

		order := buildOrder(input.UserID, computation)
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if computation.coupon != nil {
			orderID := order.ID
			usage = newCouponUsage(computation, input.UserID, &orderID)
			if err := scope.usageRepo.Create(usage); err != nil {
				return fmt.Errorf("create coupon usage: %w", err)
			}
		}
		if err := scope.cartRepo.ClearItems(computation.cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		result = &CheckoutResult{Order: order, Pricing: computation.result}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_id", result.Order.ID,
		"order_no", result.Order.OrderNo,
		"user_id", input.UserID,
		"total", result.Order.TotalAmount.String(),
	)
	if usage != nil {
		if err := enqueueCouponUsageTask(s.pricing.queueClient, usage); err != nil {
			logger.Warnw("coupon_usage_enqueue_failed", "usage_id", usage.ID, "order_id", result.Order.ID, "error", err)
		}
	}
	return result, nil
}

func buildOrder(userID uint, computation *pricingComputation) *models.Order {
	priced := computation.result
	order := &models.Order{
		OrderNo:               generateOrderNo(),
		UserID:                userID,
		Status:                constants.OrderStatusPending,
		Subtotal:              priced.Subtotal,
		DiscountAmount:        priced.TotalDiscount,
		ShippingCost:          priced.ShippingCost,
		UrgentDeliveryFee:     priced.TotalUrgentDeliveryFee,
		TotalAmount:           priced.Total,
		DeliveryOption:        priced.DeliveryOption,
		EstimatedDeliveryDays: priced.EstimatedDeliveryDays,
		Items:                 make([]models.OrderItem, 0, len(computation.lines)),
	}
	if computation.coupon != nil && computation.coupon.Coupon != nil {
		couponID := computation.coupon.Coupon.ID
		order.CouponID = &couponID
	}
	for _, line := range computation.lines {
		order.Items = append(order.Items, models.OrderItem{
			VariantID:       line.VariantID,
			Quantity:        line.Quantity,
			UnitPrice:       models.NewMoneyFromDecimal(line.UnitPrice),
			Subtotal:        models.NewMoneyFromDecimal(line.Subtotal),
			DiscountApplied: models.NewMoneyFromDecimal(line.DiscountApplied),
		})
	}
	return order
}

func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("VN%s%s", time.Now().Format("20060102150405"), suffix)
}
