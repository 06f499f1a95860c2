package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/i18n"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/queue"
	"github.com/vitrina-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingConfig 运费与配送参数
type PricingConfig struct {
	ShippingCost          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	UrgentDeliveryFee     decimal.Decimal
	StandardDeliveryDays  int
	UrgentDeliveryDays    int
}

// PricingItemInput 立即购买的单个商品
type PricingItemInput struct {
	VariantID uint
	Quantity  int
}

// PricingInput 定价请求；Item 非空时按立即购买定价，否则按用户购物车定价
type PricingInput struct {
	UserID                uint
	UseCart               bool
	CartID                uint
	Item                  *PricingItemInput
	CouponCode            string
	DeliveryOption        string
	EstimatedDeliveryDays int
	Locale                string
}

// AppliedPromotion 定价结果中的活动条目
type AppliedPromotion struct {
	PromotionID     uint         `json:"promotion_id"`
	Name            string       `json:"name"`
	PromotionType   string       `json:"promotion_type"`
	CouponType      string       `json:"coupon_type"`
	DiscountValue   models.Money `json:"discount_value"`
	IsApplicable    bool         `json:"is_applicable"`
	IsExclusive     bool         `json:"is_exclusive"`
	ProgressMessage string       `json:"progress_message"`
}

// PricedItem 定价后的单行
type PricedItem struct {
	VariantID       uint         `json:"variant_id"`
	ProductID       uint         `json:"product_id"`
	CategoryID      uint         `json:"category_id"`
	Quantity        int          `json:"quantity"`
	UnitPrice       models.Money `json:"unit_price"`
	Subtotal        models.Money `json:"subtotal"`
	DiscountApplied models.Money `json:"discount_applied"`
}

// PricingResult 定价结果
type PricingResult struct {
	CartID                 uint               `json:"cart_id,omitempty"`
	Subtotal               models.Money       `json:"subtotal"`
	PromotionDiscount      models.Money       `json:"promotion_discount"`
	CouponDiscount         models.Money       `json:"coupon_discount"`
	TotalDiscount          models.Money       `json:"total_discount"`
	ShippingCost           models.Money       `json:"shipping_cost"`
	TotalUrgentDeliveryFee models.Money       `json:"total_urgent_delivery_fee"`
	Total                  models.Money       `json:"total"`
	DeliveryOption         string             `json:"delivery_option"`
	EstimatedDeliveryDays  int                `json:"estimated_delivery_days"`
	CouponCode             string             `json:"coupon_code"`
	CouponApplied          bool               `json:"coupon_applied"`
	CouponReason           string             `json:"coupon_reason,omitempty"`
	AppliedPromotions      []AppliedPromotion `json:"applied_promotions"`
	Items                  []PricedItem       `json:"items"`
}

// CouponApplyResult 使用优惠码的结果；Success 为 false 时为业务拒绝
type CouponApplyResult struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message"`
	UsageID uint           `json:"usage_id,omitempty"`
	Pricing *PricingResult `json:"pricing"`
}

// PricingService 定价聚合：自动活动 + 优惠码 + 运费
type PricingService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	usageRepo   repository.CouponUsageRepository
	promotions  *PromotionService
	coupons     *CouponService
	cfg         PricingConfig
	queueClient *queue.Client
}

// NewPricingService 创建定价服务
func NewPricingService(db *gorm.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository, usageRepo repository.CouponUsageRepository, promotions *PromotionService, coupons *CouponService, cfg PricingConfig, queueClient *queue.Client) *PricingService {
	if cfg.StandardDeliveryDays <= 0 {
		cfg.StandardDeliveryDays = 5
	}
	if cfg.UrgentDeliveryDays <= 0 {
		cfg.UrgentDeliveryDays = 1
	}
	return &PricingService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		usageRepo:   usageRepo,
		promotions:  promotions,
		coupons:     coupons,
		cfg:         cfg,
		queueClient: queueClient,
	}
}

// pricingScope 一次定价使用的仓库与服务集合；事务内构造时全部绑定同一个 tx
type pricingScope struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	usageRepo   repository.CouponUsageRepository
	promotions  *PromotionService
	coupons     *CouponService
	cfg         PricingConfig
}

func (s *PricingService) scope(tx *gorm.DB) *pricingScope {
	if tx == nil {
		return &pricingScope{
			cartRepo:    s.cartRepo,
			productRepo: s.productRepo,
			usageRepo:   s.usageRepo,
			promotions:  s.promotions,
			coupons:     s.coupons,
			cfg:         s.cfg,
		}
	}
	return &pricingScope{
		cartRepo:    s.cartRepo.WithTx(tx),
		productRepo: s.productRepo.WithTx(tx),
		usageRepo:   s.usageRepo.WithTx(tx),
		promotions:  s.promotions.WithTx(tx),
		coupons:     s.coupons.WithTx(tx),
		cfg:         s.cfg,
	}
}

// pricingComputation 一次定价的中间结果
type pricingComputation struct {
	cart       *models.Cart
	lines      []LineItem
	selection  *PromotionSelection
	coupon     *CouponResolution
	couponCode string
	waived     decimal.Decimal
	result     *PricingResult
}

// Preview 只读定价，不写入任何数据
func (s *PricingService) Preview(ctx context.Context, input PricingInput) (*PricingResult, error) {
	computation, err := s.scope(nil).price(ctx, input)
	if err != nil {
		return nil, err
	}
	return computation.result, nil
}

var errCouponRollback = errors.New("coupon rejected, rollback")

// ApplyCoupon 在单个事务内定价并记录优惠码使用；业务拒绝时回滚并返回 Success=false
func (s *PricingService) ApplyCoupon(ctx context.Context, input PricingInput) (*CouponApplyResult, error) {
	if strings.TrimSpace(input.CouponCode) == "" {
		return nil, ErrCouponCodeRequired
	}
	var (
		result *CouponApplyResult
		usage  *models.CouponUsage
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := s.scope(tx)
		computation, err := scope.price(ctx, input)
		if err != nil {
			return err
		}
		if computation.coupon == nil || !computation.coupon.Applied {
			reason := constants.CouponRejectNotFound
			if computation.coupon != nil {
				reason = computation.coupon.Reason
			}
			result = &CouponApplyResult{
				Success: false,
				Reason:  reason,
				Message: i18n.T(input.Locale, "coupon.reject."+reason),
				Pricing: computation.result,
			}
			return errCouponRollback
		}
		usage = newCouponUsage(computation, input.UserID, nil)
		if err := scope.usageRepo.Create(usage); err != nil {
			return fmt.Errorf("create coupon usage: %w", err)
		}
		result = &CouponApplyResult{
			Success: true,
			Message: i18n.T(input.Locale, "coupon.applied"),
			UsageID: usage.ID,
			Pricing: computation.result,
		}
		return nil
	})
	if err != nil && !errors.Is(err, errCouponRollback) {
		return nil, err
	}
	if usage != nil && result != nil && result.Success {
		logger.Infow("coupon_applied",
			"coupon_id", usage.CouponID,
			"promotion_id", usage.PromotionID,
			"user_id", usage.UserID,
			"usage_id", usage.ID,
			"discount", usage.DiscountAmount.String(),
		)
		if err := enqueueCouponUsageTask(s.queueClient, usage); err != nil {
			logger.Warnw("coupon_usage_enqueue_failed", "usage_id", usage.ID, "error", err)
		}
	}
	return result, nil
}

func newCouponUsage(computation *pricingComputation, userID uint, orderID *uint) *models.CouponUsage {
	coupon := computation.coupon
	amount := coupon.Discount
	if coupon.FreeShipping {
		amount = computation.waived
	}
	usage := &models.CouponUsage{
		PromotionID:    coupon.Coupon.PromotionID,
		CouponID:       coupon.Coupon.ID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: models.NewMoneyFromDecimal(amount),
	}
	if computation.cart != nil {
		cartID := computation.cart.ID
		usage.CartID = &cartID
	}
	return usage
}

// price 计算完整定价，不做任何写入
func (p *pricingScope) price(ctx context.Context, input PricingInput) (*pricingComputation, error) {
	option, err := normalizeDeliveryOption(input.DeliveryOption)
	if err != nil {
		return nil, err
	}
	computation := &pricingComputation{couponCode: strings.TrimSpace(input.CouponCode)}
	lines, cart, err := p.loadLines(input)
	if err != nil {
		return nil, err
	}
	computation.cart = cart
	computation.lines = lines

	selection, err := p.promotions.Evaluate(ctx, lines, input.UserID)
	if err != nil {
		return nil, err
	}
	computation.selection = selection
	allocated, promotionDiscount := AllocateDiscounts(lines, selection.Selected)
	computation.lines = allocated

	subtotal := sumSubtotal(allocated)
	shipping := p.shippingCost(subtotal)
	urgentFee := decimal.Zero
	if option == constants.DeliveryOptionUrgent {
		urgentFee = p.cfg.UrgentDeliveryFee.Mul(decimal.NewFromInt(int64(len(allocated))))
	}

	couponDiscount := decimal.Zero
	if computation.couponCode != "" {
		resolution, err := p.coupons.Resolve(ctx, CouponRequest{
			Code:           computation.couponCode,
			UserID:         input.UserID,
			Lines:          allocated,
			Subtotal:       subtotal,
			ShippingCost:   shipping,
			AutoPromotions: selection.Selected,
		})
		if err != nil {
			return nil, err
		}
		if resolution.Applied {
			couponDiscount = resolution.Discount
			if resolution.FreeShipping {
				computation.waived = shipping
				shipping = resolution.ShippingCost
			}
		}
		computation.coupon = resolution
	}

	totalDiscount := promotionDiscount.Add(couponDiscount)
	total := subtotal.Add(shipping).Add(urgentFee).Sub(totalDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	result := &PricingResult{
		Subtotal:               models.NewMoneyFromDecimal(subtotal),
		PromotionDiscount:      models.NewMoneyFromDecimal(promotionDiscount),
		CouponDiscount:         models.NewMoneyFromDecimal(couponDiscount),
		TotalDiscount:          models.NewMoneyFromDecimal(totalDiscount),
		ShippingCost:           models.NewMoneyFromDecimal(shipping),
		TotalUrgentDeliveryFee: models.NewMoneyFromDecimal(urgentFee),
		Total:                  models.NewMoneyFromDecimal(total),
		DeliveryOption:         option,
		EstimatedDeliveryDays:  p.deliveryDays(option, input.EstimatedDeliveryDays),
		CouponCode:             computation.couponCode,
		AppliedPromotions:      buildAppliedPromotions(selection, computation.coupon, input.Locale),
		Items:                  buildPricedItems(allocated),
	}
	if cart != nil {
		result.CartID = cart.ID
	}
	if computation.coupon != nil {
		result.CouponApplied = computation.coupon.Applied
		result.CouponReason = computation.coupon.Reason
	}
	computation.result = result
	return computation, nil
}

func (p *pricingScope) loadLines(input PricingInput) ([]LineItem, *models.Cart, error) {
	if input.Item != nil {
		line, err := p.loadItemLine(*input.Item)
		if err != nil {
			return nil, nil, err
		}
		return []LineItem{line}, nil, nil
	}
	if !input.UseCart && input.CartID == 0 {
		return nil, nil, ErrPricingInputInvalid
	}
	if input.UserID == 0 {
		return nil, nil, ErrCartNotFound
	}
	cart, err := p.cartRepo.GetActiveByUser(input.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("get active cart: %w", err)
	}
	if cart == nil || (input.CartID != 0 && cart.ID != input.CartID) {
		return nil, nil, ErrCartNotFound
	}
	lines := make([]LineItem, 0, len(cart.Items))
	for i := range cart.Items {
		item := cart.Items[i]
		if item.Variant == nil || !item.Variant.IsActive || item.Quantity <= 0 {
			continue
		}
		if item.Variant.Product != nil && !item.Variant.Product.IsActive {
			continue
		}
		lines = append(lines, NewLineItem(item.Variant, item.Quantity))
	}
	if len(lines) == 0 {
		return nil, nil, ErrCartEmpty
	}
	return lines, cart, nil
}

func (p *pricingScope) loadItemLine(item PricingItemInput) (LineItem, error) {
	if item.VariantID == 0 {
		return LineItem{}, ErrPricingInputInvalid
	}
	if item.Quantity <= 0 {
		return LineItem{}, ErrQuantityInvalid
	}
	variant, err := p.productRepo.GetVariantByID(item.VariantID)
	if err != nil {
		return LineItem{}, fmt.Errorf("get variant: %w", err)
	}
	if variant == nil {
		return LineItem{}, ErrVariantNotFound
	}
	if !variant.IsActive || (variant.Product != nil && !variant.Product.IsActive) {
		return LineItem{}, ErrVariantUnavailable
	}
	return NewLineItem(variant, item.Quantity), nil
}

func (p *pricingScope) shippingCost(subtotal decimal.Decimal) decimal.Decimal {
	threshold := p.cfg.FreeShippingThreshold
	if threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero
	}
	if p.cfg.ShippingCost.IsNegative() {
		return decimal.Zero
	}
	return p.cfg.ShippingCost
}

func (p *pricingScope) deliveryDays(option string, requested int) int {
	if requested > 0 {
		return requested
	}
	if option == constants.DeliveryOptionUrgent {
		return p.cfg.UrgentDeliveryDays
	}
	return p.cfg.StandardDeliveryDays
}

func normalizeDeliveryOption(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", constants.DeliveryOptionStandard:
		return constants.DeliveryOptionStandard, nil
	case constants.DeliveryOptionUrgent:
		return constants.DeliveryOptionUrgent, nil
	default:
		return "", ErrDeliveryOptionInvalid
	}
}

func buildPricedItems(lines []LineItem) []PricedItem {
	items := make([]PricedItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, PricedItem{
			VariantID:       line.VariantID,
			ProductID:       line.ProductID,
			CategoryID:      line.CategoryID,
			Quantity:        line.Quantity,
			UnitPrice:       models.NewMoneyFromDecimal(line.UnitPrice),
			Subtotal:        models.NewMoneyFromDecimal(line.Subtotal),
			DiscountApplied: models.NewMoneyFromDecimal(line.DiscountApplied),
		})
	}
	return items
}

func buildAppliedPromotions(selection *PromotionSelection, coupon *CouponResolution, locale string) []AppliedPromotion {
	entries := make([]AppliedPromotion, 0)
	if selection != nil {
		for _, evaluation := range selection.Evaluations {
			if !evaluation.HasRule {
				continue
			}
			promotion := evaluation.Promotion
			entries = append(entries, AppliedPromotion{
				PromotionID:     promotion.ID,
				Name:            promotion.Name,
				PromotionType:   promotion.PromotionType,
				CouponType:      promotion.CouponType,
				DiscountValue:   promotion.DiscountValue,
				IsApplicable:    evaluation.Selected,
				IsExclusive:     promotion.IsExclusive,
				ProgressMessage: progressMessage(evaluation, locale),
			})
		}
	}
	if coupon != nil && coupon.Applied && coupon.Coupon != nil && coupon.Coupon.Promotion != nil {
		promotion := coupon.Coupon.Promotion
		entries = append(entries, AppliedPromotion{
			PromotionID:     promotion.ID,
			Name:            promotion.Name,
			PromotionType:   promotion.PromotionType,
			CouponType:      promotion.CouponType,
			DiscountValue:   promotion.DiscountValue,
			IsApplicable:    true,
			IsExclusive:     promotion.IsExclusive,
			ProgressMessage: i18n.T(locale, "coupon.applied"),
		})
	}
	return entries
}

func progressMessage(evaluation PromotionEvaluation, locale string) string {
	if evaluation.Selected {
		return i18n.T(locale, "promotion.progress.met")
	}
	if evaluation.Progress.Applicable {
		return i18n.T(locale, "promotion.progress.excluded")
	}
	remaining := evaluation.Progress.Remaining()
	switch evaluation.Promotion.PromotionType {
	case constants.PromotionTypeQuantityDiscount:
		return i18n.Sprintf(locale, "promotion.progress.quantity", remaining.String())
	case constants.PromotionTypeOrderCountDiscount:
		return i18n.Sprintf(locale, "promotion.progress.order_count", remaining.String())
	case constants.PromotionTypeUnitDiscount:
		return i18n.Sprintf(locale, "promotion.progress.unit", remaining.String())
	default:
		return i18n.T(locale, "promotion.progress.coupon_only")
	}
}
