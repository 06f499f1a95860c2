package service

import "errors"

// 定价与购物车输入错误
var (
	ErrPricingInputInvalid   = errors.New("pricing input invalid")
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrVariantNotFound       = errors.New("product variant not found")
	ErrVariantUnavailable    = errors.New("product variant unavailable")
	ErrQuantityInvalid       = errors.New("quantity invalid")
	ErrDeliveryOptionInvalid = errors.New("delivery option invalid")
)

// 优惠码错误
var (
	ErrCouponCodeRequired = errors.New("coupon code required")
	ErrCouponRejected     = errors.New("coupon rejected")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponCodeExists   = errors.New("coupon code already exists")
)

// 活动与分群错误
var (
	ErrPromotionInvalid  = errors.New("promotion invalid")
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrClusterNotFound   = errors.New("cluster not found")
	ErrClusterMemberBad  = errors.New("cluster member invalid")
)

// CouponRejectedError 携带拒绝原因的优惠码业务拒绝
type CouponRejectedError struct {
	Reason string
}

func (e *CouponRejectedError) Error() string {
	return "coupon rejected: " + e.Reason
}

// Is 使 errors.Is(err, ErrCouponRejected) 成立
func (e *CouponRejectedError) Is(target error) bool {
	return target == ErrCouponRejected
}
