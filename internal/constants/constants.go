package constants

// 活动类型常量
const (
	PromotionTypeQuantityDiscount   = "quantity_discount"
	PromotionTypeOrderCountDiscount = "order_count_discount"
	PromotionTypeUnitDiscount       = "unit_discount"
	PromotionTypeOffer              = "offer"
	PromotionTypePromotion          = "promotion"
	PromotionTypeCoupon             = "coupon"
)

// 折扣计算方式常量
const (
	CouponTypePercentageDiscount = "percentage_discount"
	CouponTypeFixedDiscount      = "fixed_discount"
	CouponTypeFreeShipping       = "free_shipping"
)

// 适用范围常量
const (
	AppliesToAll                = "all"
	AppliesToSpecificProducts   = "specific_products"
	AppliesToSpecificCategories = "specific_categories"
)

// 活动与优惠券状态常量
const (
	PromotionStatusActive   = "active"
	PromotionStatusInactive = "inactive"
	CouponStatusActive      = "active"
	CouponStatusInactive    = "inactive"
)

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// 购物车状态常量
const (
	CartStatusActive = "active"
)

// 配送方式常量
const (
	DeliveryOptionStandard = "standard"
	DeliveryOptionUrgent   = "urgent"
)

// 优惠券拒绝原因
const (
	CouponRejectNotFound          = "coupon_not_found"
	CouponRejectInactive          = "coupon_inactive"
	CouponRejectExpired           = "coupon_expired"
	CouponRejectNotStarted        = "coupon_not_started"
	CouponRejectClusterRestricted = "coupon_cluster_restricted"
	CouponRejectScopeMismatch     = "coupon_scope_mismatch"
	CouponRejectExclusiveConflict = "coupon_exclusive_conflict"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskCouponUsageRecorded = "coupon:usage_recorded"
)
