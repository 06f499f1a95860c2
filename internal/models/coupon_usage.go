package models

import "time"

// CouponUsage 优惠码使用流水，只追加不修改
type CouponUsage struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                         // 主键
	PromotionID    uint      `gorm:"index;not null" json:"promotion_id"`                           // 活动ID
	CouponID       uint      `gorm:"index;not null" json:"coupon_id"`                              // 优惠码ID
	UserID         uint      `gorm:"index;not null" json:"user_id"`                                // 用户ID
	CartID         *uint     `gorm:"index" json:"cart_id"`                                         // 购物车ID
	OrderID        *uint     `gorm:"index" json:"order_id"`                                        // 订单ID
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
