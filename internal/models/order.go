package models

import "time"

// Order 订单（仅记录下单时的定价快照）
type Order struct {
	ID                    uint      `gorm:"primarykey" json:"id"`                                                // 主键
	OrderNo               string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`               // 订单号
	UserID                uint      `gorm:"index;not null" json:"user_id"`                                       // 用户ID
	Status                string    `gorm:"type:varchar(32);index;not null" json:"status"`                       // 订单状态
	Subtotal              Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`               // 商品小计
	DiscountAmount        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`        // 优惠总额
	ShippingCost          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`          // 运费
	UrgentDeliveryFee     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"urgent_delivery_fee"`    // 加急费
	TotalAmount           Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`           // 应付金额
	CouponID              *uint     `gorm:"index" json:"coupon_id"`                                              // 使用的优惠码ID
	DeliveryOption        string    `gorm:"type:varchar(16);not null;default:'standard'" json:"delivery_option"` // 配送方式
	EstimatedDeliveryDays int       `gorm:"not null;default:0" json:"estimated_delivery_days"`                   // 预计送达天数
	CreatedAt             time.Time `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt             time.Time `gorm:"index" json:"updated_at"`                                             // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
