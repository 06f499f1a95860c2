package models

import "time"

// OrderItem 订单项
type OrderItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                          // 主键
	OrderID         uint      `gorm:"index;not null" json:"order_id"`                                // 订单ID
	VariantID       uint      `gorm:"index;not null" json:"variant_id"`                              // 商品规格ID
	Quantity        int       `gorm:"not null" json:"quantity"`                                      // 数量
	UnitPrice       Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`                 // 单价
	Subtotal        Money     `gorm:"type:decimal(20,2);not null" json:"subtotal"`                   // 小计
	DiscountApplied Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_applied"` // 活动分摊优惠
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
