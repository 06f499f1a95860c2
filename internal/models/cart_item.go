package models

import "time"

// Cart 用户购物车
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                     // 主键
	UserID    uint      `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Status    string    `gorm:"type:varchar(16);not null;default:'active'" json:"status"` // 状态
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"cart_id"`    // 购物车ID
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"variant_id"` // 商品规格ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                // 数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
