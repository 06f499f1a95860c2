package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品
type Product struct {
	ID         uint      `gorm:"primarykey" json:"id"`                   // 主键
	CategoryID uint      `gorm:"index;not null" json:"category_id"`      // 分类ID
	Name       string    `gorm:"not null" json:"name"`                   // 名称
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"` // 是否上架
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                // 更新时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 关联分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品规格（可售卖单位）
type ProductVariant struct {
	ID          uint            `gorm:"primarykey" json:"id"`                                      // 主键
	ProductID   uint            `gorm:"index;not null" json:"product_id"`                          // 商品ID
	SKU         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`          // SKU 编码
	Price       Money           `gorm:"type:decimal(20,2);not null" json:"price"`                  // 单价
	UnitMeasure decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unit_measure"` // 单件计量（kg/m 等）
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`                    // 是否可售
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// CategoryID 返回规格所属商品的分类
func (v *ProductVariant) CategoryID() uint {
	if v == nil || v.Product == nil {
		return 0
	}
	return v.Product.CategoryID
}
