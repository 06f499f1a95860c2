package models

// PromotionProduct 活动指定商品（规格）关联
type PromotionProduct struct {
	ID          uint `gorm:"primarykey" json:"id"`                                               // 主键
	PromotionID uint `gorm:"not null;uniqueIndex:idx_promotion_variant" json:"promotion_id"`     // 活动ID
	VariantID   uint `gorm:"not null;uniqueIndex:idx_promotion_variant;index" json:"variant_id"` // 商品规格ID
}

// TableName 指定表名
func (PromotionProduct) TableName() string {
	return "promotion_products"
}

// PromotionCategory 活动指定分类关联
type PromotionCategory struct {
	ID          uint `gorm:"primarykey" json:"id"`                                                 // 主键
	PromotionID uint `gorm:"not null;uniqueIndex:idx_promotion_category" json:"promotion_id"`      // 活动ID
	CategoryID  uint `gorm:"not null;uniqueIndex:idx_promotion_category;index" json:"category_id"` // 分类ID
}

// TableName 指定表名
func (PromotionCategory) TableName() string {
	return "promotion_categories"
}
