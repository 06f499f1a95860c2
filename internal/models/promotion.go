package models

import (
	"time"

	"github.com/vitrina-next/internal/constants"

	"github.com/shopspring/decimal"
)

// Promotion 促销活动规则
// promotion_type 决定哪个门槛字段生效，coupon_type 决定 discount_value 的解释方式
type Promotion struct {
	ID                    uint            `gorm:"primarykey" json:"id"`                                           // 主键
	Name                  string          `gorm:"not null" json:"name"`                                           // 名称
	Description           string          `gorm:"type:text" json:"description"`                                   // 描述
	PromotionType         string          `gorm:"type:varchar(32);index;not null" json:"promotion_type"`          // 活动类型
	CouponType            string          `gorm:"type:varchar(32);not null" json:"coupon_type"`                   // 折扣方式（百分比/固定/包邮）
	DiscountValue         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`    // 折扣数值
	AppliesTo             string          `gorm:"type:varchar(32);not null;default:'all'" json:"applies_to"`      // 适用范围
	IsExclusive           bool            `gorm:"not null;default:false" json:"is_exclusive"`                     // 是否独占
	MinQuantity           int             `gorm:"not null;default:0" json:"min_quantity"`                         // 最低件数
	MinOrderCount         int             `gorm:"not null;default:0" json:"min_order_count"`                      // 最低已完成订单数
	MinUnitMeasure        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"min_unit_measure"`  // 最低计量单位总量
	StartDate             time.Time       `gorm:"index;not null" json:"start_date"`                               // 开始时间
	EndDate               time.Time       `gorm:"index;not null" json:"end_date"`                                 // 结束时间
	Status                string          `gorm:"type:varchar(16);index;not null;default:'active'" json:"status"` // 状态
	ClusterID             *uint           `gorm:"index" json:"cluster_id"`                                        // 客户分群ID
	RestrictToCluster     bool            `gorm:"not null;default:false" json:"restrict_to_cluster"`              // 是否仅限分群
	UsageLimit            int             `gorm:"not null;default:0" json:"usage_limit"`                          // 总使用上限（仅记录）
	UsageLimitPerCustomer int             `gorm:"not null;default:0" json:"usage_limit_per_customer"`             // 每人使用上限（仅记录）
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt             time.Time       `gorm:"index" json:"updated_at"`                                        // 更新时间

	Products   []PromotionProduct  `gorm:"foreignKey:PromotionID" json:"products,omitempty"`   // 指定商品范围
	Categories []PromotionCategory `gorm:"foreignKey:PromotionID" json:"categories,omitempty"` // 指定分类范围
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// ActiveAt 判断活动在给定时间是否处于启用窗口内
func (p *Promotion) ActiveAt(now time.Time) bool {
	if p == nil || p.Status != constants.PromotionStatusActive {
		return false
	}
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// VariantIDs 返回指定商品范围
func (p *Promotion) VariantIDs() []uint {
	ids := make([]uint, 0, len(p.Products))
	for _, item := range p.Products {
		ids = append(ids, item.VariantID)
	}
	return ids
}

// CategoryIDs 返回指定分类范围
func (p *Promotion) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, item := range p.Categories {
		ids = append(ids, item.CategoryID)
	}
	return ids
}
