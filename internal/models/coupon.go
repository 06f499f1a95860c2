package models

import "time"

// Coupon 优惠码，一个优惠码绑定一个活动
type Coupon struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                           // 主键
	Code        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`              // 优惠码（区分大小写）
	PromotionID uint      `gorm:"uniqueIndex;not null" json:"promotion_id"`                       // 关联活动ID
	Status      string    `gorm:"type:varchar(16);index;not null;default:'active'" json:"status"` // 状态
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                                        // 更新时间

	Promotion *Promotion `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"` // 关联活动
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
