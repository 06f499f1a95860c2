package models

import "time"

// Category 商品分类
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"not null" json:"name"`             // 名称
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	CreatedAt time.Time `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`          // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
