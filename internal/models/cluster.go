package models

import "time"

// Cluster 客户分群
type Cluster struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 名称
	CreatedAt time.Time `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`          // 更新时间
}

// TableName 指定表名
func (Cluster) TableName() string {
	return "clusters"
}

// ClientCluster 分群成员关系
type ClientCluster struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                       // 主键
	ClusterID uint      `gorm:"not null;uniqueIndex:idx_cluster_user" json:"cluster_id"`    // 分群ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cluster_user;index" json:"user_id"` // 用户ID
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                    // 加入时间
}

// TableName 指定表名
func (ClientCluster) TableName() string {
	return "client_clusters"
}
