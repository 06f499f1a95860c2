package repository

import (
	"errors"

	"github.com/vitrina-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClusterRepository 客户分群数据访问接口
type ClusterRepository interface {
	GetByID(id uint) (*models.Cluster, error)
	IsMember(clusterID, userID uint) (bool, error)
	AddMember(clusterID, userID uint) error
	RemoveMember(clusterID, userID uint) error
	WithTx(tx *gorm.DB) *GormClusterRepository
}

// GormClusterRepository GORM 实现
type GormClusterRepository struct {
	db *gorm.DB
}

// NewClusterRepository 创建分群仓库
func NewClusterRepository(db *gorm.DB) *GormClusterRepository {
	return &GormClusterRepository{db: db}
}

// WithTx 绑定事务
func (r *GormClusterRepository) WithTx(tx *gorm.DB) *GormClusterRepository {
	if tx == nil {
		return r
	}
	return &GormClusterRepository{db: tx}
}

// GetByID 获取分群
func (r *GormClusterRepository) GetByID(id uint) (*models.Cluster, error) {
	var cluster models.Cluster
	if err := r.db.First(&cluster, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cluster, nil
}

// IsMember 判断用户是否属于分群
func (r *GormClusterRepository) IsMember(clusterID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ClientCluster{}).
		Where("cluster_id = ? AND user_id = ?", clusterID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember 加入分群，重复加入忽略
func (r *GormClusterRepository) AddMember(clusterID, userID uint) error {
	member := models.ClientCluster{ClusterID: clusterID, UserID: userID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// RemoveMember 移出分群
func (r *GormClusterRepository) RemoveMember(clusterID, userID uint) error {
	return r.db.Where("cluster_id = ? AND user_id = ?", clusterID, userID).Delete(&models.ClientCluster{}).Error
}
