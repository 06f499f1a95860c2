package service

import (
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/repository"
)

// ClusterAdminService 客户分群成员管理
type ClusterAdminService struct {
	repo repository.ClusterRepository
}

// NewClusterAdminService 创建分群管理服务
func NewClusterAdminService(repo repository.ClusterRepository) *ClusterAdminService {
	return &ClusterAdminService{repo: repo}
}

// AddMember 将用户加入分群，重复加入无副作用
func (s *ClusterAdminService) AddMember(clusterID, userID uint) error {
	if err := s.ensureCluster(clusterID, userID); err != nil {
		return err
	}
	if err := s.repo.AddMember(clusterID, userID); err != nil {
		return err
	}
	logger.Infow("cluster_member_added", "cluster_id", clusterID, "user_id", userID)
	return nil
}

// RemoveMember 将用户移出分群
func (s *ClusterAdminService) RemoveMember(clusterID, userID uint) error {
	if err := s.ensureCluster(clusterID, userID); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(clusterID, userID); err != nil {
		return err
	}
	logger.Infow("cluster_member_removed", "cluster_id", clusterID, "user_id", userID)
	return nil
}

func (s *ClusterAdminService) ensureCluster(clusterID, userID uint) error {
	if clusterID == 0 || userID == 0 {
		return ErrClusterMemberBad
	}
	cluster, err := s.repo.GetByID(clusterID)
	if err != nil {
		return err
	}
	if cluster == nil {
		return ErrClusterNotFound
	}
	return nil
}
