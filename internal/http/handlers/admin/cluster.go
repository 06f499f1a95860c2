package admin

import (
	"github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func parseClusterMember(c *gin.Context) (uint, uint, bool) {
	clusterID, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.cluster_member_invalid", nil)
		return 0, 0, false
	}
	userID, ok := shared.ParseUintParam(c, "user_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.cluster_member_invalid", nil)
		return 0, 0, false
	}
	return clusterID, userID, true
}

// AddClusterMember 将用户加入客户分群
func (h *Handler) AddClusterMember(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	clusterID, userID, ok := parseClusterMember(c)
	if !ok {
		return
	}
	if err := h.ClusterAdminService.AddMember(clusterID, userID); err != nil {
		respondMappedError(c, err, clusterErrorRules)
		return
	}
	requestLog(c).Infow("admin_cluster_member_added", "admin_id", adminID, "cluster_id", clusterID, "user_id", userID)
	response.Success(c, gin.H{"added": true})
}

// RemoveClusterMember 将用户移出客户分群
func (h *Handler) RemoveClusterMember(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	clusterID, userID, ok := parseClusterMember(c)
	if !ok {
		return
	}
	if err := h.ClusterAdminService.RemoveMember(clusterID, userID); err != nil {
		respondMappedError(c, err, clusterErrorRules)
		return
	}
	requestLog(c).Infow("admin_cluster_member_removed", "admin_id", adminID, "cluster_id", clusterID, "user_id", userID)
	response.Success(c, gin.H{"removed": true})
}
