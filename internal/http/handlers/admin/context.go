package admin

import (
	handlershared "github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 活动、优惠码、客户分群与权限的管理端接口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.ContextUint(c, "admin_id", "error.unauthorized")
}
