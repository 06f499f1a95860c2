package public

import (
	handlershared "github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/i18n"
	"github.com/vitrina-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 用户侧购物车、定价、优惠码与下单接口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.ContextUint(c, "user_id", "error.user_invalid")
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func requestLocale(c *gin.Context) string {
	return i18n.ResolveLocale(c)
}
