package shared

import (
	"github.com/vitrina-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ContextUint 读取鉴权中间件写入的 uint 身份值；缺失视为未登录，类型或取值不对视为 invalidKey
func ContextUint(c *gin.Context, key, invalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case int:
		if v > 0 {
			id = uint(v)
		}
	case float64:
		if v > 0 {
			id = uint(v)
		}
	}
	if id == 0 {
		RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return id, true
}
