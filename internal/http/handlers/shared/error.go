package shared

import (
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/i18n"
	"github.com/vitrina-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := response.RequestID(c); id != "" {
		return logger.SW(response.RequestIDKey, id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应。
func RespondError(c *gin.Context, code int, key string, err error) {
	Respond(c, response.NewHandlerError(code, key, err))
}

// Respond 写出 HandlerError：系统错误记 error 日志，携带原始错误的客户端错误记 info。
func Respond(c *gin.Context, herr *response.HandlerError) {
	if herr == nil {
		return
	}
	msg := i18n.T(i18n.ResolveLocale(c), herr.Key)
	switch {
	case herr.Internal():
		RequestLog(c).Errorw("handler_error",
			"code", herr.Code,
			"key", herr.Key,
			"path", c.FullPath(),
			"error", herr.Err,
		)
	case herr.Err != nil:
		RequestLog(c).Infow("handler_bad_request",
			"code", herr.Code,
			"key", herr.Key,
			"error", herr.Err,
		)
	}
	response.Error(c, herr.Code, msg)
}
