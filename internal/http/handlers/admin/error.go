package admin

import (
	"errors"

	handlershared "github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// adminErrorRule 业务错误到响应码的映射
type adminErrorRule struct {
	target error
	code   int
	key    string
}

var promotionErrorRules = []adminErrorRule{
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, key: "error.promotion_invalid"},
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, key: "error.promotion_not_found"},
	{target: service.ErrClusterNotFound, code: response.CodeBadRequest, key: "error.cluster_not_found"},
}

var couponErrorRules = []adminErrorRule{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, key: "error.coupon_not_found"},
	{target: service.ErrCouponCodeExists, code: response.CodeConflict, key: "error.coupon_code_exists"},
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, key: "error.promotion_not_found"},
}

var clusterErrorRules = []adminErrorRule{
	{target: service.ErrClusterMemberBad, code: response.CodeBadRequest, key: "error.cluster_member_invalid"},
	{target: service.ErrClusterNotFound, code: response.CodeNotFound, key: "error.cluster_not_found"},
}

func respondMappedError(c *gin.Context, err error, rules []adminErrorRule) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.internal_error", err)
}
