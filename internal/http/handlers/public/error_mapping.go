package public

import (
	"errors"

	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var pricingInputErrorRules = []mappedHandlerError{
	{target: service.ErrPricingInputInvalid, code: response.CodeBadRequest, key: "error.pricing_input_invalid"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
	{target: service.ErrVariantUnavailable, code: response.CodeBadRequest, key: "error.variant_unavailable"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrDeliveryOptionInvalid, code: response.CodeBadRequest, key: "error.delivery_option_invalid"},
}

var couponApplyExtraErrorRules = []mappedHandlerError{
	{target: service.ErrCouponCodeRequired, code: response.CodeBadRequest, key: "error.coupon_code_required"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrPricingInputInvalid, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
	{target: service.ErrVariantUnavailable, code: response.CodeBadRequest, key: "error.variant_unavailable"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
}
