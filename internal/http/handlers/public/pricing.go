package public

import (
	"strings"

	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PricingCartRequest 使用已保存购物车
type PricingCartRequest struct {
	CartID uint `json:"cart_id"`
}

// PricingItemRequest 立即购买单品
type PricingItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// PricingRequest 定价/使用优惠码请求
type PricingRequest struct {
	CouponCode            string              `json:"coupon_code"`
	Cart                  *PricingCartRequest `json:"cart"`
	Item                  *PricingItemRequest `json:"item"`
	EstimatedDeliveryDays int                 `json:"estimated_delivery_days"`
	DeliveryOption        string              `json:"delivery_option"`
}

func (r PricingRequest) toInput(userID uint, locale string) service.PricingInput {
	input := service.PricingInput{
		UserID:                userID,
		CouponCode:            strings.TrimSpace(r.CouponCode),
		DeliveryOption:        r.DeliveryOption,
		EstimatedDeliveryDays: r.EstimatedDeliveryDays,
		Locale:                locale,
	}
	if r.Cart != nil {
		input.UseCart = true
		input.CartID = r.Cart.CartID
	}
	if r.Item != nil {
		input.Item = &service.PricingItemInput{
			VariantID: r.Item.VariantID,
			Quantity:  r.Item.Quantity,
		}
	}
	return input
}

// ApplyCoupon 使用优惠码：成功时记录使用记录，业务拒绝时返回 success=false
func (h *Handler) ApplyCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if strings.TrimSpace(req.CouponCode) == "" {
		respondError(c, response.CodeBadRequest, "error.coupon_code_required", nil)
		return
	}

	result, err := h.PricingService.ApplyCoupon(c.Request.Context(), req.toInput(uid, requestLocale(c)))
	if err != nil {
		rules := concatMappedHandlerErrors(pricingInputErrorRules, couponApplyExtraErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "error.pricing_failed")
		return
	}
	if !result.Success {
		requestLog(c).Infow("coupon_apply_rejected",
			"user_id", uid,
			"coupon_code", req.CouponCode,
			"reason", result.Reason,
		)
		response.Rejected(c, result.Message, result)
		return
	}
	response.SuccessWithMsg(c, result.Message, result)
}

// PreviewPricing 只读价格预览，优惠码可选
func (h *Handler) PreviewPricing(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.PricingService.Preview(c.Request.Context(), req.toInput(uid, requestLocale(c)))
	if err != nil {
		respondWithMappedError(c, err, pricingInputErrorRules, response.CodeInternal, "error.pricing_failed")
		return
	}
	response.Success(c, result)
}
