package public

import (
	"errors"

	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/i18n"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 购物车下单请求
type CreateOrderRequest struct {
	CouponCode            string `json:"coupon_code"`
	DeliveryOption        string `json:"delivery_option"`
	EstimatedDeliveryDays int    `json:"estimated_delivery_days"`
}

// CreateOrder 购物车下单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	locale := requestLocale(c)
	result, err := h.CheckoutService.PlaceOrder(c.Request.Context(), service.CheckoutInput{
		UserID:                uid,
		CouponCode:            req.CouponCode,
		DeliveryOption:        req.DeliveryOption,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
		Locale:                locale,
	})
	if err != nil {
		var rejected *service.CouponRejectedError
		if errors.As(err, &rejected) {
			msg := i18n.T(locale, "coupon.reject."+rejected.Reason)
			response.SuccessWithMsg(c, msg, gin.H{
				"success": false,
				"reason":  rejected.Reason,
				"message": msg,
			})
			return
		}
		respondWithMappedError(c, err, pricingInputErrorRules, response.CodeInternal, "error.order_create_failed")
		return
	}
	response.Success(c, gin.H{
		"success": true,
		"order":   result.Order,
		"pricing": result.Pricing,
	})
}
