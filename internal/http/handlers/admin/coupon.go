package admin

import (
	"github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/repository"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCouponRequest 创建优惠码请求
type CreateCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	PromotionID uint   `json:"promotion_id" binding:"required"`
	Status      string `json:"status"`
}

// UpdateCouponStatusRequest 更新优惠码状态请求
type UpdateCouponStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCoupon 创建优惠码
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.Create(service.CreateCouponInput{
		Code:        req.Code,
		PromotionID: req.PromotionID,
		Status:      req.Status,
	})
	if err != nil {
		respondMappedError(c, err, couponErrorRules)
		return
	}
	response.Success(c, coupon)
}

// GetAdminCoupons 获取优惠码列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	coupons, total, err := h.CouponAdminService.List(repository.CouponListFilter{
		Code:        c.Query("code"),
		Keyword:     c.Query("keyword"),
		PromotionID: shared.ParseOptionalUintQuery(c, "promotion_id"),
		Status:      c.Query("status"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// UpdateCouponStatus 启用/停用优惠码
func (h *Handler) UpdateCouponStatus(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateCouponStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponAdminService.UpdateStatus(id, req.Status)
	if err != nil {
		respondMappedError(c, err, couponErrorRules)
		return
	}
	response.Success(c, coupon)
}

// GetCouponUsages 查看优惠码使用记录（只读）
func (h *Handler) GetCouponUsages(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	page, pageSize := shared.QueryPagination(c)
	usages, total, stats, err := h.CouponAdminService.ListUsages(c.Request.Context(), repository.CouponUsageListFilter{
		CouponID:    id,
		UserID:      shared.ParseOptionalUintQuery(c, "user_id"),
		OrderedOnly: c.Query("ordered_only") == "true",
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondMappedError(c, err, couponErrorRules)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"usages": usages,
		"stats":  stats,
	}, response.BuildPagination(page, pageSize, total))
}
