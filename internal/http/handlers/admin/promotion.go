package admin

import (
	"strings"
	"time"

	"github.com/vitrina-next/internal/http/handlers/shared"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PromotionRequest 创建/更新活动请求；金额与计量使用字符串避免浮点误差
type PromotionRequest struct {
	Name                  string `json:"name" binding:"required"`
	Description           string `json:"description"`
	PromotionType         string `json:"promotion_type" binding:"required"`
	CouponType            string `json:"coupon_type" binding:"required"`
	DiscountValue         string `json:"discount_value"`
	AppliesTo             string `json:"applies_to"`
	IsExclusive           bool   `json:"is_exclusive"`
	MinQuantity           int    `json:"min_quantity"`
	MinOrderCount         int    `json:"min_order_count"`
	MinUnitMeasure        string `json:"min_unit_measure"`
	StartDate             string `json:"start_date" binding:"required"`
	EndDate               string `json:"end_date" binding:"required"`
	Status                string `json:"status"`
	ClusterID             *uint  `json:"cluster_id"`
	RestrictToCluster     bool   `json:"restrict_to_cluster"`
	UsageLimit            int    `json:"usage_limit"`
	UsageLimitPerCustomer int    `json:"usage_limit_per_customer"`
	VariantIDs            []uint `json:"variant_ids"`
	CategoryIDs           []uint `json:"category_ids"`
}

func (r PromotionRequest) toInput() (service.PromotionInput, error) {
	value, err := parseDecimal(r.DiscountValue)
	if err != nil {
		return service.PromotionInput{}, err
	}
	unitMeasure, err := parseDecimal(r.MinUnitMeasure)
	if err != nil {
		return service.PromotionInput{}, err
	}
	startDate, err := time.Parse(time.RFC3339, strings.TrimSpace(r.StartDate))
	if err != nil {
		return service.PromotionInput{}, err
	}
	endDate, err := time.Parse(time.RFC3339, strings.TrimSpace(r.EndDate))
	if err != nil {
		return service.PromotionInput{}, err
	}
	return service.PromotionInput{
		Name:                  r.Name,
		Description:           r.Description,
		PromotionType:         r.PromotionType,
		CouponType:            r.CouponType,
		DiscountValue:         models.NewMoneyFromDecimal(value),
		AppliesTo:             r.AppliesTo,
		IsExclusive:           r.IsExclusive,
		MinQuantity:           r.MinQuantity,
		MinOrderCount:         r.MinOrderCount,
		MinUnitMeasure:        unitMeasure,
		StartDate:             startDate,
		EndDate:               endDate,
		Status:                r.Status,
		ClusterID:             r.ClusterID,
		RestrictToCluster:     r.RestrictToCluster,
		UsageLimit:            r.UsageLimit,
		UsageLimitPerCustomer: r.UsageLimitPerCustomer,
		VariantIDs:            r.VariantIDs,
		CategoryIDs:           r.CategoryIDs,
	}, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// CreatePromotion 创建活动
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionAdminService.Create(c.Request.Context(), input)
	if err != nil {
		respondMappedError(c, err, promotionErrorRules)
		return
	}
	requestLog(c).Infow("admin_promotion_created", "admin_id", c.GetUint("admin_id"), "promotion_id", promotion.ID)
	response.Success(c, promotion)
}

// UpdatePromotion 更新活动
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.promotion_invalid", err)
		return
	}
	promotion, err := h.PromotionAdminService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondMappedError(c, err, promotionErrorRules)
		return
	}
	response.Success(c, promotion)
}

// GetPromotion 获取活动详情
func (h *Handler) GetPromotion(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	promotion, err := h.PromotionAdminService.Get(id)
	if err != nil {
		respondMappedError(c, err, promotionErrorRules)
		return
	}
	response.Success(c, promotion)
}

// GetAdminPromotions 获取活动列表
func (h *Handler) GetAdminPromotions(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	promotions, total, err := h.PromotionAdminService.List(repository.PromotionListFilter{
		ID:            shared.ParseOptionalUintQuery(c, "id"),
		Keyword:       c.Query("keyword"),
		Status:        c.Query("status"),
		PromotionType: c.Query("promotion_type"),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, promotions, response.BuildPagination(page, pageSize, total))
}

// ActivatePromotion 启用活动
func (h *Handler) ActivatePromotion(c *gin.Context) {
	h.changePromotionStatus(c, true)
}

// DeactivatePromotion 停用活动
func (h *Handler) DeactivatePromotion(c *gin.Context) {
	h.changePromotionStatus(c, false)
}

func (h *Handler) changePromotionStatus(c *gin.Context, active bool) {
	id, ok := shared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var (
		promotion *models.Promotion
		err       error
	)
	if active {
		promotion, err = h.PromotionAdminService.Activate(c.Request.Context(), id)
	} else {
		promotion, err = h.PromotionAdminService.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		respondMappedError(c, err, promotionErrorRules)
		return
	}
	response.Success(c, promotion)
}
