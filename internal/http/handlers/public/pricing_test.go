package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/provider"
	"github.com/vitrina-next/internal/repository"
	"github.com/vitrina-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type pricingEnvelope struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
	Data       struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
		Pricing *struct {
			CouponDiscount string `json:"coupon_discount"`
			Total          string `json:"total"`
		} `json:"pricing"`
	} `json:"data"`
}

func setupPricingHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	clusterRepo := repository.NewClusterRepository(db)
	promotions := service.NewPromotionService(repository.NewPromotionRepository(db), orderRepo, 0)
	coupons := service.NewCouponService(couponRepo, clusterRepo, promotions)
	pricing := service.NewPricingService(db, cartRepo, productRepo, repository.NewCouponUsageRepository(db), promotions, coupons, service.PricingConfig{
		ShippingCost: decimal.NewFromInt(10),
	}, nil)

	h := &Handler{Container: &provider.Container{PricingService: pricing}}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})
	r.POST("/coupons/apply", h.ApplyCoupon)
	r.POST("/pricing/preview", h.PreviewPricing)
	return r, db
}

func seedPricingFixtures(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	product := &models.Product{Name: "rice", CategoryID: 1, IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID: product.ID,
		SKU:       "RICE-5KG",
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		IsActive:  true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	now := time.Now()
	for code, end := range map[string]time.Time{"SAVE10": now.AddDate(0, 1, 0), "EXPIRED": now.AddDate(0, 0, -1)} {
		promotion := &models.Promotion{
			Name:          code,
			PromotionType: constants.PromotionTypeCoupon,
			CouponType:    constants.CouponTypePercentageDiscount,
			DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			AppliesTo:     constants.AppliesToAll,
			StartDate:     now.AddDate(0, -1, 0),
			EndDate:       end,
			Status:        constants.PromotionStatusActive,
		}
		if err := db.Create(promotion).Error; err != nil {
			t.Fatalf("create promotion failed: %v", err)
		}
		coupon := &models.Coupon{Code: code, PromotionID: promotion.ID, Status: constants.CouponStatusActive}
		if err := db.Create(coupon).Error; err != nil {
			t.Fatalf("create coupon failed: %v", err)
		}
	}
	return variant.ID
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, pricingEnvelope) {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env pricingEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return w, env
}

func TestApplyCouponSoftFailureReturnsSuccessEnvelope(t *testing.T) {
	r, db := setupPricingHandlerTest(t)
	variantID := seedPricingFixtures(t, db)

	w, env := postJSON(t, r, "/coupons/apply", map[string]interface{}{
		"coupon_code": "EXPIRED",
		"item":        map[string]interface{}{"variant_id": variantID, "quantity": 2},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected http 200, got %d", w.Code)
	}
	if env.StatusCode != 0 {
		t.Fatalf("expected status_code 0, got %d", env.StatusCode)
	}
	if env.Data.Success || env.Data.Reason != constants.CouponRejectExpired {
		t.Fatalf("expected expired rejection, got %+v", env.Data)
	}
	if env.Msg == "" {
		t.Fatalf("expected human readable message")
	}
	var usages int64
	db.Model(&models.CouponUsage{}).Count(&usages)
	if usages != 0 {
		t.Fatalf("expected no usage rows, got %d", usages)
	}
}

func TestApplyCouponSuccess(t *testing.T) {
	r, db := setupPricingHandlerTest(t)
	variantID := seedPricingFixtures(t, db)

	_, env := postJSON(t, r, "/coupons/apply", map[string]interface{}{
		"coupon_code": "SAVE10",
		"item":        map[string]interface{}{"variant_id": variantID, "quantity": 2},
	})
	if env.StatusCode != 0 || !env.Data.Success {
		t.Fatalf("expected coupon to apply, got %+v", env)
	}
	if env.Data.Pricing == nil || env.Data.Pricing.CouponDiscount != "20.00" || env.Data.Pricing.Total != "190.00" {
		t.Fatalf("unexpected pricing: %+v", env.Data.Pricing)
	}
}

func TestApplyCouponValidationErrors(t *testing.T) {
	r, db := setupPricingHandlerTest(t)
	seedPricingFixtures(t, db)

	cases := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{name: "missing code", body: map[string]interface{}{"item": map[string]interface{}{"variant_id": 1, "quantity": 1}}, code: 400},
		{name: "missing cart and item", body: map[string]interface{}{"coupon_code": "SAVE10"}, code: 400},
		{name: "unknown variant", body: map[string]interface{}{"coupon_code": "SAVE10", "item": map[string]interface{}{"variant_id": 999, "quantity": 1}}, code: 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, env := postJSON(t, r, "/coupons/apply", tc.body)
			if env.StatusCode != tc.code {
				t.Fatalf("expected status_code %d, got %d (%s)", tc.code, env.StatusCode, env.Msg)
			}
		})
	}
}

func TestPreviewPricingWithoutCoupon(t *testing.T) {
	r, db := setupPricingHandlerTest(t)
	variantID := seedPricingFixtures(t, db)

	_, env := postJSON(t, r, "/pricing/preview", map[string]interface{}{
		"item": map[string]interface{}{"variant_id": variantID, "quantity": 1},
	})
	if env.StatusCode != 0 {
		t.Fatalf("expected success, got %d (%s)", env.StatusCode, env.Msg)
	}
}
