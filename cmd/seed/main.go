package main

import (
	"errors"
	"time"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	seedShopperID  = 1
	seedLoyalID    = 2
	seedAdminID    = 1
	seedLoyalOrder = 3
)

type seedVariant struct {
	SKU         string
	Price       string
	UnitMeasure string
}

type seedProduct struct {
	Name     string
	Category string
	Variants []seedVariant
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.DB
	categoryIDs := map[string]uint{}
	for _, cat := range []models.Category{
		{Name: "饮品", Slug: "beverages"},
		{Name: "粮油", Slug: "grains"},
		{Name: "五金", Slug: "hardware"},
	} {
		category := cat
		if err := db.Where("slug = ?", category.Slug).FirstOrCreate(&category).Error; err != nil {
			stdLog.Fatalf("Failed to seed category %s: %v", cat.Slug, err)
		}
		categoryIDs[category.Slug] = category.ID
	}

	products := []seedProduct{
		{Name: "冷萃咖啡", Category: "beverages", Variants: []seedVariant{
			{SKU: "COFFEE-250ML", Price: "12.50", UnitMeasure: "0.25"},
			{SKU: "COFFEE-1L", Price: "38.00", UnitMeasure: "1"},
		}},
		{Name: "东北大米", Category: "grains", Variants: []seedVariant{
			{SKU: "RICE-5KG", Price: "59.90", UnitMeasure: "5"},
			{SKU: "RICE-10KG", Price: "109.00", UnitMeasure: "10"},
		}},
		{Name: "不锈钢螺丝", Category: "hardware", Variants: []seedVariant{
			{SKU: "SCREW-M4-100", Price: "20.00", UnitMeasure: "0.1"},
		}},
	}
	variantIDs := map[string]uint{}
	for _, item := range products {
		product := models.Product{Name: item.Name, CategoryID: categoryIDs[item.Category], IsActive: true}
		if err := db.Where("name = ?", product.Name).FirstOrCreate(&product).Error; err != nil {
			stdLog.Fatalf("Failed to seed product %s: %v", item.Name, err)
		}
		for _, v := range item.Variants {
			variant := models.ProductVariant{
				ProductID:   product.ID,
				SKU:         v.SKU,
				Price:       mustMoney(v.Price),
				UnitMeasure: decimal.RequireFromString(v.UnitMeasure),
				IsActive:    true,
			}
			if err := db.Where("sku = ?", variant.SKU).FirstOrCreate(&variant).Error; err != nil {
				stdLog.Fatalf("Failed to seed variant %s: %v", v.SKU, err)
			}
			variantIDs[variant.SKU] = variant.ID
		}
		stdLog.Printf("Seeded product: %s", item.Name)
	}

	cluster := models.Cluster{Name: "VIP"}
	if err := db.Where("name = ?", cluster.Name).FirstOrCreate(&cluster).Error; err != nil {
		stdLog.Fatalf("Failed to seed cluster: %v", err)
	}
	member := models.ClientCluster{ClusterID: cluster.ID, UserID: seedLoyalID}
	if err := db.Where("cluster_id = ? AND user_id = ?", cluster.ID, seedLoyalID).FirstOrCreate(&member).Error; err != nil {
		stdLog.Fatalf("Failed to seed cluster member: %v", err)
	}

	now := time.Now()
	start := now.AddDate(0, 0, -1)
	end := now.AddDate(0, 3, 0)
	clusterID := cluster.ID
	promotions := []models.Promotion{
		{
			Name:          "满3件9折",
			PromotionType: constants.PromotionTypeQuantityDiscount,
			CouponType:    constants.CouponTypePercentageDiscount,
			DiscountValue: mustMoney("10"),
			AppliesTo:     constants.AppliesToSpecificCategories,
			MinQuantity:   3,
			Categories:    []models.PromotionCategory{{CategoryID: categoryIDs["beverages"]}},
		},
		{
			Name:          "老客立减",
			PromotionType: constants.PromotionTypeOrderCountDiscount,
			CouponType:    constants.CouponTypeFixedDiscount,
			DiscountValue: mustMoney("5"),
			AppliesTo:     constants.AppliesToAll,
			MinOrderCount: seedLoyalOrder,
		},
		{
			Name:           "大米满10公斤减8元",
			PromotionType:  constants.PromotionTypeUnitDiscount,
			CouponType:     constants.CouponTypeFixedDiscount,
			DiscountValue:  mustMoney("8"),
			AppliesTo:      constants.AppliesToSpecificProducts,
			MinUnitMeasure: decimal.NewFromInt(10),
			Products: []models.PromotionProduct{
				{VariantID: variantIDs["RICE-5KG"]},
				{VariantID: variantIDs["RICE-10KG"]},
			},
		},
		{
			Name:              "VIP 专享 20% 独占折扣",
			PromotionType:     constants.PromotionTypePromotion,
			CouponType:        constants.CouponTypePercentageDiscount,
			DiscountValue:     mustMoney("20"),
			AppliesTo:         constants.AppliesToAll,
			IsExclusive:       true,
			ClusterID:         &clusterID,
			RestrictToCluster: true,
		},
		{
			Name:          "SAVE10 优惠码",
			PromotionType: constants.PromotionTypeCoupon,
			CouponType:    constants.CouponTypePercentageDiscount,
			DiscountValue: mustMoney("10"),
			AppliesTo:     constants.AppliesToAll,
			UsageLimit:    1000,
		},
		{
			Name:          "FREESHIP 包邮码",
			PromotionType: constants.PromotionTypeCoupon,
			CouponType:    constants.CouponTypeFreeShipping,
			AppliesTo:     constants.AppliesToAll,
		},
	}
	promotionIDs := map[string]uint{}
	for _, p := range promotions {
		promotion := p
		promotion.StartDate = start
		promotion.EndDate = end
		promotion.Status = constants.PromotionStatusActive
		if err := seedPromotion(db, &promotion); err != nil {
			stdLog.Fatalf("Failed to seed promotion %s: %v", p.Name, err)
		}
		promotionIDs[promotion.Name] = promotion.ID
		stdLog.Printf("Seeded promotion: %s (#%d)", promotion.Name, promotion.ID)
	}

	for code, name := range map[string]string{"SAVE10": "SAVE10 优惠码", "FREESHIP": "FREESHIP 包邮码"} {
		coupon := models.Coupon{Code: code, PromotionID: promotionIDs[name], Status: constants.CouponStatusActive}
		if err := db.Where("code = ?", code).FirstOrCreate(&coupon).Error; err != nil {
			stdLog.Fatalf("Failed to seed coupon %s: %v", code, err)
		}
		stdLog.Printf("Seeded coupon: %s", code)
	}

	if err := seedDeliveredOrders(db, seedLoyalID, seedLoyalOrder); err != nil {
		stdLog.Fatalf("Failed to seed orders: %v", err)
	}

	// 开发环境令牌
	tokens := service.NewTokenService(cfg)
	for _, userID := range []uint{seedShopperID, seedLoyalID} {
		token, expiresAt, err := tokens.GenerateUserToken(userID, "")
		if err != nil {
			stdLog.Fatalf("Failed to sign user token: %v", err)
		}
		stdLog.Printf("User %d token (expires %s): %s", userID, expiresAt.Format(time.RFC3339), token)
	}
	adminToken, _, err := tokens.GenerateAdminToken(seedAdminID, "admin", true)
	if err != nil {
		stdLog.Fatalf("Failed to sign admin token: %v", err)
	}
	stdLog.Printf("Admin token: %s", adminToken)
	stdLog.Printf("Seed completed")
}

func seedPromotion(db *gorm.DB, promotion *models.Promotion) error {
	var existing models.Promotion
	err := db.Where("name = ?", promotion.Name).First(&existing).Error
	if err == nil {
		*promotion = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(promotion).Error
}

func seedDeliveredOrders(db *gorm.DB, userID uint, count int) error {
	var existing int64
	if err := db.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, constants.OrderStatusDelivered).
		Count(&existing).Error; err != nil {
		return err
	}
	for i := int(existing); i < count; i++ {
		order := models.Order{
			OrderNo:        "SEED-" + time.Now().Format("20060102150405") + "-" + string(rune('A'+i)),
			UserID:         userID,
			Status:         constants.OrderStatusDelivered,
			Subtotal:       mustMoney("50"),
			TotalAmount:    mustMoney("60"),
			ShippingCost:   mustMoney("10"),
			DeliveryOption: constants.DeliveryOptionStandard,
		}
		if err := db.Create(&order).Error; err != nil {
			return err
		}
	}
	return nil
}

func mustMoney(raw string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(raw))
}
