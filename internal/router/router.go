package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vitrina-next/internal/authz"
	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/config"
	adminhandlers "github.com/vitrina-next/internal/http/handlers/admin"
	publichandlers "github.com/vitrina-next/internal/http/handlers/public"
	"github.com/vitrina-next/internal/http/response"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon_apply", cache.Prefix()),
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CouponRateLimit.BlockSeconds,
		MessageKey:    "error.coupon_apply_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.TokenService))
		{
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.UpsertCartItem)
			user.DELETE("/cart/items/:variant_id", publicHandler.DeleteCartItem)
			user.POST("/pricing/preview", publicHandler.PreviewPricing)
			user.POST("/coupons/apply", RateLimitMiddleware(redisClient, couponRule, KeyByUser), publicHandler.ApplyCoupon)
			user.POST("/orders", publicHandler.CreateOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		authorized := admin.Use(JWTAuthMiddleware(c.TokenService), AdminRBACMiddleware(c.AuthzService))
		{
			// 活动
			authorized.GET("/promotions", adminHandler.GetAdminPromotions)
			authorized.POST("/promotions", adminHandler.CreatePromotion)
			authorized.GET("/promotions/:id", adminHandler.GetPromotion)
			authorized.PUT("/promotions/:id", adminHandler.UpdatePromotion)
			authorized.POST("/promotions/:id/activate", adminHandler.ActivatePromotion)
			authorized.POST("/promotions/:id/deactivate", adminHandler.DeactivatePromotion)

			// 优惠码
			authorized.GET("/coupons", adminHandler.GetAdminCoupons)
			authorized.POST("/coupons", adminHandler.CreateCoupon)
			authorized.PUT("/coupons/:id/status", adminHandler.UpdateCouponStatus)
			authorized.GET("/coupons/:id/usages", adminHandler.GetCouponUsages)

			// 客户分群
			authorized.POST("/clusters/:id/members/:user_id", adminHandler.AddClusterMember)
			authorized.DELETE("/clusters/:id/members/:user_id", adminHandler.RemoveClusterMember)

			// 权限管理
			authorized.GET("/authz/me", adminHandler.GetAuthzMe)
			authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
			authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
