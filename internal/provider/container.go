package provider

import (
	"time"

	"github.com/vitrina-next/internal/authz"
	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/queue"
	"github.com/vitrina-next/internal/repository"
	"github.com/vitrina-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	OrderRepo       repository.OrderRepository
	ProductRepo     repository.ProductRepository
	CartRepo        repository.CartRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	PromotionRepo   repository.PromotionRepository
	ClusterRepo     repository.ClusterRepository

	// Services
	AuthzService          *authz.Service
	TokenService          *service.TokenService
	PromotionService      *service.PromotionService
	CouponService         *service.CouponService
	PricingService        *service.PricingService
	CheckoutService       *service.CheckoutService
	CartService           *service.CartService
	PromotionAdminService *service.PromotionAdminService
	CouponAdminService    *service.CouponAdminService
	ClusterAdminService   *service.ClusterAdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          models.DB,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.ClusterRepo = repository.NewClusterRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.TokenService = service.NewTokenService(c.Config)

	catalogTTL := time.Duration(c.Config.Pricing.PromotionCacheTTLSeconds) * time.Second
	c.PromotionService = service.NewPromotionService(c.PromotionRepo, c.OrderRepo, catalogTTL)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.ClusterRepo, c.PromotionService)
	c.PricingService = service.NewPricingService(
		c.DB,
		c.CartRepo,
		c.ProductRepo,
		c.CouponUsageRepo,
		c.PromotionService,
		c.CouponService,
		PricingConfigFrom(c.Config.Pricing),
		c.QueueClient,
	)
	c.CheckoutService = service.NewCheckoutService(c.PricingService, c.OrderRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.PromotionAdminService = service.NewPromotionAdminService(c.DB, c.PromotionRepo, c.ClusterRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.PromotionRepo, c.CouponUsageRepo)
	c.ClusterAdminService = service.NewClusterAdminService(c.ClusterRepo)
}

// PricingConfigFrom 将配置文件中的定价参数转换为服务层配置
func PricingConfigFrom(cfg config.PricingConfig) service.PricingConfig {
	return service.PricingConfig{
		ShippingCost:          cfg.Amount(cfg.ShippingCost),
		FreeShippingThreshold: cfg.Amount(cfg.FreeShippingThreshold),
		UrgentDeliveryFee:     cfg.Amount(cfg.UrgentDeliveryFee),
		StandardDeliveryDays:  cfg.StandardDeliveryDays,
		UrgentDeliveryDays:    cfg.UrgentDeliveryDays,
	}
}
