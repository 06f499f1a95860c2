package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// PromotionService 自动活动资格判定与折扣分摊
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	history       OrderHistory
	catalogTTL    time.Duration
	useCache      bool
	now           func() time.Time
}

// NewPromotionService 创建活动服务；catalogTTL <= 0 时不缓存活动快照
func NewPromotionService(promotionRepo repository.PromotionRepository, orderRepo repository.OrderRepository, catalogTTL time.Duration) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		history:       repositoryOrderHistory{repo: orderRepo},
		catalogTTL:    catalogTTL,
		useCache:      catalogTTL > 0,
		now:           time.Now,
	}
}

// WithTx 返回绑定事务的副本，事务内始终直读数据库
func (s *PromotionService) WithTx(tx *gorm.DB) *PromotionService {
	if tx == nil {
		return s
	}
	scoped := *s
	scoped.promotionRepo = s.promotionRepo.WithTx(tx)
	if h, ok := s.history.(repositoryOrderHistory); ok && h.repo != nil {
		scoped.history = repositoryOrderHistory{repo: h.repo.WithTx(tx)}
	}
	scoped.useCache = false
	return &scoped
}

// PromotionEvaluation 单个活动的判定结果
type PromotionEvaluation struct {
	Promotion models.Promotion
	Progress  EligibilityProgress
	HasRule   bool
	Selected  bool
}

// PromotionSelection 一次购物车判定的完整结果
type PromotionSelection struct {
	Selected    []models.Promotion
	Evaluations []PromotionEvaluation
}

// HasExclusive 已选活动中是否存在独占活动
func (s *PromotionSelection) HasExclusive() bool {
	if s == nil {
		return false
	}
	for _, promotion := range s.Selected {
		if promotion.IsExclusive {
			return true
		}
	}
	return false
}

// ActivePromotions 获取当前启用且在时间窗口内的活动，按 ID 升序
func (s *PromotionService) ActivePromotions(ctx context.Context) ([]models.Promotion, error) {
	now := s.now()
	if !s.useCache {
		promotions, err := s.promotionRepo.ListActive(now)
		if err != nil {
			return nil, fmt.Errorf("list active promotions: %w", err)
		}
		return promotions, nil
	}

	cached, hit, err := cache.GetActivePromotions(ctx)
	if err != nil {
		logger.Warnw("promotion_catalog_cache_read_failed", "error", err)
	}
	if hit {
		return filterActiveAt(cached, now), nil
	}
	// 快照包含尚未开始的活动，每次读取按当前时间过滤，开始时间一到即可生效
	catalog, err := s.promotionRepo.ListUnexpired(now)
	if err != nil {
		return nil, fmt.Errorf("list unexpired promotions: %w", err)
	}
	if err := cache.SetActivePromotions(ctx, catalog, s.catalogTTL); err != nil {
		logger.Warnw("promotion_catalog_cache_write_failed", "error", err)
	}
	return filterActiveAt(catalog, now), nil
}

func filterActiveAt(promotions []models.Promotion, now time.Time) []models.Promotion {
	result := make([]models.Promotion, 0, len(promotions))
	for i := range promotions {
		if promotions[i].ActiveAt(now) {
			result = append(result, promotions[i])
		}
	}
	return result
}

// EvaluatePromotion 计算单个活动的门槛达成情况
func (s *PromotionService) EvaluatePromotion(ctx context.Context, promotion *models.Promotion, lines []LineItem, userID uint) (EligibilityProgress, bool, error) {
	rule, ok := RuleForPromotion(promotion, s.history)
	if !ok {
		return EligibilityProgress{}, false, nil
	}
	progress, err := rule.Evaluate(ctx, lines, UserContext{UserID: userID})
	if err != nil {
		return EligibilityProgress{}, true, err
	}
	return progress, true, nil
}

// IsPromotionApplicable 判断活动是否对当前购物车生效
func (s *PromotionService) IsPromotionApplicable(ctx context.Context, promotion *models.Promotion, lines []LineItem, userID uint) (bool, error) {
	progress, hasRule, err := s.EvaluatePromotion(ctx, promotion, lines, userID)
	if err != nil {
		return false, err
	}
	return hasRule && progress.Applicable, nil
}

// Evaluate 对全部启用活动做资格判定；若有独占活动生效，只保留第一个独占活动
func (s *PromotionService) Evaluate(ctx context.Context, lines []LineItem, userID uint) (*PromotionSelection, error) {
	promotions, err := s.ActivePromotions(ctx)
	if err != nil {
		return nil, err
	}
	selection := &PromotionSelection{
		Evaluations: make([]PromotionEvaluation, 0, len(promotions)),
	}
	var applicable []int
	exclusive := -1
	for i := range promotions {
		progress, hasRule, err := s.EvaluatePromotion(ctx, &promotions[i], lines, userID)
		if err != nil {
			return nil, err
		}
		selection.Evaluations = append(selection.Evaluations, PromotionEvaluation{
			Promotion: promotions[i],
			Progress:  progress,
			HasRule:   hasRule,
		})
		if !hasRule || !progress.Applicable {
			continue
		}
		applicable = append(applicable, len(selection.Evaluations)-1)
		if exclusive < 0 && promotions[i].IsExclusive {
			exclusive = len(selection.Evaluations) - 1
		}
	}
	if exclusive >= 0 {
		applicable = []int{exclusive}
	}
	for _, idx := range applicable {
		selection.Evaluations[idx].Selected = true
		selection.Selected = append(selection.Selected, selection.Evaluations[idx].Promotion)
	}
	return selection, nil
}

// GetApplicablePromotions 返回对当前购物车生效的活动集合
func (s *PromotionService) GetApplicablePromotions(ctx context.Context, lines []LineItem, userID uint) ([]models.Promotion, error) {
	selection, err := s.Evaluate(ctx, lines, userID)
	if err != nil {
		return nil, err
	}
	return selection.Selected, nil
}

// ApplyPromotions 按活动分摊折扣，不修改入参
func (s *PromotionService) ApplyPromotions(lines []LineItem, promotions []models.Promotion) ([]LineItem, decimal.Decimal) {
	return AllocateDiscounts(lines, promotions)
}

// AllocateDiscounts 对每行累加所有命中活动的百分比折扣，再按行小计封顶
func AllocateDiscounts(lines []LineItem, promotions []models.Promotion) ([]LineItem, decimal.Decimal) {
	scopes := make([]promotionScope, len(promotions))
	for i := range promotions {
		scopes[i] = scopeOf(&promotions[i])
	}
	allocated := make([]LineItem, len(lines))
	total := decimal.Zero
	for i, line := range lines {
		discount := decimal.Zero
		for j := range promotions {
			if !scopes[j].includes(line) {
				continue
			}
			discount = discount.Add(line.Subtotal.Mul(promotions[j].DiscountValue.Decimal).Div(hundred))
		}
		if discount.GreaterThan(line.Subtotal) {
			discount = line.Subtotal
		}
		line.DiscountApplied = discount.Round(2)
		allocated[i] = line
		total = total.Add(line.DiscountApplied)
	}
	return allocated, total
}
