package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var repoTestNow = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestPromotion(t *testing.T, repo *GormPromotionRepository, name string, start, end time.Time, status string) *models.Promotion {
	t.Helper()
	promotion := &models.Promotion{
		Name:          name,
		Description:   name + " description",
		PromotionType: constants.PromotionTypeQuantityDiscount,
		CouponType:    constants.CouponTypePercentageDiscount,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		AppliesTo:     constants.AppliesToAll,
		MinQuantity:   2,
		StartDate:     start,
		EndDate:       end,
		Status:        status,
	}
	if err := repo.Create(promotion); err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	return promotion
}

func TestPromotionListActiveHonorsWindowAndStatus(t *testing.T) {
	repo := NewPromotionRepository(setupRepositoryTestDB(t))
	live := createTestPromotion(t, repo, "live", repoTestNow.AddDate(0, 0, -1), repoTestNow.AddDate(0, 0, 1), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "future", repoTestNow.AddDate(0, 0, 1), repoTestNow.AddDate(0, 0, 2), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "ended", repoTestNow.AddDate(0, 0, -3), repoTestNow.AddDate(0, 0, -2), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "paused", repoTestNow.AddDate(0, 0, -1), repoTestNow.AddDate(0, 0, 1), constants.PromotionStatusInactive)

	active, err := repo.ListActive(repoTestNow)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != live.ID {
		t.Fatalf("expected only live promotion, got %+v", active)
	}
}

func TestPromotionListUnexpiredIncludesUpcoming(t *testing.T) {
	repo := NewPromotionRepository(setupRepositoryTestDB(t))
	live := createTestPromotion(t, repo, "live", repoTestNow.AddDate(0, 0, -1), repoTestNow.AddDate(0, 0, 1), constants.PromotionStatusActive)
	upcoming := createTestPromotion(t, repo, "upcoming", repoTestNow.AddDate(0, 0, 1), repoTestNow.AddDate(0, 0, 2), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "ended", repoTestNow.AddDate(0, 0, -3), repoTestNow.AddDate(0, 0, -2), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "paused", repoTestNow.AddDate(0, 0, 1), repoTestNow.AddDate(0, 0, 2), constants.PromotionStatusInactive)

	catalog, err := repo.ListUnexpired(repoTestNow)
	if err != nil {
		t.Fatalf("list unexpired failed: %v", err)
	}
	if len(catalog) != 2 || catalog[0].ID != live.ID || catalog[1].ID != upcoming.ID {
		t.Fatalf("expected live and upcoming promotions, got %+v", catalog)
	}
}

func TestPromotionDeactivateEnded(t *testing.T) {
	repo := NewPromotionRepository(setupRepositoryTestDB(t))
	ended := createTestPromotion(t, repo, "ended", repoTestNow.AddDate(0, 0, -3), repoTestNow.AddDate(0, 0, -1), constants.PromotionStatusActive)
	createTestPromotion(t, repo, "live", repoTestNow.AddDate(0, 0, -1), repoTestNow.AddDate(0, 0, 1), constants.PromotionStatusActive)

	affected, err := repo.DeactivateEnded(repoTestNow)
	if err != nil {
		t.Fatalf("deactivate ended failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected row, got %d", affected)
	}
	reloaded, err := repo.GetByID(ended.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if reloaded.Status != constants.PromotionStatusInactive {
		t.Fatalf("expected inactive status, got %s", reloaded.Status)
	}
	affected, err = repo.DeactivateEnded(repoTestNow)
	if err != nil || affected != 0 {
		t.Fatalf("expected idempotent second run, got %d err=%v", affected, err)
	}
}

func TestPromotionReplaceScopes(t *testing.T) {
	repo := NewPromotionRepository(setupRepositoryTestDB(t))
	promotion := createTestPromotion(t, repo, "scoped", repoTestNow, repoTestNow.AddDate(0, 1, 0), constants.PromotionStatusActive)

	if err := repo.ReplaceScopes(promotion.ID, []uint{3, 4}, nil); err != nil {
		t.Fatalf("replace scopes failed: %v", err)
	}
	if err := repo.ReplaceScopes(promotion.ID, []uint{5}, []uint{9}); err != nil {
		t.Fatalf("replace scopes again failed: %v", err)
	}
	reloaded, err := repo.GetByID(promotion.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if ids := reloaded.VariantIDs(); len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("unexpected variant scope: %v", ids)
	}
	if ids := reloaded.CategoryIDs(); len(ids) != 1 || ids[0] != 9 {
		t.Fatalf("unexpected category scope: %v", ids)
	}
}

func TestPromotionListKeywordAndPagination(t *testing.T) {
	repo := NewPromotionRepository(setupRepositoryTestDB(t))
	for i := 0; i < 3; i++ {
		createTestPromotion(t, repo, fmt.Sprintf("spring-sale-%d", i), repoTestNow, repoTestNow.AddDate(0, 1, 0), constants.PromotionStatusActive)
	}
	createTestPromotion(t, repo, "winter", repoTestNow, repoTestNow.AddDate(0, 1, 0), constants.PromotionStatusActive)

	items, total, err := repo.List(PromotionListFilter{Keyword: "spring", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list promotions failed: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("expected total=3 page=2, got total=%d len=%d", total, len(items))
	}
}

func TestCouponGetByCodeIsCaseSensitive(t *testing.T) {
	db := setupRepositoryTestDB(t)
	promotionRepo := NewPromotionRepository(db)
	couponRepo := NewCouponRepository(db)
	promotion := createTestPromotion(t, promotionRepo, "coupon", repoTestNow, repoTestNow.AddDate(0, 1, 0), constants.PromotionStatusActive)
	if err := couponRepo.Create(&models.Coupon{Code: "SAVE10", PromotionID: promotion.ID, Status: constants.CouponStatusActive}); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	found, err := couponRepo.GetByCode("SAVE10")
	if err != nil || found == nil {
		t.Fatalf("expected coupon, got %v err=%v", found, err)
	}
	if found.Promotion == nil || found.Promotion.ID != promotion.ID {
		t.Fatalf("expected promotion to be preloaded")
	}
	missing, err := couponRepo.GetByCode("save10")
	if err != nil {
		t.Fatalf("lookup lowercase failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for different case, got %+v", missing)
	}
}

func TestClusterMembershipIsIdempotent(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewClusterRepository(db)
	cluster := &models.Cluster{Name: "VIP"}
	if err := db.Create(cluster).Error; err != nil {
		t.Fatalf("create cluster failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.AddMember(cluster.ID, 42); err != nil {
			t.Fatalf("add member failed: %v", err)
		}
	}
	var count int64
	db.Model(&models.ClientCluster{}).Where("cluster_id = ?", cluster.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected single membership row, got %d", count)
	}
	member, err := repo.IsMember(cluster.ID, 42)
	if err != nil || !member {
		t.Fatalf("expected member, got %v err=%v", member, err)
	}
	if err := repo.RemoveMember(cluster.ID, 42); err != nil {
		t.Fatalf("remove member failed: %v", err)
	}
	member, _ = repo.IsMember(cluster.ID, 42)
	if member {
		t.Fatalf("expected membership removed")
	}
}

func TestCouponUsageListByCoupon(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCouponUsageRepository(db)
	for i := 0; i < 3; i++ {
		usage := &models.CouponUsage{
			PromotionID:    1,
			CouponID:       7,
			UserID:         uint(i%2 + 1),
			DiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		}
		if err := repo.Create(usage); err != nil {
			t.Fatalf("create usage failed: %v", err)
		}
	}
	usages, total, err := repo.ListByCoupon(CouponUsageListFilter{CouponID: 7, UserID: 1})
	if err != nil {
		t.Fatalf("list usages failed: %v", err)
	}
	if total != 2 || len(usages) != 2 {
		t.Fatalf("expected 2 usages for user 1, got total=%d len=%d", total, len(usages))
	}
	summary, err := repo.SummarizeByCoupon(7)
	if err != nil {
		t.Fatalf("summarize usages failed: %v", err)
	}
	if summary.Count != 3 || summary.Users != 2 {
		t.Fatalf("expected 3 usages by 2 users, got %+v", summary)
	}
	if summary.TotalDiscount.String() != "15.00" {
		t.Fatalf("expected total discount 15.00, got %s", summary.TotalDiscount.String())
	}

	orderID := uint(99)
	if err := repo.Create(&models.CouponUsage{PromotionID: 1, CouponID: 7, UserID: 3, OrderID: &orderID}); err != nil {
		t.Fatalf("create ordered usage failed: %v", err)
	}
	ordered, total, err := repo.ListByCoupon(CouponUsageListFilter{CouponID: 7, OrderedOnly: true})
	if err != nil || total != 1 || len(ordered) != 1 || ordered[0].UserID != 3 {
		t.Fatalf("expected only the ordered usage, got total=%d err=%v", total, err)
	}
}

func TestOrderCountByUserAndStatus(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	statuses := []string{constants.OrderStatusDelivered, constants.OrderStatusDelivered, constants.OrderStatusPending}
	for i, status := range statuses {
		order := &models.Order{OrderNo: fmt.Sprintf("T-%d", i), UserID: 9, Status: status}
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	count, err := repo.CountByUserAndStatus(9, constants.OrderStatusDelivered)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 delivered orders, got %d err=%v", count, err)
	}
}
