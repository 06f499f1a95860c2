package cache

import (
	"context"
	"testing"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/models"

	"github.com/redis/go-redis/v9"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis: %v", err)
	}
	ctx := context.Background()
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	if err := SetActivePromotions(ctx, []models.Promotion{{ID: 1}}, 0); err != nil {
		t.Fatalf("set promotions: %v", err)
	}
	if _, hit, err := GetActivePromotions(ctx); err != nil || hit {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if count, err := IncrCouponRedemptions(ctx, 9); err != nil || count != 0 {
		t.Fatalf("incr should be skipped, count=%d err=%v", count, err)
	}
	if err := InvalidateActivePromotions(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	UseClient(client, " shop ")
	t.Cleanup(func() { _ = Close() })

	if Prefix() != "shop" {
		t.Fatalf("prefix want shop got %q", Prefix())
	}
	if got := buildKey(activePromotionsKey); got != "shop:promotion:active" {
		t.Fatalf("key got %s", got)
	}
	if got := buildKey("  "); got != "shop" {
		t.Fatalf("blank key got %s", got)
	}

	UseClient(client, "")
	if Prefix() != defaultPrefix {
		t.Fatalf("empty prefix should fall back, got %q", Prefix())
	}
}
