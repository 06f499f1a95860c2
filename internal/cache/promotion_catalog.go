package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vitrina-next/internal/models"
)

const (
	activePromotionsKey  = "promotion:active"
	couponRedemptionsFmt = "coupon:redemptions:%d"
)

// GetActivePromotions 读取启用活动快照
func GetActivePromotions(ctx context.Context) ([]models.Promotion, bool, error) {
	var promotions []models.Promotion
	hit, err := GetJSON(ctx, activePromotionsKey, &promotions)
	if err != nil || !hit {
		return nil, false, err
	}
	return promotions, true, nil
}

// SetActivePromotions 写入启用活动快照
func SetActivePromotions(ctx context.Context, promotions []models.Promotion, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, activePromotionsKey, promotions, ttl)
}

// InvalidateActivePromotions 活动变更后清理快照
func InvalidateActivePromotions(ctx context.Context) error {
	return Del(ctx, activePromotionsKey)
}

// IncrCouponRedemptions 累加优惠码核销计数
func IncrCouponRedemptions(ctx context.Context, couponID uint) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	return current.client.Incr(ctx, buildKey(fmt.Sprintf(couponRedemptionsFmt, couponID))).Result()
}

// GetCouponRedemptions 读取优惠码核销计数，缓存不可用或未命中时返回 false
func GetCouponRedemptions(ctx context.Context, couponID uint) (int64, bool, error) {
	if !Enabled() {
		return 0, false, nil
	}
	var count int64
	hit, err := GetJSON(ctx, fmt.Sprintf(couponRedemptionsFmt, couponID), &count)
	if err != nil || !hit {
		return 0, false, err
	}
	return count, true, nil
}
