package worker

import (
	"context"

	"github.com/vitrina-next/internal/cache"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/provider"
	"github.com/vitrina-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container

	incrRedemptions func(ctx context.Context, couponID uint) (int64, error)
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container:       c,
		incrRedemptions: cache.IncrCouponRedemptions,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCouponUsageRecorded, c.handleCouponUsageRecorded)
}

// handleCouponUsageRecorded 累加核销计数；达到活动总量上限时只记录告警，不做拦截
func (c *Consumer) handleCouponUsageRecorded(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_coupon_usage_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCouponUsagePayload(task)
	if err != nil {
		logger.Warnw("worker_coupon_usage_unmarshal_failed", "error", err)
		return err
	}
	if payload.CouponID == 0 || payload.UsageID == 0 {
		logger.Debugw("worker_coupon_usage_skip_invalid_payload", "usage_id", payload.UsageID, "coupon_id", payload.CouponID)
		return nil
	}

	count, err := c.incrRedemptions(ctx, payload.CouponID)
	if err != nil {
		logger.Warnw("worker_coupon_usage_incr_failed", "coupon_id", payload.CouponID, "usage_id", payload.UsageID, "error", err)
		return err
	}
	logger.Infow("worker_coupon_usage_recorded",
		"usage_id", payload.UsageID,
		"coupon_id", payload.CouponID,
		"promotion_id", payload.PromotionID,
		"user_id", payload.UserID,
		"order_id", payload.OrderID,
		"discount", payload.Discount,
		"redemptions", count,
	)

	promotion, err := c.lookupPromotion(payload)
	if err != nil {
		logger.Warnw("worker_coupon_usage_fetch_promotion_failed", "coupon_id", payload.CouponID, "error", err)
		return nil
	}
	if reachedUsageLimit(promotion, count) {
		logger.Warnw("worker_coupon_usage_limit_reached",
			"coupon_id", payload.CouponID,
			"promotion_id", promotion.ID,
			"usage_limit", promotion.UsageLimit,
			"redemptions", count,
		)
	}
	return nil
}

func (c *Consumer) lookupPromotion(payload queue.CouponUsagePayload) (*models.Promotion, error) {
	if c.PromotionRepo == nil {
		return nil, nil
	}
	promotionID := payload.PromotionID
	if promotionID == 0 && c.CouponRepo != nil {
		coupon, err := c.CouponRepo.GetByID(payload.CouponID)
		if err != nil || coupon == nil {
			return nil, err
		}
		promotionID = coupon.PromotionID
	}
	if promotionID == 0 {
		return nil, nil
	}
	return c.PromotionRepo.GetByID(promotionID)
}

// reachedUsageLimit 计数仅在缓存启用时有效，count 为 0 表示未统计
func reachedUsageLimit(promotion *models.Promotion, count int64) bool {
	if promotion == nil || promotion.UsageLimit <= 0 || count <= 0 {
		return false
	}
	return count >= int64(promotion.UsageLimit)
}
