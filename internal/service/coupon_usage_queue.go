package service

import (
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/queue"
)

// enqueueCouponUsageTask 事务提交后推送优惠码核销任务
func enqueueCouponUsageTask(queueClient *queue.Client, usage *models.CouponUsage) error {
	if queueClient == nil || usage == nil || usage.ID == 0 {
		return nil
	}
	payload := queue.CouponUsagePayload{
		UsageID:     usage.ID,
		CouponID:    usage.CouponID,
		PromotionID: usage.PromotionID,
		UserID:      usage.UserID,
		Discount:    usage.DiscountAmount.String(),
	}
	if usage.OrderID != nil {
		payload.OrderID = *usage.OrderID
	}
	return queueClient.EnqueueCouponUsage(payload)
}
