package queue

import (
	"encoding/json"

	"github.com/vitrina-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCouponUsageRecorded 优惠码核销记录任务
	TaskCouponUsageRecorded = constants.TaskCouponUsageRecorded
)

// CouponUsagePayload 优惠码核销任务载荷
type CouponUsagePayload struct {
	UsageID     uint   `json:"usage_id"`
	CouponID    uint   `json:"coupon_id"`
	PromotionID uint   `json:"promotion_id"`
	UserID      uint   `json:"user_id"`
	OrderID     uint   `json:"order_id,omitempty"`
	Discount    string `json:"discount"`
}

// NewCouponUsageTask 创建优惠码核销任务
func NewCouponUsageTask(payload CouponUsagePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCouponUsageRecorded, body), nil
}

// ParseCouponUsagePayload 解析优惠码核销任务载荷
func ParseCouponUsagePayload(task *asynq.Task) (CouponUsagePayload, error) {
	var payload CouponUsagePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
