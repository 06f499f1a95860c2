package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/constants"
	"github.com/vitrina-next/internal/logger"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

const (
	couponUsageMaxRetry = 5
	couponUsageTimeout  = 30 * time.Second
)

// Client 队列客户端封装；未启用时所有推送为空操作
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{queue: DefaultQueue}, nil
	}
	return &Client{
		client: asynq.NewClient(buildRedisOpt(cfg)),
		queue:  DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueCouponUsage 推送优惠码核销任务
// 任务 ID 取自使用记录 ID，同一条记录重复推送时直接忽略
func (c *Client) EnqueueCouponUsage(payload CouponUsagePayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCouponUsageTask(payload)
	if err != nil {
		return fmt.Errorf("build coupon usage task: %w", err)
	}
	options := append([]asynq.Option{
		asynq.Queue(c.queue),
		asynq.TaskID(couponUsageTaskID(payload.UsageID)),
		asynq.MaxRetry(couponUsageMaxRetry),
		asynq.Timeout(couponUsageTimeout),
	}, opts...)
	if _, err := c.client.Enqueue(task, options...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue coupon usage %d: %w", payload.UsageID, err)
	}
	return nil
}

func couponUsageTaskID(usageID uint) string {
	return fmt.Sprintf("coupon_usage:%d", usageID)
}

// BuildServerConfig 生成队列服务配置，任务最终失败时记录日志
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.S(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Warnw("queue_task_failed", "task_type", task.Type(), "error", err)
		}),
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
