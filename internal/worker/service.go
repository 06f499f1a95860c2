package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultPromotionExpiryInterval = time.Minute

// PromotionExpirer 到期活动下线
type PromotionExpirer interface {
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

// Service 异步队列服务
type Service struct {
	name           string
	server         *asynq.Server
	mux            *asynq.ServeMux
	consumer       *Consumer
	expirer        PromotionExpirer
	expiryInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, expirer PromotionExpirer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:           "worker",
		server:         server,
		mux:            mux,
		consumer:       consumer,
		expirer:        expirer,
		expiryInterval: resolveExpiryInterval(cfg.PromotionExpiryIntervalSeconds),
	}, nil
}

func resolveExpiryInterval(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultPromotionExpiryInterval
	}
	return time.Duration(seconds) * time.Second
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.expirer != nil {
		go runPromotionExpiryLoop(ctx, s.expirer, s.expiryInterval)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// expireOnce 返回本轮下线数量，失败时记录日志
func expireOnce(ctx context.Context, expirer PromotionExpirer, now time.Time) int64 {
	affected, err := expirer.ExpireEnded(ctx, now)
	if err != nil {
		logger.Warnw("worker_promotion_expire_failed", "error", err)
		return 0
	}
	if affected > 0 {
		logger.Infow("worker_promotion_expired", "count", affected)
	}
	return affected
}

func runPromotionExpiryLoop(ctx context.Context, expirer PromotionExpirer, interval time.Duration) {
	if expirer == nil {
		return
	}
	expireOnce(ctx, expirer, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expireOnce(ctx, expirer, time.Now())
		}
	}
}

// ExpiryService 队列未启用时单独运行活动到期下线
type ExpiryService struct {
	expirer  PromotionExpirer
	interval time.Duration
}

// NewExpiryService 创建到期下线服务
func NewExpiryService(cfg *config.QueueConfig, expirer PromotionExpirer) (*ExpiryService, error) {
	if expirer == nil {
		return nil, errors.New("promotion expirer is nil")
	}
	seconds := 0
	if cfg != nil {
		seconds = cfg.PromotionExpiryIntervalSeconds
	}
	return &ExpiryService{expirer: expirer, interval: resolveExpiryInterval(seconds)}, nil
}

// Name 服务名称
func (s *ExpiryService) Name() string {
	return "promotion_expiry"
}

// Start 阻塞直到 ctx 结束
func (s *ExpiryService) Start(ctx context.Context) error {
	if s == nil || s.expirer == nil {
		return errors.New("expiry service not initialized")
	}
	runPromotionExpiryLoop(ctx, s.expirer, s.interval)
	return nil
}

// Stop 停止服务
func (s *ExpiryService) Stop(context.Context) error {
	return nil
}
