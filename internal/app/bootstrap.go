package app

import (
	"errors"
	"fmt"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/logger"
	"github.com/vitrina-next/internal/provider"
	"github.com/vitrina-next/internal/router"
	"github.com/vitrina-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		svc, err := buildWorkerService(cfg, container)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no services initialized for mode %q", mode)
	}
	return NewRunner(services...), nil
}

// buildWorkerService 队列关闭时退化为仅执行活动到期下线
func buildWorkerService(cfg *config.Config, container *provider.Container) (Service, error) {
	if !cfg.Queue.Enabled {
		logger.Warnw("app_queue_disabled_expiry_only")
		return worker.NewExpiryService(&cfg.Queue, container.PromotionAdminService)
	}
	consumer := worker.NewConsumer(container)
	return worker.NewService(&cfg.Queue, consumer, container.PromotionAdminService)
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", listenAddr(opts.Config),
		"mode", opts.Mode,
		"services", runner.ServiceNames(),
	)
	return RunWithOptions(runner, opts)
}
