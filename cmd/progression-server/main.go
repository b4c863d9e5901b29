package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"focus-quest/internal/modules/progression"
	"focus-quest/internal/pkg/config"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/notify"
	"focus-quest/internal/pkg/redis"
)

// @title           Focus Quest Progression API
// @version         1.0
// @description     专注计时成长与战斗结算服务
// @BasePath        /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[Main] %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	logger := log.GetLogger()
	logger.Info("Focus Quest progression server 启动中", log.Any("config", cfg))

	rdb, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// NATS 可选, 未配置或连接失败时事件静默丢弃
	publisher := notify.NewNATSPublisher(nil)
	if cfg.NATSURL != "" {
		nc, err := notify.Connect(cfg.NATSURL, "focus-quest-progression")
		if err != nil {
			logger.Warn("NATS 连接失败, 事件将不会发布", log.Err(err))
		} else {
			publisher = notify.NewNATSPublisher(nc)
			logger.Info("NATS 已连接", log.String("url", cfg.NATSURL))
		}
	}
	defer publisher.Close()

	module := progression.New(cfg, rdb, publisher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- module.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("收到退出信号, 开始优雅关闭")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := module.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭失败: %w", err)
	}
	logger.Info("服务已退出")
	return nil
}
