// Package progression 组装进度服务: 存储、业务服务、HTTP 路由与定时任务。
package progression

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/raid"
	custommiddleware "focus-quest/internal/middleware"
	"focus-quest/internal/modules/progression/handler"
	"focus-quest/internal/modules/progression/service"
	"focus-quest/internal/modules/progression/tasks"
	"focus-quest/internal/pkg/config"
	"focus-quest/internal/pkg/i18n"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/notify"
	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/response"
	"focus-quest/internal/pkg/validator"
	"focus-quest/internal/repository/impl"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Module 进度服务模块
type Module struct {
	cfg        config.Config
	logger     log.Logger
	redis      *redis.Client
	publisher  *notify.NATSPublisher
	bosses     *impl.PortalBossRepository
	bossCache  *impl.CachedPortalBossRepository
	services   *service.ServiceContainer
	httpServer *echo.Echo
	respWriter response.Writer

	settingsRefreshTask *tasks.SettingsRefreshTask
	poolStatsTask       *tasks.PoolStatsTask
}

// New 创建模块, redis 必须可用, publisher 可以没有连接
func New(cfg config.Config, rdb *redis.Client, publisher *notify.NATSPublisher, logger log.Logger) *Module {
	if logger == nil {
		logger = log.GetLogger()
	}
	metrics.SetServiceName(cfg.MetricsService)

	m := &Module{
		cfg:       cfg,
		logger:    logger.With("module", "progression"),
		redis:     rdb,
		publisher: publisher,
	}

	// 1. 存储与业务服务
	m.initServices()

	// 2. HTTP 服务与中间件
	m.initHTTPServer()

	// 3. 路由
	m.setupRoutes()

	// 4. 定时任务
	m.settingsRefreshTask = tasks.NewSettingsRefreshTask(m.services.SettingsService, cfg.SettingsRefreshSpec, logger)
	m.poolStatsTask = tasks.NewPoolStatsTask(rdb, logger)

	return m
}

func (m *Module) initServices() {
	m.bosses = impl.NewPortalBossRepository(m.redis)
	m.bossCache = impl.NewCachedPortalBossRepository(m.bosses, impl.DefaultPortalBossCacheTTL, nil, m.logger)

	repos := service.Repositories{
		Users:    impl.NewUserProgressRepository(m.redis),
		Raids:    impl.NewRaidProgressRepository(m.redis),
		Bosses:   m.bossCache,
		Settings: impl.NewSettingsRepository(m.redis),
	}
	m.services = service.NewServiceContainer(repos, service.Deps{
		Curve:     progression.NewCurve(progression.CurveKind(m.cfg.XPCurve)),
		Publisher: m.publisher,
		Logger:    m.logger,
	})
}

func (m *Module) initHTTPServer() {
	m.respWriter = response.NewResponseHandler(m.logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	// 顺序: 请求 ID → 指标 → 语言 → 访问日志 → panic 恢复 → 安全头 → CORS
	e.Use(custommiddleware.RequestID())
	e.Use(metrics.Middleware(nil))
	e.Use(i18n.Middleware())
	e.Use(custommiddleware.Logging(m.logger))
	e.Use(custommiddleware.Recovery(m.respWriter, m.logger))
	e.Use(custommiddleware.SecurityHeaders())
	e.Use(echomw.CORS())

	m.httpServer = e
}

func (m *Module) setupRoutes() {
	m.httpServer.GET("/health", m.health)
	m.httpServer.GET("/metrics", metrics.EchoHandler())
	handler.NewProgressionHandler(m.services, m.respWriter).RegisterRoutes(m.httpServer)
}

// healthStatus /health 响应
type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (m *Module) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Status: "ok", Checks: map[string]string{"redis": "ok", "nats": "ok"}}
	if err := m.redis.Healthy(ctx); err != nil {
		status.Status = "degraded"
		status.Checks["redis"] = err.Error()
	}
	if !m.publisher.Connected() {
		// 事件发布是尽力而为, 不影响服务可用性
		status.Checks["nats"] = "disconnected"
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return response.EchoJSON(c, m.respWriter, status, code)
}

// Handler 暴露 HTTP 处理器, 便于测试
func (m *Module) Handler() http.Handler {
	return m.httpServer
}

// Start 写入默认 Boss 目录, 启动定时任务并开始监听, 阻塞直到服务关闭
func (m *Module) Start(ctx context.Context) error {
	if err := m.seedBosses(ctx); err != nil {
		return err
	}

	if err := m.settingsRefreshTask.Start(); err != nil {
		return fmt.Errorf("start settings refresh: %w", err)
	}
	if err := m.poolStatsTask.Start(); err != nil {
		return fmt.Errorf("start pool stats: %w", err)
	}

	m.logger.Info("HTTP 服务启动", log.String("addr", m.cfg.HTTPAddr))
	if err := m.httpServer.Start(m.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// seedBosses 写入缺失的默认 Boss, 有新增时丢弃缓存的旧列表
func (m *Module) seedBosses(ctx context.Context) error {
	seeded, err := m.bosses.Seed(ctx, raid.DefaultBosses())
	if err != nil {
		return fmt.Errorf("seed bosses: %w", err)
	}
	if seeded > 0 {
		m.bossCache.Invalidate(ctx, "seeded")
	}
	m.logger.Info("Boss 目录已就绪", log.Int("seeded", seeded))
	return nil
}

// Shutdown 先停止接收请求, 再停止定时任务
func (m *Module) Shutdown(ctx context.Context) error {
	err := m.httpServer.Shutdown(ctx)
	m.settingsRefreshTask.Stop()
	m.poolStatsTask.Stop()
	return err
}
