package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// Config progression-server 的运行配置, 全部来自环境变量
type Config struct {
	Environment string `env:"FOCUS_QUEST_ENV" envDefault:"development"`
	LogLevel    string `env:"FOCUS_QUEST_LOG_LEVEL" envDefault:"info"`

	HTTPAddr        string        `env:"FOCUS_QUEST_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"FOCUS_QUEST_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Redis RedisConfig `envPrefix:"FOCUS_QUEST_REDIS_"`

	// 为空时不发布事件
	NATSURL string `env:"FOCUS_QUEST_NATS_URL"`

	// 带秒的 cron 表达式
	SettingsRefreshSpec string `env:"FOCUS_QUEST_SETTINGS_REFRESH_SPEC" envDefault:"0 * * * * *"`

	// progressive 或 linear
	XPCurve string `env:"FOCUS_QUEST_XP_CURVE" envDefault:"progressive"`

	// 所有指标的 service 标签
	MetricsService string `env:"FOCUS_QUEST_METRICS_SERVICE" envDefault:"progression"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Load 从环境变量加载配置并校验
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	switch c.XPCurve {
	case "progressive", "linear":
	default:
		return fmt.Errorf("FOCUS_QUEST_XP_CURVE 只能是 progressive 或 linear, 当前为 %q", c.XPCurve)
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("FOCUS_QUEST_REDIS_PORT 无效: %d", c.Redis.Port)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(c.SettingsRefreshSpec); err != nil {
		return fmt.Errorf("FOCUS_QUEST_SETTINGS_REFRESH_SPEC 无效: %w", err)
	}
	return nil
}

// IsProduction 是否生产环境
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LogValue 输出到日志时隐藏密码
func (c Config) LogValue() slog.Value {
	password := ""
	if c.Redis.Password != "" {
		password = "***REDACTED***"
	}
	return slog.GroupValue(
		slog.String("environment", c.Environment),
		slog.String("log_level", c.LogLevel),
		slog.String("http_addr", c.HTTPAddr),
		slog.String("redis_addr", fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)),
		slog.String("redis_password", password),
		slog.Int("redis_db", c.Redis.DB),
		slog.String("nats_url", c.NATSURL),
		slog.String("settings_refresh_spec", c.SettingsRefreshSpec),
		slog.String("xp_curve", c.XPCurve),
	)
}
