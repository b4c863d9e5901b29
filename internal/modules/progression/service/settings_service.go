package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

// SettingsService 经验参数热更新
type SettingsService struct {
	repo    interfaces.SettingsRepository
	rewards *progression.SessionRewardService
	metrics *metrics.GameMetrics
	logger  log.Logger
}

// NewSettingsService 构造函数
func NewSettingsService(repo interfaces.SettingsRepository, rewards *progression.SessionRewardService, deps Deps) *SettingsService {
	deps = deps.withDefaults()
	return &SettingsService{
		repo:    repo,
		rewards: rewards,
		metrics: deps.Metrics,
		logger:  deps.Logger.With("service", "settings"),
	}
}

// Refresh 读取全部参数并整体替换经验配置, 返回生效条数
func (s *SettingsService) Refresh(ctx context.Context) (int, error) {
	settings, err := s.repo.List(ctx)
	s.metrics.RecordSettingsRefresh(err)
	if err != nil {
		return 0, err
	}
	applied := s.rewards.ReloadSettings(settings)
	if applied > 0 {
		s.logger.InfoContext(ctx, "经验参数已刷新",
			log.Int("applied", applied),
			log.Int("total", len(settings)))
	}
	return applied, nil
}

// Update 写入单个参数并立即刷新
func (s *SettingsService) Update(ctx context.Context, key, value string) (progression.XPConfig, error) {
	key = strings.TrimSpace(key)
	limit, ok := progression.SettingLimit(key)
	if !ok {
		return progression.XPConfig{}, xerrors.NewValidationError("key", "未知参数: "+key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return progression.XPConfig{}, xerrors.NewValidationError("value", "必须为非负数")
	}
	if v > limit {
		return progression.XPConfig{}, xerrors.NewValidationError("value",
			"超出上限 "+strconv.FormatFloat(limit, 'f', -1, 64))
	}
	if err := s.repo.Set(ctx, key, value); err != nil {
		return progression.XPConfig{}, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return progression.XPConfig{}, err
	}
	return s.rewards.Config(), nil
}

// Current 当前经验配置
func (s *SettingsService) Current() progression.XPConfig {
	return s.rewards.Config()
}
