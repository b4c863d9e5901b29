package progression

import (
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// 可热更新的配置键
const (
	SettingXPPerMinute       = "xp_per_minute"
	SettingCompletionBonus   = "completion_bonus"
	SettingFirstSessionBonus = "first_session_bonus"
	SettingStreakBonus       = "streak_milestone_bonus"
	SettingMinBonusMinutes   = "min_bonus_minutes"
)

// StreakMilestoneDays 连续天数里程碑间隔
const StreakMilestoneDays = 7

// 配置项上限, 保证单次结算不会溢出
const (
	MaxXPPerMinute     = 100
	MaxSettingBonus    = 100_000
	MaxMinBonusMinutes = 24 * 60
)

// SettingLimit 配置项允许的最大值, 未知键返回 false
func SettingLimit(key string) (float64, bool) {
	switch strings.TrimSpace(key) {
	case SettingXPPerMinute:
		return MaxXPPerMinute, true
	case SettingCompletionBonus, SettingFirstSessionBonus, SettingStreakBonus:
		return MaxSettingBonus, true
	case SettingMinBonusMinutes:
		return MaxMinBonusMinutes, true
	}
	return 0, false
}

// XPConfig 专注时段经验参数
type XPConfig struct {
	XPPerMinute          float64 `json:"xp_per_minute"`
	CompletionBonus      int     `json:"completion_bonus"`
	FirstSessionBonus    int     `json:"first_session_bonus"`
	StreakMilestoneBonus int     `json:"streak_milestone_bonus"`
	MinBonusMinutes      int     `json:"min_bonus_minutes"`
}

// DefaultXPConfig 默认参数
func DefaultXPConfig() XPConfig {
	return XPConfig{
		XPPerMinute:          1,
		CompletionBonus:      25,
		FirstSessionBonus:    50,
		StreakMilestoneBonus: 200,
		MinBonusMinutes:      5,
	}
}

// Setting 外部下发的单条配置, Value 可以是 string/int/float
type Setting struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// XPCalculation 单次时段的经验明细
type XPCalculation struct {
	BaseXP            int `json:"base_xp"`
	CompletionBonus   int `json:"completion_bonus"`
	FirstSessionBonus int `json:"first_session_bonus"`
	StreakBonus       int `json:"streak_bonus"`
	TotalXP           int `json:"total_xp"`
}

// SessionRewardService 专注时段经验结算
//
// 配置以整体替换的方式更新, 并发读取时要么看到旧配置要么看到新配置。
type SessionRewardService struct {
	base XPConfig
	cfg  atomic.Pointer[XPConfig]
}

// NewSessionRewardService 创建服务, cfg 同时作为 ReloadSettings 的基线
func NewSessionRewardService(cfg XPConfig) *SessionRewardService {
	s := &SessionRewardService{base: cfg}
	s.cfg.Store(&cfg)
	return s
}

// Config 当前配置快照
func (s *SessionRewardService) Config() XPConfig {
	return *s.cfg.Load()
}

// ApplySettings 应用配置补丁, 忽略未知键与无法解析的值, 返回生效条数
func (s *SessionRewardService) ApplySettings(settings []Setting) int {
	next := s.Config()
	applied := 0
	for _, st := range settings {
		if applyOne(&next, st) {
			applied++
		}
	}
	if applied > 0 {
		s.cfg.Store(&next)
	}
	return applied
}

// ReloadSettings 以构造时的基线加上 settings 整体替换配置, 存储中已删除的键回到基线值
func (s *SessionRewardService) ReloadSettings(settings []Setting) int {
	next := s.base
	applied := 0
	for _, st := range settings {
		if applyOne(&next, st) {
			applied++
		}
	}
	s.cfg.Store(&next)
	return applied
}

func applyOne(cfg *XPConfig, st Setting) bool {
	key := strings.TrimSpace(st.Key)
	limit, known := SettingLimit(key)
	if !known {
		return false
	}
	f, ok := toFloat(st.Value)
	if !ok || f < 0 || f > limit {
		return false
	}
	switch key {
	case SettingXPPerMinute:
		cfg.XPPerMinute = f
	default:
		v := int(f)
		switch key {
		case SettingCompletionBonus:
			cfg.CompletionBonus = v
		case SettingFirstSessionBonus:
			cfg.FirstSessionBonus = v
		case SettingStreakBonus:
			cfg.StreakMilestoneBonus = v
		default:
			cfg.MinBonusMinutes = v
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CalculateXP 计算一次专注时段获得的经验
func (s *SessionRewardService) CalculateXP(durationMinutes int, isSessionComplete, isFirstSessionOfDay bool, currentStreak int) XPCalculation {
	cfg := s.cfg.Load()

	base := int(math.Floor(float64(durationMinutes) * cfg.XPPerMinute))
	if base < 0 {
		base = 0
	}
	calc := XPCalculation{BaseXP: base}

	// 过短的时段不享受任何奖励
	qualifies := durationMinutes >= cfg.MinBonusMinutes
	if qualifies {
		if isSessionComplete {
			calc.CompletionBonus = cfg.CompletionBonus
		}
		if isFirstSessionOfDay {
			calc.FirstSessionBonus = cfg.FirstSessionBonus
			// 每周里程碑每天只发一次
			if currentStreak > 0 && currentStreak%StreakMilestoneDays == 0 {
				calc.StreakBonus = cfg.StreakMilestoneBonus
			}
		}
	}

	calc.TotalXP = calc.BaseXP + calc.CompletionBonus + calc.FirstSessionBonus + calc.StreakBonus
	return calc
}
