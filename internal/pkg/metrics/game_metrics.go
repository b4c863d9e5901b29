package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GameMetrics 进度与战斗业务指标
type GameMetrics struct {
	// 战斗次数 (按结果和难度分组)
	BattlesTotal *prometheus.CounterVec

	// 突袭攻击次数 (按 Boss 等级和是否击败分组)
	RaidAttemptsTotal *prometheus.CounterVec

	// 单次突袭造成的伤害
	RaidDamage *prometheus.HistogramVec

	// 发放的经验 (按来源分组: session/battle/raid)
	XPAwardedTotal *prometheus.CounterVec

	// 发放的金币 (按来源分组)
	GoldAwardedTotal *prometheus.CounterVec

	LevelUpsTotal *prometheus.CounterVec
	RankUpsTotal  *prometheus.CounterVec

	// 配置刷新次数 (success/error)
	SettingsRefreshTotal *prometheus.CounterVec
}

// RaidDamageBuckets 单次突袭伤害分布
var RaidDamageBuckets = []float64{10, 25, 50, 100, 200, 400, 800}

// DefaultGameMetrics 默认的业务指标实例
var DefaultGameMetrics *GameMetrics

func init() {
	DefaultGameMetrics = NewGameMetrics(DefaultNamespace)
}

// NewGameMetrics 创建业务指标收集器
func NewGameMetrics(namespace string) *GameMetrics {
	return NewGameMetricsWithRegistry(namespace, GetRegisterer())
}

// NewGameMetricsWithRegistry 创建业务指标收集器（使用自定义注册表）
func NewGameMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *GameMetrics {
	factory := promauto.With(registerer)

	return &GameMetrics{
		BattlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "battles_total",
				Help:      "Total number of resolved battles by result and difficulty",
			},
			[]string{"result", "difficulty", "service"},
		),
		RaidAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "raid_attempts_total",
				Help:      "Total number of portal raid attempts by boss rank and outcome",
			},
			[]string{"rank", "defeated", "service"},
		),
		RaidDamage: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "raid_damage",
				Help:      "Damage dealt per raid attempt",
				Buckets:   RaidDamageBuckets,
			},
			[]string{"rank", "service"},
		),
		XPAwardedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progression",
				Name:      "xp_awarded_total",
				Help:      "Total XP awarded by source",
			},
			[]string{"source", "service"},
		),
		GoldAwardedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progression",
				Name:      "gold_awarded_total",
				Help:      "Total gold awarded by source",
			},
			[]string{"source", "service"},
		),
		LevelUpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progression",
				Name:      "level_ups_total",
				Help:      "Total number of level ups",
			},
			[]string{"service"},
		),
		RankUpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progression",
				Name:      "rank_ups_total",
				Help:      "Total number of rank ups by new rank",
			},
			[]string{"rank", "service"},
		),
		SettingsRefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progression",
				Name:      "settings_refresh_total",
				Help:      "XP settings refresh runs by result",
			},
			[]string{"result", "service"},
		),
	}
}

// RecordBattle 记录一场战斗
//
// 参数:
//   - won: 用户是否获胜
//   - difficulty: easy/fair/hard
func (m *GameMetrics) RecordBattle(won bool, difficulty string) {
	result := "defeat"
	if won {
		result = "victory"
	}
	m.BattlesTotal.WithLabelValues(result, difficulty, GetServiceName()).Inc()
}

// RecordRaidAttempt 记录一次突袭攻击
func (m *GameMetrics) RecordRaidAttempt(rank string, damage int, defeated bool) {
	service := GetServiceName()
	label := "false"
	if defeated {
		label = "true"
	}
	m.RaidAttemptsTotal.WithLabelValues(rank, label, service).Inc()
	m.RaidDamage.WithLabelValues(rank, service).Observe(float64(damage))
}

// RecordReward 记录发放的经验和金币, 0 值不计
func (m *GameMetrics) RecordReward(source string, xp, gold int64) {
	service := GetServiceName()
	if xp > 0 {
		m.XPAwardedTotal.WithLabelValues(source, service).Add(float64(xp))
	}
	if gold > 0 {
		m.GoldAwardedTotal.WithLabelValues(source, service).Add(float64(gold))
	}
}

// RecordLevelUp 记录升级
func (m *GameMetrics) RecordLevelUp() {
	m.LevelUpsTotal.WithLabelValues(GetServiceName()).Inc()
}

// RecordRankUp 记录段位提升
func (m *GameMetrics) RecordRankUp(rank string) {
	m.RankUpsTotal.WithLabelValues(rank, GetServiceName()).Inc()
}

// RecordSettingsRefresh 记录一次配置刷新
func (m *GameMetrics) RecordSettingsRefresh(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SettingsRefreshTotal.WithLabelValues(result, GetServiceName()).Inc()
}
