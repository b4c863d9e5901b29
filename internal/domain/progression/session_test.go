package progression

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateXPFullScenario(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())
	calc := svc.CalculateXP(25, true, true, 7)
	assert.Equal(t, XPCalculation{
		BaseXP:            25,
		CompletionBonus:   25,
		FirstSessionBonus: 50,
		StreakBonus:       200,
		TotalXP:           300,
	}, calc)
}

func TestCalculateXPRules(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())

	tests := []struct {
		name     string
		minutes  int
		complete bool
		first    bool
		streak   int
		want     XPCalculation
	}{
		{"过短时段不发奖励", 4, true, true, 7, XPCalculation{BaseXP: 4, TotalXP: 4}},
		{"恰好达到门槛", 5, true, false, 0, XPCalculation{BaseXP: 5, CompletionBonus: 25, TotalXP: 30}},
		{"未完成只拿首次奖励", 30, false, true, 3, XPCalculation{BaseXP: 30, FirstSessionBonus: 50, TotalXP: 80}},
		{"非当日首次不发连胜奖励", 30, true, false, 14, XPCalculation{BaseXP: 30, CompletionBonus: 25, TotalXP: 55}},
		{"连胜为 0 不算里程碑", 30, false, true, 0, XPCalculation{BaseXP: 30, FirstSessionBonus: 50, TotalXP: 80}},
		{"负时长归零", -10, true, true, 7, XPCalculation{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CalculateXP(tt.minutes, tt.complete, tt.first, tt.streak))
		})
	}
}

func TestApplySettings(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())

	applied := svc.ApplySettings([]Setting{
		{Key: SettingXPPerMinute, Value: "2.5"},
		{Key: SettingCompletionBonus, Value: 40},
		{Key: SettingFirstSessionBonus, Value: 60.0},
		{Key: SettingStreakBonus, Value: int64(500)},
		{Key: SettingMinBonusMinutes, Value: "10"},
		{Key: "future_knob", Value: 1},
		{Key: SettingCompletionBonus, Value: "not-a-number"},
		{Key: SettingXPPerMinute, Value: []int{1}},
	})
	assert.Equal(t, 5, applied)

	cfg := svc.Config()
	assert.Equal(t, 2.5, cfg.XPPerMinute)
	assert.Equal(t, 40, cfg.CompletionBonus)
	assert.Equal(t, 60, cfg.FirstSessionBonus)
	assert.Equal(t, 500, cfg.StreakMilestoneBonus)
	assert.Equal(t, 10, cfg.MinBonusMinutes)

	calc := svc.CalculateXP(9, true, true, 7)
	assert.Equal(t, XPCalculation{BaseXP: 22, TotalXP: 22}, calc)
}

func TestApplySettingsNoopKeepsConfig(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())
	assert.Equal(t, 0, svc.ApplySettings([]Setting{{Key: "unknown", Value: 3}, {Key: SettingXPPerMinute, Value: -1}}))
	assert.Equal(t, DefaultXPConfig(), svc.Config())
}

func TestApplySettingsRejectsOutOfRange(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())
	applied := svc.ApplySettings([]Setting{
		{Key: SettingXPPerMinute, Value: "1e300"},
		{Key: SettingCompletionBonus, Value: MaxSettingBonus + 1},
		{Key: SettingMinBonusMinutes, Value: MaxMinBonusMinutes + 1},
		{Key: SettingXPPerMinute, Value: MaxXPPerMinute},
	})
	assert.Equal(t, 1, applied)
	assert.Equal(t, float64(MaxXPPerMinute), svc.Config().XPPerMinute)

	// 上限下的最长时段依然不溢出
	calc := svc.CalculateXP(24*60, false, false, 0)
	assert.Equal(t, 24*60*MaxXPPerMinute, calc.BaseXP)
}

func TestReloadSettingsRevertsRemovedKeys(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())
	svc.ReloadSettings([]Setting{
		{Key: SettingXPPerMinute, Value: "3"},
		{Key: SettingCompletionBonus, Value: "90"},
	})
	assert.Equal(t, 3.0, svc.Config().XPPerMinute)

	applied := svc.ReloadSettings([]Setting{{Key: SettingCompletionBonus, Value: "90"}})
	assert.Equal(t, 1, applied)
	cfg := svc.Config()
	assert.Equal(t, DefaultXPConfig().XPPerMinute, cfg.XPPerMinute)
	assert.Equal(t, 90, cfg.CompletionBonus)

	assert.Equal(t, 0, svc.ReloadSettings(nil))
	assert.Equal(t, DefaultXPConfig(), svc.Config())
}

func TestApplySettingsConcurrentWithReads(t *testing.T) {
	svc := NewSessionRewardService(DefaultXPConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.ApplySettings([]Setting{{Key: SettingXPPerMinute, Value: 2}})
		}()
		go func() {
			defer wg.Done()
			calc := svc.CalculateXP(10, false, false, 0)
			// 读到旧配置或新配置, 不会出现中间态
			assert.Contains(t, []int{10, 20}, calc.BaseXP)
		}()
	}
	wg.Wait()
}

func TestBuildSessionReward(t *testing.T) {
	calc := XPCalculation{BaseXP: 25, CompletionBonus: 25, TotalXP: 50}
	reward := BuildSessionReward(DefaultCurve, 2680, calc)
	assert.Equal(t, 2730, reward.NewTotalXP)
	assert.Equal(t, 9, reward.OldLevel)
	assert.Equal(t, 10, reward.NewLevel)
	assert.True(t, reward.LeveledUp)
	assert.True(t, reward.RankedUp)
	assert.Equal(t, RankE, reward.OldRank.Code)
	assert.Equal(t, RankD, reward.NewRank.Code)
	assert.Equal(t, calc, reward.XP)

	none := ApplyXP(DefaultCurve, 0, -5)
	assert.Equal(t, 0, none.NewTotalXP)
	assert.False(t, none.LeveledUp)
}
