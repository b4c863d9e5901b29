// Package battle 属性对抗战斗结算: 胜率、回合模拟、伤害原语与奖励。
//
// 结算分三个独立阶段: 先掷骰决定胜负, 再模拟回合作为叙事, 最后把叙事伤害修正为与胜负一致。
// 回合模拟只负责表现, 不决定胜负。
package battle

// 基准生命值, 参与总属性计算
const BaselineHealth = 150

// BattlerStats 一次遭遇使用的属性快照, 每场战斗重新构造
type BattlerStats struct {
	Health  int `json:"health" validate:"gte=0"`
	Attack  int `json:"attack" validate:"gte=0"`
	Defense int `json:"defense" validate:"gte=0"`
	Speed   int `json:"speed" validate:"gte=0"`
	Level   int `json:"level" validate:"gte=0"`
	// FocusPower 旧版展示字段, 不参与计算
	FocusPower int `json:"focus_power,omitempty"`
}

// TotalStats 总属性 = 攻 + 防 + 速 + (生命-150)/5
func (s BattlerStats) TotalStats() int {
	return s.Attack + s.Defense + s.Speed + (s.Health-BaselineHealth)/5
}

// Sanitized 负数属性归零
func (s BattlerStats) Sanitized() BattlerStats {
	s.Health = max(0, s.Health)
	s.Attack = max(0, s.Attack)
	s.Defense = max(0, s.Defense)
	s.Speed = max(0, s.Speed)
	s.Level = max(0, s.Level)
	return s
}

// 旧版战力换算参数
const (
	legacyPowerBaseline = 1000
	legacyPointsPerStat = 10
	legacyBaseStat      = 10
	legacyHealthScale   = 5
)

// StatsFromPower 将旧版单一战力值换算为属性, 仅为兼容旧调用方保留。
// 超出 1000 的部分每 10 点折算 1 个属性点, 平均分给攻防速, 生命按 5 倍缩放。
func StatsFromPower(power int) BattlerStats {
	points := max(0, power-legacyPowerBaseline) / legacyPointsPerStat
	share := points / 3
	return BattlerStats{
		Health:     BaselineHealth + share*legacyHealthScale,
		Attack:     legacyBaseStat + share,
		Defense:    legacyBaseStat + share,
		Speed:      legacyBaseStat + share,
		FocusPower: power,
	}
}
