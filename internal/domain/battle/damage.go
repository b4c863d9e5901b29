package battle

import (
	"math"

	"focus-quest/internal/domain/randsrc"
)

// 伤害原语常量
const (
	BaseDamageFlat       = 50
	MaxDamageReduction   = 0.70
	DefenseReductionDiv  = 150.0
	MinDamage            = 10
	BaseCriticalChance   = 0.10
	MaxCriticalChance    = 0.40
	CriticalSpeedDiv     = 200.0
	BaseDodgeChance      = 0.05
	MaxDodgeChance       = 0.30
	DodgeSpeedDiv        = 250.0
	CriticalDamageFactor = 2
)

// BaseDamage 基础伤害 = 50 + floor(attack/10 × 8)
func BaseDamage(attack int) int {
	if attack < 0 {
		attack = 0
	}
	return BaseDamageFlat + int(math.Floor(float64(attack)/10*8))
}

// ReductionFraction 防御减伤比例, 上限 70%
func ReductionFraction(defense int) float64 {
	if defense <= 0 {
		return 0
	}
	return math.Min(MaxDamageReduction, float64(defense)/DefenseReductionDiv)
}

// DamageReduction 减伤后的实际伤害, 至少 10 点
func DamageReduction(defense, incoming int) int {
	dmg := int(math.Floor(float64(incoming)*(1-ReductionFraction(defense)) + 1e-9))
	if dmg < MinDamage {
		return MinDamage
	}
	return dmg
}

// CriticalChance 暴击率 = min(0.40, 0.10 + speed/200)
func CriticalChance(speed int) float64 {
	return math.Min(MaxCriticalChance, BaseCriticalChance+float64(max(0, speed))/CriticalSpeedDiv)
}

// DodgeChance 闪避率 = min(0.30, 0.05 + speed/250)
func DodgeChance(speed int) float64 {
	return math.Min(MaxDodgeChance, BaseDodgeChance+float64(max(0, speed))/DodgeSpeedDiv)
}

// StrikeOutcome 单次出手结果
type StrikeOutcome struct {
	Dodged   bool `json:"dodged"`
	Critical bool `json:"critical"`
	Incoming int  `json:"incoming"`
	Damage   int  `json:"damage"`
	Blocked  int  `json:"blocked"`
}

// Strike 攻击方对防守方出手一次: 先判定防守方闪避, 再判定攻击方暴击, 最后经过减伤
func Strike(rng randsrc.Source, attacker, defender BattlerStats) StrikeOutcome {
	if randsrc.Roll(rng, DodgeChance(defender.Speed)) {
		return StrikeOutcome{Dodged: true}
	}
	out := StrikeOutcome{Incoming: BaseDamage(attacker.Attack)}
	if randsrc.Roll(rng, CriticalChance(attacker.Speed)) {
		out.Critical = true
		out.Incoming *= CriticalDamageFactor
	}
	out.Damage = DamageReduction(defender.Defense, out.Incoming)
	out.Blocked = max(0, out.Incoming-out.Damage)
	return out
}
