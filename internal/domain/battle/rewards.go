package battle

import (
	"math"

	"focus-quest/internal/domain/randsrc"
)

// 基础奖励
const (
	WinXP  = 50
	LossXP = 10
)

// 表现加成(仅胜利时生效, 可叠加)
const (
	BonusMinCrits        = 2
	BonusMinDodges       = 2
	BonusDominanceFactor = 1.5

	CritXPBonus        = 0.10
	CritGoldBonus      = 0.15
	DodgeXPBonus       = 0.10
	DodgeGoldBonus     = 0.15
	DominanceXPBonus   = 0.15
	DominanceGoldBonus = 0.20
)

// Rewards 经验与金币
type Rewards struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

// CalculateRewards 胜利时金币在档位区间内随机
func (e *Engine) CalculateRewards(won bool, tier DifficultyTier, perf *BattlePerformance) Rewards {
	if !won {
		return Rewards{XP: LossXP}
	}
	gr := tier.GoldRange()
	return applyBonuses(perf, randsrc.IntBetween(e.rng, gr.Min, gr.Max))
}

// CalculateDeterministicRewards 胜利时金币由对手标识确定性生成
func CalculateDeterministicRewards(opponentID string, won bool, tier DifficultyTier, perf *BattlePerformance) Rewards {
	if !won {
		return Rewards{XP: LossXP}
	}
	return applyBonuses(perf, CalculateExactGold(opponentID, tier))
}

func applyBonuses(perf *BattlePerformance, baseGold int) Rewards {
	xpMult, goldMult := 1.0, 1.0
	if perf != nil {
		if perf.User.CriticalHits >= BonusMinCrits {
			xpMult += CritXPBonus
			goldMult += CritGoldBonus
		}
		if perf.User.Dodges >= BonusMinDodges {
			xpMult += DodgeXPBonus
			goldMult += DodgeGoldBonus
		}
		if float64(perf.User.DamageDealt) > float64(perf.Opponent.DamageDealt)*BonusDominanceFactor {
			xpMult += DominanceXPBonus
			goldMult += DominanceGoldBonus
		}
	}
	return Rewards{
		XP:   int(math.Floor(WinXP*xpMult + 1e-9)),
		Gold: int(math.Floor(float64(baseGold)*goldMult + 1e-9)),
	}
}

// CalculateExactGold 同一对手标识与档位永远得到相同金币。
// 种子来自 FNV-1a 哈希, 使用独立的 LCG 实例, 不与胜负随机源共享状态。
func CalculateExactGold(opponentID string, tier DifficultyTier) int {
	gr := tier.GoldRange()
	span := gr.Max - gr.Min + 1
	if span <= 0 {
		return gr.Min
	}
	g := randsrc.NewLCGFromID(opponentID)
	return gr.Min + int(g.Next()%uint32(span))
}
