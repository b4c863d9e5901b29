package progression

// SessionReward 一次结算后调用方需要落库/展示的结果
type SessionReward struct {
	XP         XPCalculation `json:"xp"`
	OldTotalXP int           `json:"old_total_xp"`
	NewTotalXP int           `json:"new_total_xp"`
	OldLevel   int           `json:"old_level"`
	NewLevel   int           `json:"new_level"`
	OldRank    RankInfo      `json:"old_rank"`
	NewRank    RankInfo      `json:"new_rank"`
	LeveledUp  bool          `json:"leveled_up"`
	RankedUp   bool          `json:"ranked_up"`
}

// ApplyXP 将一笔经验叠加到总经验上, 汇总等级与段位变化
func ApplyXP(curve *Curve, oldTotalXP, gained int) SessionReward {
	if gained < 0 {
		gained = 0
	}
	newTotal := oldTotalXP + gained
	oldLevel := curve.LevelFromXP(oldTotalXP)
	newLevel := curve.LevelFromXP(newTotal)

	reward := SessionReward{
		XP:         XPCalculation{TotalXP: gained},
		OldTotalXP: oldTotalXP,
		NewTotalXP: newTotal,
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		OldRank:    RankForLevel(oldLevel),
		NewRank:    RankForLevel(newLevel),
	}
	_, reward.LeveledUp = curve.CheckLevelUp(oldTotalXP, newTotal)
	_, reward.RankedUp = CheckRankUp(oldLevel, newLevel)
	return reward
}

// BuildSessionReward 用完整经验明细构造结算结果
func BuildSessionReward(curve *Curve, oldTotalXP int, calc XPCalculation) SessionReward {
	reward := ApplyXP(curve, oldTotalXP, calc.TotalXP)
	reward.XP = calc
	return reward
}
