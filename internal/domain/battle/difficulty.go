package battle

// DifficultyTier 难度档位
type DifficultyTier string

const (
	DifficultyEasy DifficultyTier = "easy"
	DifficultyFair DifficultyTier = "fair"
	DifficultyHard DifficultyTier = "hard"
)

// DifficultyGapThreshold 总属性差阈值
const DifficultyGapThreshold = 30

// 各档位金币区间(闭区间)
const (
	EasyGoldMin = 20
	EasyGoldMax = 40
	FairGoldMin = 40
	FairGoldMax = 70
	HardGoldMin = 70
	HardGoldMax = 120
)

// GoldRange 金币闭区间
type GoldRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GoldRange 档位对应的金币区间, 未知档位按 fair 处理
func (t DifficultyTier) GoldRange() GoldRange {
	switch t {
	case DifficultyEasy:
		return GoldRange{Min: EasyGoldMin, Max: EasyGoldMax}
	case DifficultyHard:
		return GoldRange{Min: HardGoldMin, Max: HardGoldMax}
	default:
		return GoldRange{Min: FairGoldMin, Max: FairGoldMax}
	}
}

// Valid 是否为已知档位
func (t DifficultyTier) Valid() bool {
	switch t {
	case DifficultyEasy, DifficultyFair, DifficultyHard:
		return true
	}
	return false
}

// DetermineDifficulty 由双方总属性差决定难度
func DetermineDifficulty(user, opponent BattlerStats) DifficultyTier {
	gap := user.TotalStats() - opponent.TotalStats()
	switch {
	case gap >= DifficultyGapThreshold:
		return DifficultyEasy
	case gap <= -DifficultyGapThreshold:
		return DifficultyHard
	default:
		return DifficultyFair
	}
}
