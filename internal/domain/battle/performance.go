package battle

import "math"

// StatLabel 主导属性标签
type StatLabel string

const (
	StatAttack  StatLabel = "Attack"
	StatDefense StatLabel = "Defense"
	StatSpeed   StatLabel = "Speed"
	StatHealth  StatLabel = "Health"
)

// SidePerformance 单方战斗表现
type SidePerformance struct {
	DamageDealt   int     `json:"damage_dealt"`
	DamageBlocked int     `json:"damage_blocked"`
	CriticalHits  int     `json:"critical_hits"`
	Dodges        int     `json:"dodges"`
	AttackRatio   float64 `json:"attack_ratio"`
	DefenseRatio  float64 `json:"defense_ratio"`
}

// BattlePerformance 一场战斗的表现轨迹, 生成后只读
type BattlePerformance struct {
	User         SidePerformance `json:"user"`
	Opponent     SidePerformance `json:"opponent"`
	Exchanges    int             `json:"exchanges"`
	Intensity    float64         `json:"intensity"`
	DominantStat StatLabel       `json:"dominant_stat"`
	// Corrected 叙事伤害是否被修正以匹配胜负
	Corrected bool `json:"corrected"`
}

// DominantStat 主导属性打分, 同分保留先出现者(攻、防、速、血)
func DominantStat(user, opponent BattlerStats, perf *BattlePerformance) StatLabel {
	var blocked, actions int
	if perf != nil {
		blocked = perf.User.DamageBlocked
		actions = perf.User.CriticalHits + perf.User.Dodges
	}
	scores := []struct {
		label StatLabel
		score float64
	}{
		{StatAttack, math.Abs(float64(user.Attack-opponent.Attack)) * 1.5},
		{StatDefense, float64(blocked) * 0.8},
		{StatSpeed, float64(actions) * 50},
		{StatHealth, math.Abs(float64(user.Health-opponent.Health)) * 0.5},
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	return best.label
}

func ratio(num, den int) float64 {
	if den <= 0 {
		den = 1
	}
	return float64(num) / float64(den)
}

// intensity 贴身程度与行动数混合, 落在 [0,1]
func intensity(perf *BattlePerformance) float64 {
	u, o := perf.User.DamageDealt, perf.Opponent.DamageDealt
	total := u + o
	if total <= 0 {
		total = 1
	}
	closeness := 1 - math.Abs(float64(u-o))/float64(total)

	actions := perf.User.CriticalHits + perf.User.Dodges + perf.Opponent.CriticalHits + perf.Opponent.Dodges
	slots := 2 * perf.Exchanges
	if slots <= 0 {
		slots = 1
	}
	action := math.Min(1, float64(actions)/float64(slots))

	v := 0.6*closeness + 0.4*action
	return math.Max(0, math.Min(1, v))
}
