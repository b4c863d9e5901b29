package battle

import (
	"math"

	"focus-quest/internal/domain/randsrc"
)

// 胜率边界, 任何战斗都不会必胜或必败
const (
	MinWinProbability = 0.15
	MaxWinProbability = 0.85
)

// 回合数区间
const (
	MinExchanges = 3
	MaxExchanges = 5
)

// 叙事修正系数(十分位): 胜者伤害 = ceil(败者×1.3) + ceil(败者×0.1)
const (
	correctionFactorTenths = 13
	correctionExtraTenths  = 1
)

// Resolution 一次战斗结算结果
type Resolution struct {
	Won         bool               `json:"won"`
	Difficulty  DifficultyTier     `json:"difficulty"`
	Probability float64            `json:"probability"`
	Performance *BattlePerformance `json:"performance"`
}

// BattleResult 交给调用方的最终结果
type BattleResult struct {
	Won          bool               `json:"won"`
	XPEarned     int                `json:"xp_earned"`
	GoldEarned   int                `json:"gold_earned"`
	OpponentName string             `json:"opponent_name"`
	Difficulty   DifficultyTier     `json:"difficulty"`
	Performance  *BattlePerformance `json:"performance,omitempty"`
}

// Engine 无状态战斗引擎, 只持有真随机源
type Engine struct {
	rng randsrc.Source
}

// NewEngine 创建引擎, rng 为空时使用进程级真随机源
func NewEngine(rng randsrc.Source) *Engine {
	if rng == nil {
		rng = randsrc.True()
	}
	return &Engine{rng: rng}
}

// WinProbability 胜率: 0.5 起步, 叠加四项线性修正后限制在 [0.15, 0.85]
func WinProbability(user, opponent BattlerStats) float64 {
	p := 0.5
	p += scaled(user.Attack-opponent.Defense, 100) * 0.15
	p += scaled(user.Defense-opponent.Attack, 100) * 0.15
	p += scaled(user.Speed-opponent.Speed, 150) * 0.10
	p += scaled(user.Health-opponent.Health, 200) * 0.10
	return math.Max(MinWinProbability, math.Min(MaxWinProbability, p))
}

// scaled diff/div 限制在 [-1,1]
func scaled(diff int, div float64) float64 {
	return math.Max(-1, math.Min(1, float64(diff)/div))
}

// ResolveBattle 决定胜负 → 模拟叙事 → 修正叙事
func (e *Engine) ResolveBattle(user, opponent BattlerStats) Resolution {
	user, opponent = user.Sanitized(), opponent.Sanitized()

	p := WinProbability(user, opponent)
	won := randsrc.Roll(e.rng, p)

	perf := e.simulate(user, opponent)
	correctNarrative(perf, won)
	perf.Intensity = intensity(perf)
	perf.DominantStat = DominantStat(user, opponent, perf)

	return Resolution{
		Won:         won,
		Difficulty:  DetermineDifficulty(user, opponent),
		Probability: p,
		Performance: perf,
	}
}

// simulate 双方交替出手 3~5 回合, 只产出叙事数据
func (e *Engine) simulate(user, opponent BattlerStats) *BattlePerformance {
	perf := &BattlePerformance{
		Exchanges: randsrc.IntBetween(e.rng, MinExchanges, MaxExchanges),
		User: SidePerformance{
			AttackRatio:  ratio(user.Attack, opponent.Defense),
			DefenseRatio: ratio(user.Defense, opponent.Attack),
		},
		Opponent: SidePerformance{
			AttackRatio:  ratio(opponent.Attack, user.Defense),
			DefenseRatio: ratio(opponent.Defense, user.Attack),
		},
	}

	for i := 0; i < perf.Exchanges; i++ {
		record(Strike(e.rng, user, opponent), &perf.User, &perf.Opponent)
		record(Strike(e.rng, opponent, user), &perf.Opponent, &perf.User)
	}
	return perf
}

func record(out StrikeOutcome, attacker, defender *SidePerformance) {
	if out.Dodged {
		defender.Dodges++
		return
	}
	if out.Critical {
		attacker.CriticalHits++
	}
	attacker.DamageDealt += out.Damage
	defender.DamageBlocked += out.Blocked
}

// correctNarrative 胜者伤害不高于败者时放大胜者伤害, 使叙事与胜负一致
func correctNarrative(perf *BattlePerformance, won bool) {
	winner, loser := &perf.User, &perf.Opponent
	if !won {
		winner, loser = loser, winner
	}
	if winner.DamageDealt > loser.DamageDealt {
		return
	}
	l := loser.DamageDealt
	// 整数向上取整, 避免浮点误差
	boosted := ceilDiv(l*correctionFactorTenths, 10) + ceilDiv(l*correctionExtraTenths, 10)
	winner.DamageDealt = max(MinDamage, boosted)
	perf.Corrected = true
}

// Fight 结算一场战斗并计算随机金币奖励
func (e *Engine) Fight(user, opponent BattlerStats, opponentName string) BattleResult {
	res := e.ResolveBattle(user, opponent)
	rewards := e.CalculateRewards(res.Won, res.Difficulty, res.Performance)
	return res.toResult(opponentName, rewards)
}

// FightDeterministicGold 结算一场战斗, 金币由对手标识确定性生成
func (e *Engine) FightDeterministicGold(user, opponent BattlerStats, opponentID, opponentName string) BattleResult {
	res := e.ResolveBattle(user, opponent)
	rewards := CalculateDeterministicRewards(opponentID, res.Won, res.Difficulty, res.Performance)
	return res.toResult(opponentName, rewards)
}

func (r Resolution) toResult(opponentName string, rewards Rewards) BattleResult {
	return BattleResult{
		Won:          r.Won,
		XPEarned:     rewards.XP,
		GoldEarned:   rewards.Gold,
		OpponentName: opponentName,
		Difficulty:   r.Difficulty,
		Performance:  r.Performance,
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
