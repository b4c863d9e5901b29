package raid

import (
	"math"
	"sort"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/randsrc"
)

// 传送门数量配置
const (
	PortalCount        = 5
	CurrentTierPortals = 3
	NextTierPortals    = 2
)

// 预估参数
const (
	estimateNormalWeight      = 0.85
	estimateCriticalWeight    = 0.15
	estimateExchangesPerRaid  = 4
	estimateLowerSpreadFactor = 0.8
	estimateUpperSpreadFactor = 1.2
)

// RaidAttemptResult 一次讨伐的结果
type RaidAttemptResult struct {
	DamageDealt        int     `json:"damage_dealt"`
	DamageTaken        int     `json:"damage_taken"`
	NewTotalDamage     int     `json:"new_total_damage"`
	NewProgressPercent float64 `json:"new_progress_percent"`
	BossDefeated       bool    `json:"boss_defeated"`
	Survived           bool    `json:"survived"`
	Exchanges          int     `json:"exchanges"`
	CriticalHits       int     `json:"critical_hits"`
	Dodges             int     `json:"dodges"`
	BossDodges         int     `json:"boss_dodges"`
}

// PortalEncounter 可挑战的传送门
type PortalEncounter struct {
	Boss    PortalBoss  `json:"boss"`
	Level   int         `json:"level"`
	MaxHP   int         `json:"max_hp"`
	Rewards BossRewards `json:"rewards"`
}

// Engine 讨伐引擎, 复用战斗伤害原语
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

// ExecuteRaidAttempt 模拟一次讨伐。用户不会"输", 只是可能没打空 Boss。
// 不修改 progress, 调用方通过 ApplyDamage 落地伤害。
func (e *Engine) ExecuteRaidAttempt(user, boss battle.BattlerStats, progress *PortalRaidProgress) RaidAttemptResult {
	user, boss = user.Sanitized(), boss.Sanitized()

	maxHP, current := 1, 0
	if progress != nil {
		maxHP = max(1, progress.MaxHP)
		current = min(maxHP, max(0, progress.CurrentDamage))
	}
	remaining := maxHP - current
	userHP := user.Health

	var res RaidAttemptResult
	exchanges := randsrc.IntBetween(e.rng, battle.MinExchanges, battle.MaxExchanges)
	for i := 0; i < exchanges && remaining > 0 && userHP > 0; i++ {
		res.Exchanges++

		hit := battle.Strike(e.rng, user, boss)
		if hit.Dodged {
			res.BossDodges++
		} else {
			if hit.Critical {
				res.CriticalHits++
			}
			res.DamageDealt += hit.Damage
			remaining -= hit.Damage
		}
		if remaining <= 0 {
			break
		}

		// 反击仅用于叙事反馈
		counter := battle.Strike(e.rng, boss, user)
		if counter.Dodged {
			res.Dodges++
			continue
		}
		res.DamageTaken += counter.Damage
		userHP -= counter.Damage
	}

	res.NewTotalDamage = min(maxHP, current+res.DamageDealt)
	res.NewProgressPercent = percentOf(res.NewTotalDamage, maxHP)
	res.BossDefeated = res.NewTotalDamage >= maxHP
	res.Survived = userHP > 0
	return res
}

// GenerateAvailablePortals 当前段位随机 3 个 + 下一段位随机 2 个, 不足时互相补位, 最多 5 个且不重复。
// userRank 无法识别时按 userLevel 推导段位。
func (e *Engine) GenerateAvailablePortals(userLevel int, userRank progression.RankCode, bosses []PortalBoss) []PortalEncounter {
	current, ok := progression.LookupRank(userRank)
	if !ok {
		current = progression.RankForLevel(userLevel)
	}

	currentPool := e.shuffled(bossesOfRank(bosses, current.Code))
	var nextPool []PortalBoss
	if next, ok := progression.NextRankAfter(current.Code); ok {
		nextPool = e.shuffled(bossesOfRank(bosses, next.Code))
	}

	picked := make([]PortalBoss, 0, PortalCount)
	take := func(pool *[]PortalBoss, n int) {
		for n > 0 && len(*pool) > 0 && len(picked) < PortalCount {
			picked = append(picked, (*pool)[0])
			*pool = (*pool)[1:]
			n--
		}
	}
	take(&currentPool, CurrentTierPortals)
	take(&nextPool, NextTierPortals)
	// 补位: 先当前段位, 再下一段位
	take(&currentPool, PortalCount)
	take(&nextPool, PortalCount)

	out := make([]PortalEncounter, 0, len(picked))
	for _, b := range picked {
		out = append(out, NewPortalEncounter(b))
	}
	return out
}

// NewPortalEncounter Boss 等级由 ID 哈希确定, 无需落库
func NewPortalEncounter(b PortalBoss) PortalEncounter {
	level := progression.DeterministicLevelWithinRank(b.Rank, int64(randsrc.SeedFromID(b.ID)))
	return PortalEncounter{
		Boss:    b,
		Level:   level,
		MaxHP:   b.MaxHP(),
		Rewards: CalculateBossRewards(b.Rank, level),
	}
}

func bossesOfRank(bosses []PortalBoss, rank progression.RankCode) []PortalBoss {
	var out []PortalBoss
	for _, b := range bosses {
		if b.Rank == rank {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

// shuffled Fisher-Yates, 返回新切片
func (e *Engine) shuffled(in []PortalBoss) []PortalBoss {
	out := make([]PortalBoss, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// EstimateAttemptsNeeded 预估打空剩余血量所需的挑战次数区间 (80%~120%), 至少 1 次
func EstimateAttemptsNeeded(user, boss battle.BattlerStats, remainingHP int) (minAttempts, maxAttempts int) {
	base := battle.BaseDamage(user.Attack)
	normal := battle.DamageReduction(boss.Defense, base)
	crit := battle.DamageReduction(boss.Defense, base*battle.CriticalDamageFactor)

	perHit := estimateNormalWeight*float64(normal) + estimateCriticalWeight*float64(crit)
	perAttempt := perHit * estimateExchangesPerRaid
	if perAttempt < 1 {
		perAttempt = 1
	}

	avg := float64(max(0, remainingHP)) / perAttempt
	minAttempts = max(1, int(math.Ceil(avg*estimateLowerSpreadFactor-1e-9)))
	maxAttempts = max(minAttempts, int(math.Ceil(avg*estimateUpperSpreadFactor-1e-9)))
	return minAttempts, maxAttempts
}
