// Package raid 传送门 Boss 讨伐: 多次挑战累计伤害, 直到 Boss 血量耗尽。
package raid

import (
	"math"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
)

// Specialization Boss 流派
type Specialization string

const (
	SpecTank        Specialization = "tank"
	SpecBalanced    Specialization = "balanced"
	SpecSpeedster   Specialization = "speedster"
	SpecGlassCannon Specialization = "glass_cannon"
)

// PortalBoss 只读的 Boss 静态配置
type PortalBoss struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Rank           progression.RankCode `json:"rank"`
	Stats          battle.BattlerStats  `json:"stats"`
	Specialization Specialization       `json:"specialization"`
	SortOrder      int                  `json:"sort_order"`
}

// 各段位 Boss 基础血量
var bossBaseHP = map[progression.RankCode]int{
	progression.RankE:   300,
	progression.RankD:   500,
	progression.RankC:   800,
	progression.RankB:   1200,
	progression.RankA:   1800,
	progression.RankS:   2500,
	progression.RankSS:  3500,
	progression.RankSSS: 5000,
}

// HPMultiplier 流派血量倍率, 未知流派按均衡处理
func (s Specialization) HPMultiplier() float64 {
	switch s {
	case SpecTank:
		return 1.5
	case SpecSpeedster:
		return 0.7
	case SpecGlassCannon:
		return 0.6
	default:
		return 1.0
	}
}

// BossMaxHP 段位基础血量 × 流派倍率
func BossMaxHP(rank progression.RankCode, spec Specialization) int {
	base, ok := bossBaseHP[rank]
	if !ok {
		base = bossBaseHP[progression.LowestRank().Code]
	}
	return int(math.Floor(float64(base)*spec.HPMultiplier() + 1e-9))
}

// MaxHP Boss 最大血量
func (b PortalBoss) MaxHP() int {
	return BossMaxHP(b.Rank, b.Specialization)
}

// BossRewards 击败 Boss 的奖励
type BossRewards struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

var bossBaseRewards = map[progression.RankCode]BossRewards{
	progression.RankE:   {XP: 100, Gold: 50},
	progression.RankD:   {XP: 200, Gold: 100},
	progression.RankC:   {XP: 350, Gold: 175},
	progression.RankB:   {XP: 500, Gold: 250},
	progression.RankA:   {XP: 750, Gold: 400},
	progression.RankS:   {XP: 1000, Gold: 600},
	progression.RankSS:  {XP: 1500, Gold: 900},
	progression.RankSSS: {XP: 2000, Gold: 1300},
}

// BossLevelScale 每级奖励加成
const BossLevelScale = 0.02

// CalculateBossRewards 段位基础奖励 × (1 + level × 0.02)
func CalculateBossRewards(rank progression.RankCode, level int) BossRewards {
	base, ok := bossBaseRewards[rank]
	if !ok {
		base = bossBaseRewards[progression.LowestRank().Code]
	}
	scale := 1 + float64(max(0, level))*BossLevelScale
	return BossRewards{
		XP:   int(math.Floor(float64(base.XP)*scale + 1e-9)),
		Gold: int(math.Floor(float64(base.Gold)*scale + 1e-9)),
	}
}
