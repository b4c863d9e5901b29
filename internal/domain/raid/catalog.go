package raid

import (
	"strings"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
)

// catalogEntry 内置 Boss 名单
type catalogEntry struct {
	name string
	rank progression.RankCode
	spec Specialization
}

var defaultCatalog = []catalogEntry{
	{"Goblin Scout", progression.RankE, SpecSpeedster},
	{"Mud Golem", progression.RankE, SpecTank},
	{"Shadow Wolf", progression.RankE, SpecBalanced},
	{"Orc Raider", progression.RankD, SpecBalanced},
	{"Stone Sentinel", progression.RankD, SpecTank},
	{"Venom Wisp", progression.RankD, SpecGlassCannon},
	{"Ice Witch", progression.RankC, SpecGlassCannon},
	{"Iron Boar", progression.RankC, SpecTank},
	{"Night Stalker", progression.RankC, SpecSpeedster},
	{"Lich Adept", progression.RankB, SpecGlassCannon},
	{"Bone Colossus", progression.RankB, SpecTank},
	{"Storm Hawk", progression.RankB, SpecSpeedster},
	{"Demon Knight", progression.RankA, SpecBalanced},
	{"Abyssal Hydra", progression.RankA, SpecTank},
	{"Phantom Blade", progression.RankA, SpecSpeedster},
	{"Flame Monarch", progression.RankS, SpecGlassCannon},
	{"Titan Warden", progression.RankS, SpecTank},
	{"Void Reaper", progression.RankS, SpecBalanced},
	{"Ancient Dragon", progression.RankSS, SpecBalanced},
	{"Frost Leviathan", progression.RankSS, SpecTank},
	{"Chaos Herald", progression.RankSS, SpecGlassCannon},
	{"Shadow Monarch", progression.RankSSS, SpecBalanced},
	{"Eternal Colossus", progression.RankSSS, SpecTank},
	{"Starfall Seraph", progression.RankSSS, SpecSpeedster},
}

// DefaultBosses 内置 Boss 目录, 存储为空时用于初始化
func DefaultBosses() []PortalBoss {
	out := make([]PortalBoss, 0, len(defaultCatalog))
	for i, c := range defaultCatalog {
		out = append(out, PortalBoss{
			ID:             strings.ToLower(string(c.rank)) + "-" + strings.ReplaceAll(strings.ToLower(c.name), " ", "-"),
			Name:           c.name,
			Rank:           c.rank,
			Stats:          CatalogStats(c.rank, c.spec),
			Specialization: c.spec,
			SortOrder:      i + 1,
		})
	}
	return out
}

// CatalogStats 按段位和流派生成 Boss 属性: 段位越高基础值越高, 流派决定分布
func CatalogStats(rank progression.RankCode, spec Specialization) battle.BattlerStats {
	info := progression.RankByCode(rank)
	tier := 0
	for i, r := range progression.Ranks() {
		if r.Code == info.Code {
			tier = i
			break
		}
	}

	base := 12 + tier*14
	health := battle.BaselineHealth + tier*60

	scale := func(v int, pct int) int { return v * pct / 100 }
	s := battle.BattlerStats{Health: health, Attack: base, Defense: base, Speed: base, Level: info.MinLevel}
	switch spec {
	case SpecTank:
		s.Health = scale(health, 130)
		s.Attack = scale(base, 80)
		s.Defense = scale(base, 140)
		s.Speed = scale(base, 60)
	case SpecSpeedster:
		s.Defense = scale(base, 70)
		s.Speed = scale(base, 150)
	case SpecGlassCannon:
		s.Health = scale(health, 80)
		s.Attack = scale(base, 160)
		s.Defense = scale(base, 50)
	}
	return s
}
