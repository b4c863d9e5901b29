package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-quest/internal/domain/randsrc"
)

func TestCalculateRewardsLoss(t *testing.T) {
	engine := NewEngine(&randsrc.Scripted{})
	perf := &BattlePerformance{User: SidePerformance{CriticalHits: 5, Dodges: 5, DamageDealt: 999}}
	assert.Equal(t, Rewards{XP: LossXP}, engine.CalculateRewards(false, DifficultyHard, perf))
	assert.Equal(t, Rewards{XP: LossXP}, CalculateDeterministicRewards("x", false, DifficultyHard, perf))
}

func TestCalculateRewardsStackedBonuses(t *testing.T) {
	engine := NewEngine(&randsrc.Scripted{Ints: []int{1000}})
	perf := &BattlePerformance{
		User:     SidePerformance{CriticalHits: 2, Dodges: 3, DamageDealt: 400},
		Opponent: SidePerformance{DamageDealt: 100},
	}
	// 1000 % 21 = 13 → 金币 33; XP ×1.35, 金币 ×1.50
	rewards := engine.CalculateRewards(true, DifficultyEasy, perf)
	assert.Equal(t, 67, rewards.XP)
	assert.Equal(t, 49, rewards.Gold)
}

func TestCalculateRewardsWithinTierRange(t *testing.T) {
	engine := NewEngine(nil)
	for _, tier := range []DifficultyTier{DifficultyEasy, DifficultyFair, DifficultyHard} {
		gr := tier.GoldRange()
		for i := 0; i < 200; i++ {
			r := engine.CalculateRewards(true, tier, &BattlePerformance{})
			require.Equal(t, WinXP, r.XP)
			require.GreaterOrEqual(t, r.Gold, gr.Min)
			require.LessOrEqual(t, r.Gold, gr.Max)
		}
	}
}

func TestCalculateExactGoldIdempotentAndSpread(t *testing.T) {
	for _, tier := range []DifficultyTier{DifficultyEasy, DifficultyFair, DifficultyHard} {
		gr := tier.GoldRange()
		seen := map[int]bool{}
		for i := 0; i < 300; i++ {
			id := "opponent-" + string(rune('a'+i%26)) + string(rune('A'+i/26))
			g := CalculateExactGold(id, tier)
			require.Equal(t, g, CalculateExactGold(id, tier))
			require.GreaterOrEqual(t, g, gr.Min)
			require.LessOrEqual(t, g, gr.Max)
			seen[g] = true
		}
		assert.Greater(t, len(seen), (gr.Max-gr.Min+1)/2, "tier=%s 金币应分散在区间内", tier)
	}
}

func TestFightDeterministicGoldStable(t *testing.T) {
	// 胜负随机源与金币随机源互不影响
	a := NewEngine(&randsrc.Scripted{Floats: []float64{0.1}, Fallback: 0.9}).
		FightDeterministicGold(evenStats, evenStats, "rival-7", "Rival")
	b := NewEngine(&randsrc.Scripted{Floats: []float64{0.1}, Ints: []int{2}, Fallback: 0.95}).
		FightDeterministicGold(evenStats, evenStats, "rival-7", "Rival")
	require.True(t, a.Won)
	require.True(t, b.Won)
	assert.Equal(t, "Rival", a.OpponentName)

	base := CalculateExactGold("rival-7", DifficultyFair)
	assert.Equal(t, CalculateDeterministicRewards("rival-7", true, DifficultyFair, a.Performance).Gold, a.GoldEarned)
	assert.GreaterOrEqual(t, a.GoldEarned, base)
	assert.GreaterOrEqual(t, b.GoldEarned, base)
}

func TestFightReturnsLossRewards(t *testing.T) {
	res := NewEngine(&randsrc.Scripted{Floats: []float64{0.99}, Fallback: 0.9}).Fight(evenStats, evenStats, "Shade")
	assert.False(t, res.Won)
	assert.Equal(t, LossXP, res.XPEarned)
	assert.Equal(t, 0, res.GoldEarned)
	assert.Equal(t, DifficultyFair, res.Difficulty)
	require.NotNil(t, res.Performance)
}

func TestDifficultyTierGoldRange(t *testing.T) {
	assert.Equal(t, GoldRange{Min: FairGoldMin, Max: FairGoldMax}, DifficultyTier("bogus").GoldRange())
	assert.False(t, DifficultyTier("bogus").Valid())
	assert.True(t, DifficultyHard.Valid())
}
