package raid

import (
	"testing"

	"focus-quest/internal/domain/progression"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBosses_CoversEveryRank(t *testing.T) {
	bosses := DefaultBosses()

	seen := map[string]bool{}
	perRank := map[progression.RankCode]int{}
	for _, b := range bosses {
		assert.False(t, seen[b.ID], "重复的 Boss ID %s", b.ID)
		seen[b.ID] = true
		perRank[b.Rank]++
		assert.Positive(t, b.MaxHP())
	}

	for _, r := range progression.Ranks() {
		assert.GreaterOrEqual(t, perRank[r.Code], CurrentTierPortals, "段位 %s Boss 不足", r.Code)
	}
	assert.Equal(t, "e-goblin-scout", bosses[0].ID)
}

func TestCatalogStats_SpecShapesDistribution(t *testing.T) {
	tank := CatalogStats(progression.RankC, SpecTank)
	cannon := CatalogStats(progression.RankC, SpecGlassCannon)
	balanced := CatalogStats(progression.RankC, SpecBalanced)

	assert.Greater(t, tank.Defense, balanced.Defense)
	assert.Greater(t, cannon.Attack, balanced.Attack)
	assert.Equal(t, 25, balanced.Level)
	assert.Greater(t, CatalogStats(progression.RankSSS, SpecBalanced).TotalStats(), balanced.TotalStats())
}
