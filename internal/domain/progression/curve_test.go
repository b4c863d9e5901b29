package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPForLevelKnownValues(t *testing.T) {
	c := NewCurve(CurveProgressive)
	assert.Equal(t, 0, c.XPForLevel(1))
	assert.Equal(t, 0, c.XPForLevel(0))
	assert.Equal(t, 100, c.XPForLevel(2))
	assert.Equal(t, 282, c.XPForLevel(3))
	assert.Equal(t, 800, c.XPForLevel(5))
	assert.Equal(t, 2700, c.XPForLevel(10))

	lin := NewCurve(CurveLinear)
	assert.Equal(t, CurveLinear, lin.Kind())
	assert.Equal(t, 900, lin.XPForLevel(10))
	assert.Equal(t, CurveProgressive, NewCurve("unknown").Kind())
}

func TestCurveBoundaryExactness(t *testing.T) {
	for _, kind := range []CurveKind{CurveProgressive, CurveLinear} {
		c := NewCurve(kind)
		for lvl := 1; lvl <= MaxLevel; lvl++ {
			xp := c.XPForLevel(lvl)
			require.Equal(t, lvl, c.LevelFromXP(xp), "kind=%s level=%d", kind, lvl)
			if lvl > 1 {
				require.Less(t, c.LevelFromXP(xp-1), lvl, "kind=%s level=%d", kind, lvl)
				require.Greater(t, xp, c.XPForLevel(lvl-1), "曲线必须严格递增")
			}
		}
	}
}

func TestLevelFromXPClamps(t *testing.T) {
	c := DefaultCurve
	assert.Equal(t, 1, c.LevelFromXP(-500))
	assert.Equal(t, 1, c.LevelFromXP(99))
	assert.Equal(t, MaxLevel, c.LevelFromXP(c.XPForLevel(MaxLevel)*10))
}

func TestLevelProgress(t *testing.T) {
	c := DefaultCurve

	p := c.LevelProgress(150)
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, 3, p.NextLevel)
	assert.Equal(t, 50, p.XPInLevel)
	assert.Equal(t, 182, p.XPForNextLevel)
	assert.InDelta(t, 27.47, p.ProgressPercent, 0.01)

	p = c.LevelProgress(-10)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, 0.0, p.ProgressPercent)

	top := c.LevelProgress(c.XPForLevel(MaxLevel) + 5)
	assert.Equal(t, MaxLevel, top.CurrentLevel)
	assert.Equal(t, 0, top.XPForNextLevel)
	assert.Equal(t, 100.0, top.ProgressPercent)
}

func TestCheckLevelUp(t *testing.T) {
	c := DefaultCurve
	up, ok := c.CheckLevelUp(90, 300)
	require.True(t, ok)
	assert.Equal(t, LevelUp{OldLevel: 1, NewLevel: 3}, up)

	_, ok = c.CheckLevelUp(100, 150)
	assert.False(t, ok)

	_, ok = c.CheckLevelUp(300, 90)
	assert.False(t, ok, "经验减少不应触发升级")
}
