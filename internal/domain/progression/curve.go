// Package progression 经验曲线、段位表与专注时段经验结算。
package progression

import (
	"math"
)

// MaxLevel 等级上限
const MaxLevel = 150

// CurveKind 经验曲线类型
type CurveKind string

const (
	// CurveProgressive 渐进曲线: floor(100 × (L-1)^1.5)
	CurveProgressive CurveKind = "progressive"
	// CurveLinear 线性曲线: 100 × (L-1)
	CurveLinear CurveKind = "linear"
)

// LevelProgress 当前等级进度(按需由总经验推导, 不落库)
type LevelProgress struct {
	CurrentLevel    int     `json:"current_level"`
	NextLevel       int     `json:"next_level"`
	XPInLevel       int     `json:"xp_in_level"`
	XPForNextLevel  int     `json:"xp_for_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
}

// LevelUp 升级信号
type LevelUp struct {
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// Curve 经验曲线, 构造后只读, 可并发使用
type Curve struct {
	kind       CurveKind
	maxLevel   int
	thresholds []int // thresholds[i] = 达到等级 i+1 所需总经验
}

// DefaultCurve 默认渐进曲线
var DefaultCurve = NewCurve(CurveProgressive)

// NewCurve 创建曲线, 未知类型按渐进曲线处理
func NewCurve(kind CurveKind) *Curve {
	if kind != CurveLinear {
		kind = CurveProgressive
	}
	c := &Curve{kind: kind, maxLevel: MaxLevel}
	c.thresholds = make([]int, c.maxLevel)
	for lvl := 1; lvl <= c.maxLevel; lvl++ {
		c.thresholds[lvl-1] = c.formula(lvl)
	}
	return c
}

// Kind 曲线类型
func (c *Curve) Kind() CurveKind {
	return c.kind
}

// MaxLevel 等级上限
func (c *Curve) MaxLevel() int {
	return c.maxLevel
}

func (c *Curve) formula(level int) int {
	if level <= 1 {
		return 0
	}
	n := float64(level - 1)
	if c.kind == CurveLinear {
		return int(100 * n)
	}
	// n*sqrt(n) 比 Pow(n,1.5) 在完全平方数上精确
	return int(math.Floor(100 * n * math.Sqrt(n)))
}

// XPForLevel 达到指定等级所需的总经验, 等级<=1 返回 0
func (c *Curve) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= c.maxLevel {
		return c.thresholds[level-1]
	}
	return c.formula(level)
}

// LevelFromXP 总经验对应的等级, 负经验视为 1 级, 不超过上限
func (c *Curve) LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	// 二分查找最后一个 threshold <= xp
	lo, hi := 0, c.maxLevel-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.thresholds[mid] <= xp {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// LevelProgress 计算等级进度
func (c *Curve) LevelProgress(totalXP int) LevelProgress {
	level := c.LevelFromXP(totalXP)
	if level >= c.maxLevel {
		return LevelProgress{
			CurrentLevel:    c.maxLevel,
			NextLevel:       c.maxLevel,
			XPInLevel:       max(0, totalXP-c.XPForLevel(c.maxLevel)),
			XPForNextLevel:  0,
			ProgressPercent: 100,
		}
	}

	current := c.XPForLevel(level)
	next := c.XPForLevel(level + 1)
	span := next - current
	if span <= 0 {
		span = 1
	}
	inLevel := max(0, totalXP-current)
	percent := float64(inLevel) / float64(span) * 100
	return LevelProgress{
		CurrentLevel:    level,
		NextLevel:       level + 1,
		XPInLevel:       inLevel,
		XPForNextLevel:  span,
		ProgressPercent: clampPercent(percent),
	}
}

// CheckLevelUp 仅当新等级严格大于旧等级时返回 true
func (c *Curve) CheckLevelUp(oldXP, newXP int) (LevelUp, bool) {
	oldLevel := c.LevelFromXP(oldXP)
	newLevel := c.LevelFromXP(newXP)
	if newLevel > oldLevel {
		return LevelUp{OldLevel: oldLevel, NewLevel: newLevel}, true
	}
	return LevelUp{}, false
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
