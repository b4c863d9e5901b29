// Package randsrc 提供战斗引擎使用的随机源抽象。
//
// 引擎内存在两类随机源:
//   - 真随机源: 胜负判定与回合模拟, 不可复现;
//   - 确定性随机源: 仅用于按稳定标识生成可复现的奖励(例如同一对手永远给出相同金币)。
//
// 两者绝不能共享状态, 否则胜负结果可以从对手 ID 推算出来。
package randsrc

import (
	"math/rand/v2"
)

// Source 引擎消费的最小随机接口
type Source interface {
	// Float64 返回 [0,1) 区间的浮点数
	Float64() float64
	// IntN 返回 [0,n) 区间的整数, n<=0 时返回 0
	IntN(n int) int
}

// trueSource 基于 math/rand/v2 全局生成器, 并发安全
type trueSource struct{}

// True 返回进程级真随机源
func True() Source {
	return trueSource{}
}

func (trueSource) Float64() float64 {
	return rand.Float64()
}

func (trueSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

// IntBetween 返回闭区间 [lo,hi] 内的整数, hi<lo 时返回 lo
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Roll 以概率 p 返回 true
func Roll(src Source, p float64) bool {
	return src.Float64() < p
}
