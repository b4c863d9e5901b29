package randsrc

import (
	"hash/fnv"
)

// LCG 参数 (glibc rand 同款), 模 2^31
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// LCG 线性同余生成器, 同一种子永远产生同一序列。
// 非并发安全, 每次计算应新建实例。
type LCG struct {
	state uint64
}

// NewLCG 以给定种子创建生成器
func NewLCG(seed uint32) *LCG {
	return &LCG{state: uint64(seed) % lcgModulus}
}

// NewLCGFromID 以字符串标识的 FNV-1a 哈希作为种子
func NewLCGFromID(id string) *LCG {
	return NewLCG(SeedFromID(id))
}

// SeedFromID 将标识哈希为 31 位种子。
// 固定使用 FNV-1a 64 位, 高低 32 位异或折叠后截断到 31 位, 保证跨平台/跨版本稳定。
func SeedFromID(id string) uint32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	sum := h.Sum64()
	return uint32((sum^(sum>>32))&0xFFFFFFFF) & (lcgModulus - 1)
}

// Next 推进一步并返回新状态, 范围 [0, 2^31)
func (g *LCG) Next() uint32 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return uint32(g.state)
}

// Float64 返回 [0,1) 区间的浮点数
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / float64(lcgModulus)
}

// IntN 返回 [0,n) 区间的整数
func (g *LCG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Next() % uint32(n))
}

var _ Source = (*LCG)(nil)
