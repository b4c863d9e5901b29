package randsrc

// Scripted 按预置序列回放的随机源, 用于测试与战斗回放。
// 序列耗尽后 Float64 返回 Fallback, IntN 返回 0。
type Scripted struct {
	Floats   []float64
	Ints     []int
	Fallback float64

	fi, ii int
}

// Float64 依次返回预置浮点数
func (s *Scripted) Float64() float64 {
	if s.fi >= len(s.Floats) {
		return s.Fallback
	}
	v := s.Floats[s.fi]
	s.fi++
	return v
}

// IntN 依次返回预置整数, 结果对 n 取模以保证落在区间内
func (s *Scripted) IntN(n int) int {
	if n <= 0 || s.ii >= len(s.Ints) {
		return 0
	}
	v := s.Ints[s.ii] % n
	s.ii++
	if v < 0 {
		v += n
	}
	return v
}
