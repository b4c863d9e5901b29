package progression

// RankCode 段位代码
type RankCode string

const (
	RankE   RankCode = "E"
	RankD   RankCode = "D"
	RankC   RankCode = "C"
	RankB   RankCode = "B"
	RankA   RankCode = "A"
	RankS   RankCode = "S"
	RankSS  RankCode = "SS"
	RankSSS RankCode = "SSS"
)

// RankInfo 段位静态配置
type RankInfo struct {
	Code     RankCode `json:"code"`
	Title    string   `json:"title"`
	MinLevel int      `json:"min_level"`
	Color    string   `json:"color"`
}

// RankUp 段位提升信号
type RankUp struct {
	OldRank RankInfo `json:"old_rank"`
	NewRank RankInfo `json:"new_rank"`
}

// 按 MinLevel 严格升序, 运行期只读
var rankTable = [...]RankInfo{
	{Code: RankE, Title: "Novice", MinLevel: 1, Color: "#9E9E9E"},
	{Code: RankD, Title: "Apprentice", MinLevel: 10, Color: "#8BC34A"},
	{Code: RankC, Title: "Adept", MinLevel: 25, Color: "#03A9F4"},
	{Code: RankB, Title: "Veteran", MinLevel: 40, Color: "#3F51B5"},
	{Code: RankA, Title: "Elite", MinLevel: 60, Color: "#9C27B0"},
	{Code: RankS, Title: "Master", MinLevel: 80, Color: "#FF9800"},
	{Code: RankSS, Title: "Grandmaster", MinLevel: 100, Color: "#F44336"},
	{Code: RankSSS, Title: "Legend", MinLevel: 125, Color: "#FFD700"},
}

// Ranks 返回段位表副本
func Ranks() []RankInfo {
	out := make([]RankInfo, len(rankTable))
	copy(out, rankTable[:])
	return out
}

// LowestRank 最低段位
func LowestRank() RankInfo {
	return rankTable[0]
}

// RankForLevel 最低门槛<=level 的最高段位, 低于所有门槛时返回最低段位
func RankForLevel(level int) RankInfo {
	result := rankTable[0]
	for _, r := range rankTable {
		if r.MinLevel <= level {
			result = r
		} else {
			break
		}
	}
	return result
}

// LookupRank 按代码查找段位
func LookupRank(code RankCode) (RankInfo, bool) {
	idx := rankIndex(code)
	if idx < 0 {
		return RankInfo{}, false
	}
	return rankTable[idx], true
}

// RankByCode 按代码查找段位, 未知代码回退到最低段位
func RankByCode(code RankCode) RankInfo {
	if r, ok := LookupRank(code); ok {
		return r
	}
	return rankTable[0]
}

// CheckRankUp 仅当段位代码变化时返回 true
func CheckRankUp(oldLevel, newLevel int) (RankUp, bool) {
	oldRank := RankForLevel(oldLevel)
	newRank := RankForLevel(newLevel)
	if oldRank.Code == newRank.Code {
		return RankUp{}, false
	}
	return RankUp{OldRank: oldRank, NewRank: newRank}, true
}

// NextRankAfter 固定顺序中的下一段位, 最高段位返回 false
func NextRankAfter(code RankCode) (RankInfo, bool) {
	idx := rankIndex(code)
	if idx < 0 || idx+1 >= len(rankTable) {
		return RankInfo{}, false
	}
	return rankTable[idx+1], true
}

// LevelRange 段位覆盖的等级闭区间
func LevelRange(code RankCode) (minLevel, maxLevel int) {
	r := RankByCode(code)
	if next, ok := NextRankAfter(r.Code); ok {
		return r.MinLevel, next.MinLevel - 1
	}
	return r.MinLevel, MaxLevel
}

// DeterministicLevelWithinRank 将稳定种子映射到段位等级区间内, 用于无需落库的 Boss 等级
func DeterministicLevelWithinRank(code RankCode, seed int64) int {
	lo, hi := LevelRange(code)
	span := int64(hi - lo + 1)
	if span <= 0 {
		return lo
	}
	offset := seed % span
	if offset < 0 {
		offset = -offset
	}
	return lo + int(offset)
}

func rankIndex(code RankCode) int {
	for i, r := range rankTable {
		if r.Code == code {
			return i
		}
	}
	return -1
}
