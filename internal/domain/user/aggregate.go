package user

import (
	"time"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
)

// dayLayout 连续天数按 UTC 自然日计算
const dayLayout = "2006-01-02"

// DefaultStats 新用户的初始战斗属性
var DefaultStats = battle.BattlerStats{
	Health:  battle.BaselineHealth,
	Attack:  10,
	Defense: 10,
	Speed:   10,
	Level:   1,
}

// UserProgress 用户进度聚合根: 经验、等级、段位、金币、属性和连续专注天数
type UserProgress struct {
	UserID  string               `json:"user_id"`
	TotalXP int                  `json:"total_xp"`
	Level   int                  `json:"level"`
	Rank    progression.RankCode `json:"rank"`
	Gold    int                  `json:"gold"`

	Stats battle.BattlerStats `json:"stats"`

	CurrentStreak  int    `json:"current_streak"`
	LastSessionDay string `json:"last_session_day,omitempty"`
	TotalSessions  int    `json:"total_sessions"`
	// LastBonusDay 最近一次发放当日首次或连续奖励的日期, 中断的时段也会占用
	LastBonusDay string `json:"last_bonus_day,omitempty"`

	BattlesWon  int `json:"battles_won"`
	BattlesLost int `json:"battles_lost"`
	RaidsWon    int `json:"raids_won"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProgress 首次出现的用户, 1 级 E 段位
func NewUserProgress(userID string, now time.Time) *UserProgress {
	return &UserProgress{
		UserID:    userID,
		Level:     1,
		Rank:      progression.LowestRank().Code,
		Stats:     DefaultStats,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyXP 叠加经验并同步等级与段位
func (u *UserProgress) ApplyXP(curve *progression.Curve, gained int) progression.SessionReward {
	reward := progression.ApplyXP(curve, u.TotalXP, gained)
	u.setTotalXP(curve, reward.NewTotalXP)
	return reward
}

// ApplySessionXP 同 ApplyXP, 保留经验明细
func (u *UserProgress) ApplySessionXP(curve *progression.Curve, calc progression.XPCalculation) progression.SessionReward {
	reward := progression.BuildSessionReward(curve, u.TotalXP, calc)
	u.setTotalXP(curve, reward.NewTotalXP)
	return reward
}

func (u *UserProgress) setTotalXP(curve *progression.Curve, total int) {
	u.TotalXP = total
	u.Level = curve.LevelFromXP(total)
	u.Rank = progression.RankForLevel(u.Level).Code
	u.Stats.Level = u.Level
}

// AddGold 增加金币, 负数忽略
func (u *UserProgress) AddGold(amount int) {
	if amount > 0 {
		u.Gold += amount
	}
}

// RankInfo 当前段位信息
func (u *UserProgress) RankInfo() progression.RankInfo {
	return progression.RankByCode(u.Rank)
}

// BattleStats 参战属性, 等级与当前等级一致
func (u *UserProgress) BattleStats() battle.BattlerStats {
	s := u.Stats.Sanitized()
	s.Level = u.Level
	return s
}

// SessionContext 根据上次专注日期推导本次是否当日首次以及计入本次后的连续天数。
// 当天已经发过每日奖励时 firstOfDay 为 false。
func (u *UserProgress) SessionContext(now time.Time) (firstOfDay bool, streak int) {
	today := now.UTC().Format(dayLayout)
	switch u.LastSessionDay {
	case today:
		firstOfDay, streak = false, max(1, u.CurrentStreak)
	case now.UTC().AddDate(0, 0, -1).Format(dayLayout):
		firstOfDay, streak = true, u.CurrentStreak+1
	default:
		firstOfDay, streak = true, 1
	}
	if u.DailyBonusClaimed(now) {
		firstOfDay = false
	}
	return firstOfDay, streak
}

// DailyBonusClaimed 当天是否已经领取过每日奖励
func (u *UserProgress) DailyBonusClaimed(now time.Time) bool {
	return u.LastBonusDay == now.UTC().Format(dayLayout)
}

// ClaimDailyBonus 记录当天已发放每日奖励
func (u *UserProgress) ClaimDailyBonus(now time.Time) {
	u.LastBonusDay = now.UTC().Format(dayLayout)
}

// RecordSession 记录一次专注, 更新连续天数
func (u *UserProgress) RecordSession(now time.Time) {
	_, streak := u.SessionContext(now)
	u.CurrentStreak = streak
	u.LastSessionDay = now.UTC().Format(dayLayout)
	u.TotalSessions++
	u.UpdatedAt = now
}

// RecordBattle 统计胜负
func (u *UserProgress) RecordBattle(won bool, now time.Time) {
	if won {
		u.BattlesWon++
	} else {
		u.BattlesLost++
	}
	u.UpdatedAt = now
}
