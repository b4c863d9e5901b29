package raid

import (
	"time"
)

// PortalRaidProgress 用户对单个 Boss 的累计讨伐进度
type PortalRaidProgress struct {
	UserID          string     `json:"user_id"`
	BossID          string     `json:"boss_id"`
	CurrentDamage   int        `json:"current_damage"`
	MaxHP           int        `json:"max_hp"`
	ProgressPercent float64    `json:"progress_percent"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewRaidProgress 首次挑战时创建, 最大血量在此固定
func NewRaidProgress(userID, bossID string, maxHP int, now time.Time) *PortalRaidProgress {
	return &PortalRaidProgress{
		UserID:    userID,
		BossID:    bossID,
		MaxHP:     max(1, maxHP),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RemainingHP Boss 剩余血量
func (p *PortalRaidProgress) RemainingHP() int {
	return max(0, p.MaxHP-p.CurrentDamage)
}

// ApplyDamage 唯一的修改入口: 伤害封顶于最大血量, 首次打满时标记完成。
// 完成后再次调用不会改变任何字段。返回本次调用是否完成了讨伐。
func (p *PortalRaidProgress) ApplyDamage(amount int, now time.Time) bool {
	if p.Completed || amount <= 0 {
		return false
	}
	if p.MaxHP <= 0 {
		p.MaxHP = 1
	}
	p.CurrentDamage = min(p.MaxHP, max(0, p.CurrentDamage)+amount)
	p.ProgressPercent = percentOf(p.CurrentDamage, p.MaxHP)
	p.UpdatedAt = now
	if p.CurrentDamage >= p.MaxHP {
		p.Completed = true
		completedAt := now
		p.CompletedAt = &completedAt
		return true
	}
	return false
}

func percentOf(damage, maxHP int) float64 {
	if maxHP <= 0 {
		maxHP = 1
	}
	pct := float64(damage) / float64(maxHP) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
