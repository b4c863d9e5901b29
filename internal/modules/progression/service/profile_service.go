package service

import (
	"context"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

// ProfileView 用户档案
type ProfileView struct {
	UserID        string                    `json:"user_id"`
	TotalXP       int                       `json:"total_xp"`
	LevelProgress progression.LevelProgress `json:"level_progress"`
	Rank          progression.RankInfo      `json:"rank"`
	NextRank      *progression.RankInfo     `json:"next_rank,omitempty"`
	Gold          int                       `json:"gold"`
	Stats         battle.BattlerStats       `json:"stats"`
	CurrentStreak int                       `json:"current_streak"`
	TotalSessions int                       `json:"total_sessions"`
	BattlesWon    int                       `json:"battles_won"`
	BattlesLost   int                       `json:"battles_lost"`
	RaidsWon      int                       `json:"raids_won"`
}

// ProfileService 用户档案查询
type ProfileService struct {
	users interfaces.UserProgressRepository
	curve *progression.Curve
}

// NewProfileService 构造函数
func NewProfileService(users interfaces.UserProgressRepository, deps Deps) *ProfileService {
	deps = deps.withDefaults()
	return &ProfileService{users: users, curve: deps.Curve}
}

// Profile 等级进度、当前段位与下一段位
func (s *ProfileService) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	if userID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	p, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		UserID:        p.UserID,
		TotalXP:       p.TotalXP,
		LevelProgress: s.curve.LevelProgress(p.TotalXP),
		Rank:          p.RankInfo(),
		Gold:          p.Gold,
		Stats:         p.BattleStats(),
		CurrentStreak: p.CurrentStreak,
		TotalSessions: p.TotalSessions,
		BattlesWon:    p.BattlesWon,
		BattlesLost:   p.BattlesLost,
		RaidsWon:      p.RaidsWon,
	}
	if next, ok := progression.NextRankAfter(view.Rank.Code); ok {
		view.NextRank = &next
	}
	return view, nil
}

// Ranks 段位表
func (s *ProfileService) Ranks() []progression.RankInfo {
	return progression.Ranks()
}
