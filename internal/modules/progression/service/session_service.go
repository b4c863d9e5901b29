package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

// MaxSessionMinutes 单次专注时长上限
const MaxSessionMinutes = 24 * 60

// CompleteSessionRequest 专注结束上报
//
// FirstSessionOfDay 与 CurrentStreak 可由客户端显式给出, 缺省时由用户进度推导。
type CompleteSessionRequest struct {
	UserID            string `json:"user_id" validate:"required,max=64"`
	SessionID         string `json:"session_id,omitempty" validate:"omitempty,max=64"`
	DurationMinutes   int    `json:"duration_minutes" validate:"gte=0,lte=1440"`
	Completed         bool   `json:"completed"`
	FirstSessionOfDay *bool  `json:"first_session_of_day,omitempty"`
	CurrentStreak     *int   `json:"current_streak,omitempty" validate:"omitempty,gte=0"`
}

// CompleteSessionResult 专注结算结果
type CompleteSessionResult struct {
	SessionID     string                    `json:"session_id"`
	UserID        string                    `json:"user_id"`
	Reward        progression.SessionReward `json:"reward"`
	LevelProgress progression.LevelProgress `json:"level_progress"`
	CurrentStreak int                       `json:"current_streak"`
	TotalSessions int                       `json:"total_sessions"`
}

// SessionService 专注时段结算
type SessionService struct {
	users     interfaces.UserProgressRepository
	rewards   *progression.SessionRewardService
	curve     *progression.Curve
	metrics   *metrics.GameMetrics
	logger    log.Logger
	announcer *progressAnnouncer
	clock     func() time.Time
}

// NewSessionService 构造函数
func NewSessionService(users interfaces.UserProgressRepository, rewards *progression.SessionRewardService, deps Deps) *SessionService {
	deps = deps.withDefaults()
	return &SessionService{
		users:     users,
		rewards:   rewards,
		curve:     deps.Curve,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("service", "session"),
		announcer: deps.announcer(),
		clock:     deps.Clock,
	}
}

// CompleteSession 计算本次经验并累加到用户总经验, 检测升级与升段
//
// 只有完成的时段才会推进连续天数, 中断的时段仍按时长获得基础经验。
// 当日首次与连续奖励每天最多发放一次, 无论时段是否完成。
func (s *SessionService) CompleteSession(ctx context.Context, req *CompleteSessionRequest) (*CompleteSessionResult, error) {
	if req == nil || req.UserID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > MaxSessionMinutes {
		return nil, xerrors.NewInvalidSessionError("duration_minutes out of range").WithUser(req.UserID)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := s.clock()

	var reward progression.SessionReward
	progress, err := s.users.Update(ctx, req.UserID, func(p *user.UserProgress) error {
		firstOfDay, streak := p.SessionContext(now)
		if req.FirstSessionOfDay != nil {
			firstOfDay = *req.FirstSessionOfDay
		}
		if req.CurrentStreak != nil {
			streak = *req.CurrentStreak
		}
		// 客户端给出的首次标记不能绕过每日一次的限制
		if p.DailyBonusClaimed(now) {
			firstOfDay = false
		}

		calc := s.rewards.CalculateXP(req.DurationMinutes, req.Completed, firstOfDay, streak)
		reward = p.ApplySessionXP(s.curve, calc)
		if calc.FirstSessionBonus > 0 || calc.StreakBonus > 0 {
			p.ClaimDailyBonus(now)
		}
		if req.Completed {
			p.RecordSession(now)
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReward(SourceSession, int64(reward.XP.TotalXP), 0)
	s.announcer.announce(ctx, req.UserID, SourceSession, reward)
	s.logger.DebugContext(ctx, "专注时段已结算",
		log.String("session_id", sessionID),
		log.Int("xp", reward.XP.TotalXP),
		log.Int("new_level", reward.NewLevel))

	return &CompleteSessionResult{
		SessionID:     sessionID,
		UserID:        req.UserID,
		Reward:        reward,
		LevelProgress: s.curve.LevelProgress(progress.TotalXP),
		CurrentStreak: progress.CurrentStreak,
		TotalSessions: progress.TotalSessions,
	}, nil
}
