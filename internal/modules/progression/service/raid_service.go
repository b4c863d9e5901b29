package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/raid"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/notify"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

// AttemptEstimate 剩余攻击次数估算
type AttemptEstimate struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PortalView 传送门及当前用户的讨伐进度
type PortalView struct {
	raid.PortalEncounter
	Progress *raid.PortalRaidProgress `json:"progress,omitempty"`
	Estimate AttemptEstimate          `json:"estimate"`
}

// AttackResult 一次突袭的结果
type AttackResult struct {
	AttemptID string                     `json:"attempt_id"`
	BossID    string                     `json:"boss_id"`
	Attempt   raid.RaidAttemptResult     `json:"attempt"`
	Progress  *raid.PortalRaidProgress   `json:"progress"`
	Rewards   *raid.BossRewards          `json:"rewards,omitempty"`
	Reward    *progression.SessionReward `json:"reward,omitempty"`
	Estimate  *AttemptEstimate           `json:"estimate,omitempty"`
}

// RaidService 传送门突袭
type RaidService struct {
	users     interfaces.UserProgressRepository
	raids     interfaces.RaidProgressRepository
	bosses    interfaces.PortalBossRepository
	engine    *raid.Engine
	curve     *progression.Curve
	metrics   *metrics.GameMetrics
	logger    log.Logger
	announcer *progressAnnouncer
	clock     func() time.Time
}

// NewRaidService 构造函数
func NewRaidService(users interfaces.UserProgressRepository, raids interfaces.RaidProgressRepository, bosses interfaces.PortalBossRepository, deps Deps) *RaidService {
	deps = deps.withDefaults()
	return &RaidService{
		users:     users,
		raids:     raids,
		bosses:    bosses,
		engine:    raid.NewEngine(deps.Random),
		curve:     deps.Curve,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("service", "raid"),
		announcer: deps.announcer(),
		clock:     deps.Clock,
	}
}

// ListPortals 为用户生成当前可用的传送门, 已击败的 Boss 不再出现
func (s *RaidService) ListPortals(ctx context.Context, userID string) ([]PortalView, error) {
	if userID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	p, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	bosses, err := s.bosses.List(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.raids.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := make([]raid.PortalBoss, 0, len(bosses))
	for _, b := range bosses {
		if rp, ok := progress[b.ID]; ok && rp.Completed {
			continue
		}
		open = append(open, b)
	}

	userStats := p.BattleStats()
	encounters := s.engine.GenerateAvailablePortals(p.Level, p.Rank, open)
	views := make([]PortalView, 0, len(encounters))
	for _, enc := range encounters {
		view := PortalView{PortalEncounter: enc, Progress: progress[enc.Boss.ID]}
		remaining := enc.MaxHP
		if view.Progress != nil {
			remaining = view.Progress.RemainingHP()
		}
		view.Estimate.Min, view.Estimate.Max = raid.EstimateAttemptsNeeded(userStats, bossBattleStats(enc), remaining)
		views = append(views, view)
	}
	return views, nil
}

// Attack 对指定 Boss 发起一次突袭
//
// 伤害在讨伐进度的乐观事务内累加, 只有把进度从未完成推进到完成的那一次攻击会发放 Boss 奖励,
// 奖励与完成状态在同一个事务中提交。
func (s *RaidService) Attack(ctx context.Context, userID, bossID string) (*AttackResult, error) {
	if userID == "" || bossID == "" {
		return nil, xerrors.NewValidationError("user_id/boss_id", "不能为空")
	}
	boss, err := s.bosses.Get(ctx, bossID)
	if err != nil {
		return nil, err
	}
	p, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !portalOpenFor(p, boss) {
		return nil, xerrors.NewPortalNotAvailableError(userID, bossID).
			WithMetadata("boss_rank", string(boss.Rank)).
			WithMetadata("user_rank", string(p.Rank))
	}

	encounter := raid.NewPortalEncounter(boss)
	bossStats := bossBattleStats(encounter)
	rewards := encounter.Rewards
	now := s.clock()

	var (
		attempt   raid.RaidAttemptResult
		defeated  bool
		userStats battle.BattlerStats
		reward    progression.SessionReward
	)
	rp, _, err := s.raids.Update(ctx, userID, bossID, encounter.MaxHP, func(rp *raid.PortalRaidProgress, owner *user.UserProgress) (bool, error) {
		if rp.Completed {
			return false, xerrors.NewRaidCompletedError(userID, bossID)
		}
		userStats = owner.BattleStats()
		attempt = s.engine.ExecuteRaidAttempt(userStats, bossStats, rp)
		defeated = rp.ApplyDamage(attempt.DamageDealt, now)
		if !defeated {
			return false, nil
		}
		reward = grantBossRewards(owner, s.curve, rewards, now)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRaidAttempt(string(boss.Rank), attempt.DamageDealt, defeated)
	out := &AttackResult{
		AttemptID: uuid.NewString(),
		BossID:    bossID,
		Attempt:   attempt,
		Progress:  rp,
	}

	if !defeated {
		est := AttemptEstimate{}
		est.Min, est.Max = raid.EstimateAttemptsNeeded(userStats, bossStats, rp.RemainingHP())
		out.Estimate = &est
		return out, nil
	}

	out.Rewards = &rewards
	out.Reward = &reward

	s.metrics.RecordReward(SourceRaid, int64(rewards.XP), int64(rewards.Gold))
	log.LogBusinessEvent(ctx, s.logger, "raid_completed", "user", userID, map[string]any{
		"boss_id": bossID,
		"rank":    string(boss.Rank),
		"xp":      rewards.XP,
		"gold":    rewards.Gold,
	})
	s.announcer.publish(ctx, notify.NewEvent(notify.EventRaidCompleted, userID, notify.RaidCompletedPayload{
		BossID:   boss.ID,
		BossName: boss.Name,
		Rank:     string(boss.Rank),
		XP:       int64(rewards.XP),
		Gold:     int64(rewards.Gold),
	}))
	s.announcer.announce(ctx, userID, SourceRaid, reward)
	return out, nil
}

// grantBossRewards 只在讨伐进度由未完成变为完成的那次事务中调用
func grantBossRewards(p *user.UserProgress, curve *progression.Curve, rewards raid.BossRewards, now time.Time) progression.SessionReward {
	reward := p.ApplyXP(curve, rewards.XP)
	p.AddGold(rewards.Gold)
	p.RaidsWon++
	p.UpdatedAt = now
	return reward
}

func (s *RaidService) loadOrNew(ctx context.Context, userID string) (*user.UserProgress, error) {
	p, err := s.users.Get(ctx, userID)
	if xerrors.HasCode(err, xerrors.CodeUserProgressNotFound) {
		return user.NewUserProgress(userID, s.clock()), nil
	}
	return p, err
}

// portalOpenFor 传送门只对当前段位和下一段位开放
func portalOpenFor(p *user.UserProgress, boss raid.PortalBoss) bool {
	current := p.RankInfo()
	if boss.Rank == current.Code {
		return true
	}
	next, ok := progression.NextRankAfter(current.Code)
	return ok && boss.Rank == next.Code
}

// bossBattleStats Boss 属性以遭遇等级参战
func bossBattleStats(enc raid.PortalEncounter) battle.BattlerStats {
	st := enc.Boss.Stats
	st.Level = enc.Level
	return st
}
