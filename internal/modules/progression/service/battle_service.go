package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

// OpponentRequest 对手描述, Stats 为空时可用旧版 Power 换算
type OpponentRequest struct {
	ID    string               `json:"id,omitempty" validate:"omitempty,max=64"`
	Name  string               `json:"name" validate:"required,max=64"`
	Stats *battle.BattlerStats `json:"stats,omitempty"`
	Power int                  `json:"power,omitempty" validate:"gte=0"`
}

// FightRequest 发起一场战斗
type FightRequest struct {
	UserID            string          `json:"user_id" validate:"required,max=64"`
	Opponent          OpponentRequest `json:"opponent"`
	DeterministicGold bool            `json:"deterministic_gold"`
}

// FightResult 战斗结果与进度变化
type FightResult struct {
	BattleID  string                    `json:"battle_id"`
	Result    battle.BattleResult       `json:"result"`
	Reward    progression.SessionReward `json:"reward"`
	TotalGold int                       `json:"total_gold"`
}

// BattleService 战斗结算
type BattleService struct {
	users     interfaces.UserProgressRepository
	engine    *battle.Engine
	curve     *progression.Curve
	metrics   *metrics.GameMetrics
	logger    log.Logger
	announcer *progressAnnouncer
	clock     func() time.Time
}

// NewBattleService 构造函数
func NewBattleService(users interfaces.UserProgressRepository, deps Deps) *BattleService {
	deps = deps.withDefaults()
	return &BattleService{
		users:     users,
		engine:    battle.NewEngine(deps.Random),
		curve:     deps.Curve,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("service", "battle"),
		announcer: deps.announcer(),
		clock:     deps.Clock,
	}
}

// Fight 以用户当前属性对战给定对手
//
// 胜负在进入存储事务前结算一次, 并发冲突重试只会重放奖励的累加。
func (s *BattleService) Fight(ctx context.Context, req *FightRequest) (*FightResult, error) {
	if req == nil || req.UserID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	opponent, err := opponentStats(req.Opponent)
	if err != nil {
		return nil, err
	}
	if req.DeterministicGold && req.Opponent.ID == "" {
		return nil, xerrors.NewValidationError("opponent.id", "deterministic_gold 需要对手 ID")
	}

	current, err := s.loadOrNew(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	userStats := current.BattleStats()

	var result battle.BattleResult
	if req.DeterministicGold {
		result = s.engine.FightDeterministicGold(userStats, opponent, req.Opponent.ID, req.Opponent.Name)
	} else {
		result = s.engine.Fight(userStats, opponent, req.Opponent.Name)
	}

	now := s.clock()
	var reward progression.SessionReward
	progress, err := s.users.Update(ctx, req.UserID, func(p *user.UserProgress) error {
		reward = p.ApplyXP(s.curve, result.XPEarned)
		p.AddGold(result.GoldEarned)
		p.RecordBattle(result.Won, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	battleID := uuid.NewString()
	s.metrics.RecordBattle(result.Won, string(result.Difficulty))
	s.metrics.RecordReward(SourceBattle, int64(result.XPEarned), int64(result.GoldEarned))
	s.announcer.announce(ctx, req.UserID, SourceBattle, reward)
	s.logger.DebugContext(ctx, "战斗已结算",
		log.String("battle_id", battleID),
		log.Bool("won", result.Won),
		log.String("difficulty", string(result.Difficulty)))

	return &FightResult{
		BattleID:  battleID,
		Result:    result,
		Reward:    reward,
		TotalGold: progress.Gold,
	}, nil
}

func (s *BattleService) loadOrNew(ctx context.Context, userID string) (*user.UserProgress, error) {
	p, err := s.users.Get(ctx, userID)
	if xerrors.HasCode(err, xerrors.CodeUserProgressNotFound) {
		return user.NewUserProgress(userID, s.clock()), nil
	}
	return p, err
}

func opponentStats(req OpponentRequest) (battle.BattlerStats, error) {
	if req.Stats == nil {
		if req.Power <= 0 {
			return battle.BattlerStats{}, xerrors.NewInvalidStatsError("opponent", "stats or power required")
		}
		return battle.StatsFromPower(req.Power), nil
	}
	st := *req.Stats
	if st.Health < 0 || st.Attack < 0 || st.Defense < 0 || st.Speed < 0 || st.Level < 0 {
		return battle.BattlerStats{}, xerrors.NewInvalidStatsError("opponent", "negative stat")
	}
	return st, nil
}
