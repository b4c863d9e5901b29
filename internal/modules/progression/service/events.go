package service

import (
	"context"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/notify"
	"focus-quest/internal/pkg/xerrors"
)

// 奖励来源, 作为指标标签与事件字段
const (
	SourceSession = "session"
	SourceBattle  = "battle"
	SourceRaid    = "raid"
)

// progressAnnouncer 统一处理升级/升段的副作用: 指标、业务日志与事件
//
// 事件发布失败只记录日志, 不影响已经落库的结算结果。
type progressAnnouncer struct {
	publisher notify.Publisher
	metrics   *metrics.GameMetrics
	logger    log.Logger
}

func (a *progressAnnouncer) announce(ctx context.Context, userID, source string, reward progression.SessionReward) {
	if reward.LeveledUp {
		a.metrics.RecordLevelUp()
		log.LogBusinessEvent(ctx, a.logger, "level_up", "user", userID, map[string]any{
			"old_level": reward.OldLevel,
			"new_level": reward.NewLevel,
			"source":    source,
		})
		a.publish(ctx, notify.NewEvent(notify.EventLevelUp, userID, notify.LevelUpPayload{
			OldLevel: reward.OldLevel,
			NewLevel: reward.NewLevel,
			Source:   source,
		}))
	}
	if reward.RankedUp {
		a.metrics.RecordRankUp(string(reward.NewRank.Code))
		log.LogBusinessEvent(ctx, a.logger, "rank_up", "user", userID, map[string]any{
			"old_rank": string(reward.OldRank.Code),
			"new_rank": string(reward.NewRank.Code),
		})
		a.publish(ctx, notify.NewEvent(notify.EventRankUp, userID, notify.RankUpPayload{
			OldRank: string(reward.OldRank.Code),
			NewRank: string(reward.NewRank.Code),
			Title:   reward.NewRank.Title,
		}))
	}
}

func (a *progressAnnouncer) publish(ctx context.Context, event notify.Event) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		appErr := xerrors.NewMessageQueueError(notify.Subject(event.Type), err).
			WithUser(event.UserID).
			WithMetadata("event_id", event.ID)
		log.LogAppError(ctx, a.logger, "发布进度事件失败", appErr)
	}
}
