package impl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"focus-quest/internal/domain/raid"
	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

type raidProgressRepositoryImpl struct {
	client *redis.Client
	clock  func() time.Time
}

// NewRaidProgressRepository 创建讨伐进度仓储实例
//
// 每个用户一个哈希, 字段为 BossID, 值为进度 JSON。
// Update 同时 WATCH 该哈希与用户进度键, 同一用户的并发攻击会串行化。
func NewRaidProgressRepository(client *redis.Client) interfaces.RaidProgressRepository {
	return &raidProgressRepositoryImpl{client: client, clock: time.Now}
}

func (r *raidProgressRepositoryImpl) ListByUser(ctx context.Context, userID string) (map[string]*raid.PortalRaidProgress, error) {
	key := raidProgressKey(userID)
	values, err := r.client.HashGetAll(ctx, key)
	if err != nil {
		return nil, storageError("list_raid_progress", key, err)
	}

	out := make(map[string]*raid.PortalRaidProgress, len(values))
	for bossID, raw := range values {
		p, err := decodeRaidProgress(key, []byte(raw))
		if err != nil {
			return nil, err
		}
		out[bossID] = p
	}
	return out, nil
}

func (r *raidProgressRepositoryImpl) Update(ctx context.Context, userID, bossID string, maxHP int, fn interfaces.RaidUpdateFunc) (*raid.PortalRaidProgress, *user.UserProgress, error) {
	if userID == "" || bossID == "" {
		return nil, nil, xerrors.NewValidationError("user_id/boss_id", "不能为空")
	}
	raidKey := raidProgressKey(userID)
	userKey := userProgressKey(userID)

	var (
		resultRaid *raid.PortalRaidProgress
		resultUser *user.UserProgress
	)
	err := r.client.WatchTx(ctx, func(tx *goredis.Tx) error {
		now := r.clock()
		var progress *raid.PortalRaidProgress
		data, err := tx.HGet(ctx, raidKey, bossID).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
			progress = raid.NewRaidProgress(userID, bossID, maxHP, now)
		case err != nil:
			return err
		default:
			if progress, err = decodeRaidProgress(raidKey, data); err != nil {
				return err
			}
		}
		owner, err := loadUserProgress(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		ownerChanged, err := fn(progress, owner)
		if err != nil {
			return err
		}

		encodedRaid, err := json.Marshal(progress)
		if err != nil {
			return xerrors.Wrap(err, xerrors.CodeInternalError, "序列化讨伐进度失败")
		}
		var encodedUser []byte
		if ownerChanged {
			if encodedUser, err = json.Marshal(owner); err != nil {
				return xerrors.Wrap(err, xerrors.CodeInternalError, "序列化用户进度失败")
			}
		}
		// 讨伐进度与奖励同一个 MULTI 提交, 不会出现进度已完成而奖励丢失
		if _, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, raidKey, bossID, encodedRaid)
			if encodedUser != nil {
				pipe.Set(ctx, userKey, encodedUser, 0)
			}
			return nil
		}); err != nil {
			return err
		}
		resultRaid, resultUser = progress, owner
		return nil
	}, raidKey, userKey)
	if err != nil {
		return nil, nil, storageError("update_raid_progress", raidKey, err)
	}
	return resultRaid, resultUser, nil
}

func decodeRaidProgress(key string, data []byte) (*raid.PortalRaidProgress, error) {
	var p raid.PortalRaidProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, xerrors.NewStorageError("decode_raid_progress", key, err)
	}
	return &p, nil
}
