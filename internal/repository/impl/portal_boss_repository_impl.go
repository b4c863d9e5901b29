package impl

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"focus-quest/internal/domain/raid"
	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/xerrors"
)

// PortalBossRepository Boss 配置仓储, 额外提供初始数据写入
type PortalBossRepository struct {
	client *redis.Client
}

// NewPortalBossRepository 创建 Boss 配置仓储实例
func NewPortalBossRepository(client *redis.Client) *PortalBossRepository {
	return &PortalBossRepository{client: client}
}

func (r *PortalBossRepository) List(ctx context.Context) ([]raid.PortalBoss, error) {
	values, err := r.client.HashGetAll(ctx, bossesKey)
	if err != nil {
		return nil, storageError("list_bosses", bossesKey, err)
	}

	bosses := make([]raid.PortalBoss, 0, len(values))
	for _, raw := range values {
		var b raid.PortalBoss
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, xerrors.NewStorageError("decode_boss", bossesKey, err)
		}
		bosses = append(bosses, b)
	}
	sort.Slice(bosses, func(i, j int) bool {
		if bosses[i].SortOrder != bosses[j].SortOrder {
			return bosses[i].SortOrder < bosses[j].SortOrder
		}
		return bosses[i].ID < bosses[j].ID
	})
	return bosses, nil
}

func (r *PortalBossRepository) Get(ctx context.Context, bossID string) (raid.PortalBoss, error) {
	data, err := r.client.HGet(ctx, bossesKey, bossID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return raid.PortalBoss{}, xerrors.NewBossNotFoundError(bossID)
	}
	if err != nil {
		return raid.PortalBoss{}, storageError("get_boss", bossesKey, err)
	}
	var b raid.PortalBoss
	if err := json.Unmarshal(data, &b); err != nil {
		return raid.PortalBoss{}, xerrors.NewStorageError("decode_boss", bossesKey, err)
	}
	return b, nil
}

// Seed 写入 Boss 配置, 已存在的 ID 保持不变, 返回新写入的数量
func (r *PortalBossRepository) Seed(ctx context.Context, bosses []raid.PortalBoss) (int, error) {
	cmds := make([]*goredis.BoolCmd, 0, len(bosses))
	_, err := r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, b := range bosses {
			data, err := json.Marshal(b)
			if err != nil {
				return xerrors.Wrap(err, xerrors.CodeInternalError, "序列化 Boss 失败")
			}
			cmds = append(cmds, pipe.HSetNX(ctx, bossesKey, b.ID, data))
		}
		return nil
	})
	if err != nil {
		return 0, storageError("seed_bosses", bossesKey, err)
	}

	inserted := 0
	for _, cmd := range cmds {
		if cmd.Val() {
			inserted++
		}
	}
	return inserted, nil
}
