package impl

import (
	"context"
	"sort"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

type settingsRepositoryImpl struct {
	client *redis.Client
}

// NewSettingsRepository 创建经验参数仓储实例, 参数以字符串存于单个哈希
func NewSettingsRepository(client *redis.Client) interfaces.SettingsRepository {
	return &settingsRepositoryImpl{client: client}
}

func (r *settingsRepositoryImpl) List(ctx context.Context) ([]progression.Setting, error) {
	values, err := r.client.HashGetAll(ctx, settingsKey)
	if err != nil {
		return nil, storageError("list_settings", settingsKey, err)
	}

	settings := make([]progression.Setting, 0, len(values))
	for k, v := range values {
		settings = append(settings, progression.Setting{Key: k, Value: v})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (r *settingsRepositoryImpl) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return xerrors.NewValidationError("key", "不能为空")
	}
	return storageError("set_setting", settingsKey, r.client.HashSet(ctx, settingsKey, map[string]any{key: value}))
}
