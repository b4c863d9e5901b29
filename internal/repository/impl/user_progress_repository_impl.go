package impl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"focus-quest/internal/domain/user"
	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/xerrors"
	"focus-quest/internal/repository/interfaces"
)

type userProgressRepositoryImpl struct {
	client *redis.Client
	clock  func() time.Time
}

// NewUserProgressRepository 创建用户进度仓储实例, 进度以 JSON 存于单个键
func NewUserProgressRepository(client *redis.Client) interfaces.UserProgressRepository {
	return &userProgressRepositoryImpl{client: client, clock: time.Now}
}

func (r *userProgressRepositoryImpl) Get(ctx context.Context, userID string) (*user.UserProgress, error) {
	if userID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	key := userProgressKey(userID)
	data, err := r.client.GetBytes(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, xerrors.NewUserProgressNotFoundError(userID)
	}
	if err != nil {
		return nil, storageError("get_user_progress", key, err)
	}
	return decodeUserProgress(key, data)
}

func (r *userProgressRepositoryImpl) Update(ctx context.Context, userID string, fn func(p *user.UserProgress) error) (*user.UserProgress, error) {
	if userID == "" {
		return nil, xerrors.NewValidationError("user_id", "不能为空")
	}
	key := userProgressKey(userID)

	var result *user.UserProgress
	err := r.client.WatchTx(ctx, func(tx *goredis.Tx) error {
		progress, err := loadUserProgress(ctx, tx, userID, r.clock())
		if err != nil {
			return err
		}

		if err := fn(progress); err != nil {
			return err
		}

		encoded, err := json.Marshal(progress)
		if err != nil {
			return xerrors.Wrap(err, xerrors.CodeInternalError, "序列化用户进度失败")
		}
		if _, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		}); err != nil {
			return err
		}
		result = progress
		return nil
	}, key)
	if err != nil {
		return nil, storageError("update_user_progress", key, err)
	}
	return result, nil
}

// loadUserProgress 在事务内读取用户进度, 不存在时返回新用户
func loadUserProgress(ctx context.Context, tx *goredis.Tx, userID string, now time.Time) (*user.UserProgress, error) {
	key := userProgressKey(userID)
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return user.NewUserProgress(userID, now), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeUserProgress(key, data)
}

func decodeUserProgress(key string, data []byte) (*user.UserProgress, error) {
	var p user.UserProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, xerrors.NewStorageError("decode_user_progress", key, err)
	}
	return &p, nil
}
