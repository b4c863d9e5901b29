package impl

import (
	"context"
	"errors"
	"fmt"

	"focus-quest/internal/pkg/redis"
	"focus-quest/internal/pkg/xerrors"
)

// 键空间
const (
	keyPrefix   = "focus_quest"
	bossesKey   = keyPrefix + ":bosses"
	settingsKey = keyPrefix + ":settings"
)

func userProgressKey(userID string) string {
	return fmt.Sprintf("%s:user:%s:progress", keyPrefix, userID)
}

func raidProgressKey(userID string) string {
	return fmt.Sprintf("%s:user:%s:raids", keyPrefix, userID)
}

// storageError 统一映射存储层错误: AppError 原样返回, 事务冲突映射为并发修改
func storageError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := xerrors.AsAppError(err); ok {
		return appErr
	}
	if errors.Is(err, redis.ErrTxConflict) {
		return xerrors.FromCode(xerrors.CodeConcurrentUpdate).
			WithMetadata("key", key)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return xerrors.Wrap(err, xerrors.CodeExternalServiceError, fmt.Sprintf("%s 超时或被取消", op))
	}
	return xerrors.NewStorageError(op, key, err)
}
