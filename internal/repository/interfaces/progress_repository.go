package interfaces

import (
	"context"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/raid"
	"focus-quest/internal/domain/user"
)

// UserProgressRepository 用户进度仓储接口
type UserProgressRepository interface {
	// Get 获取用户进度, 不存在时返回 CodeUserProgressNotFound
	Get(ctx context.Context, userID string) (*user.UserProgress, error)

	// Update 乐观事务内读-改-写, 用户不存在时以新建的进度调用 fn
	Update(ctx context.Context, userID string, fn func(p *user.UserProgress) error) (*user.UserProgress, error)
}

// RaidProgressRepository 传送门讨伐进度仓储接口, 以 (用户, Boss) 为键
type RaidProgressRepository interface {
	// ListByUser 用户全部讨伐进度, 以 BossID 为键
	ListByUser(ctx context.Context, userID string) (map[string]*raid.PortalRaidProgress, error)

	// Update 首次交战时按 maxHP 创建进度。讨伐进度与用户进度在同一个乐观事务内读取,
	// fn 返回 ownerChanged 时两者一起提交, 否则只写讨伐进度。
	Update(ctx context.Context, userID, bossID string, maxHP int, fn RaidUpdateFunc) (*raid.PortalRaidProgress, *user.UserProgress, error)
}

// RaidUpdateFunc 修改讨伐进度, 需要时同时修改所属用户的进度
type RaidUpdateFunc func(progress *raid.PortalRaidProgress, owner *user.UserProgress) (ownerChanged bool, err error)

// PortalBossRepository Boss 配置仓储接口
type PortalBossRepository interface {
	// List 按 SortOrder 升序
	List(ctx context.Context) ([]raid.PortalBoss, error)

	// Get 不存在时返回 CodeBossNotFound
	Get(ctx context.Context, bossID string) (raid.PortalBoss, error)
}

// SettingsRepository 经验参数仓储接口
type SettingsRepository interface {
	List(ctx context.Context) ([]progression.Setting, error)
	Set(ctx context.Context, key, value string) error
}
