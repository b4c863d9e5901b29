package service

import (
	"focus-quest/internal/domain/progression"
	"focus-quest/internal/repository/interfaces"
)

// Repositories 服务依赖的全部仓储
type Repositories struct {
	Users    interfaces.UserProgressRepository
	Raids    interfaces.RaidProgressRepository
	Bosses   interfaces.PortalBossRepository
	Settings interfaces.SettingsRepository
}

// ServiceContainer 进度服务容器, 统一创建并共享各服务实例
type ServiceContainer struct {
	// SessionRewards 经验配置在专注结算与参数刷新之间共享
	SessionRewards *progression.SessionRewardService

	SessionService  *SessionService
	BattleService   *BattleService
	RaidService     *RaidService
	ProfileService  *ProfileService
	SettingsService *SettingsService
}

// NewServiceContainer 创建服务容器
func NewServiceContainer(repos Repositories, deps Deps) *ServiceContainer {
	deps = deps.withDefaults()
	rewards := progression.NewSessionRewardService(progression.DefaultXPConfig())

	return &ServiceContainer{
		SessionRewards:  rewards,
		SessionService:  NewSessionService(repos.Users, rewards, deps),
		BattleService:   NewBattleService(repos.Users, deps),
		RaidService:     NewRaidService(repos.Users, repos.Raids, repos.Bosses, deps),
		ProfileService:  NewProfileService(repos.Users, deps),
		SettingsService: NewSettingsService(repos.Settings, rewards, deps),
	}
}
