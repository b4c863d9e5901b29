package impl

import (
	"context"
	"time"

	"focus-quest/internal/domain/raid"
	"focus-quest/internal/pkg/cache"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/repository/interfaces"
)

const (
	portalBossCacheName = "portal_bosses"
	allBossesCacheKey   = ""
)

// DefaultPortalBossCacheTTL Boss 配置缓存时长
const DefaultPortalBossCacheTTL = 5 * time.Minute

// CachedPortalBossRepository Boss 仓储的进程内缓存
type CachedPortalBossRepository struct {
	next  interfaces.PortalBossRepository
	cache *cache.Cache[string, []raid.PortalBoss]
}

// NewCachedPortalBossRepository 在 Boss 仓储前加一层进程内缓存, 整表缓存一次, Get 从整表中查找
func NewCachedPortalBossRepository(next interfaces.PortalBossRepository, ttl time.Duration, m *metrics.ResourceMetrics, logger log.Logger) *CachedPortalBossRepository {
	if ttl <= 0 {
		ttl = DefaultPortalBossCacheTTL
	}
	return &CachedPortalBossRepository{
		next:  next,
		cache: cache.New[string, []raid.PortalBoss](portalBossCacheName, ttl, m, logger),
	}
}

func (r *CachedPortalBossRepository) List(ctx context.Context) ([]raid.PortalBoss, error) {
	if bosses, ok := r.cache.Get(ctx, allBossesCacheKey); ok {
		return cloneBosses(bosses), nil
	}
	bosses, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, allBossesCacheKey, cloneBosses(bosses))
	return bosses, nil
}

func (r *CachedPortalBossRepository) Get(ctx context.Context, bossID string) (raid.PortalBoss, error) {
	bosses, cached := r.cache.Get(ctx, allBossesCacheKey)
	if cached {
		for _, b := range bosses {
			if b.ID == bossID {
				return b, nil
			}
		}
	}
	b, err := r.next.Get(ctx, bossID)
	if err == nil && cached {
		// 回源找到了缓存里没有的 Boss, 整表已过时
		r.Invalidate(ctx, "stale")
	}
	return b, err
}

// Invalidate 丢弃缓存的 Boss 列表, 下次 List 回源
func (r *CachedPortalBossRepository) Invalidate(ctx context.Context, reason string) {
	r.cache.Delete(ctx, allBossesCacheKey, reason)
}

func cloneBosses(in []raid.PortalBoss) []raid.PortalBoss {
	out := make([]raid.PortalBoss, len(in))
	copy(out, in)
	return out
}
