// Package cache 进程内 TTL 缓存, 用于读多写少的配置数据。
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
)

// 命中结果, 作为指标 result 标签
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultExpired = "expired"
	ResultEvicted = "evicted"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache 线程安全的 TTL 缓存, 命中不刷新过期时间
type Cache[K comparable, V any] struct {
	name    string
	ttl     time.Duration
	metrics *metrics.ResourceMetrics
	logger  log.Logger
	clock   func() time.Time
	mu      sync.RWMutex
	store   map[K]*entry[V]
}

// New 返回 Cache 实例, ttl<=0 时默认 1 分钟
func New[K comparable, V any](name string, ttl time.Duration, m *metrics.ResourceMetrics, logger log.Logger) *Cache[K, V] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if m == nil {
		m = metrics.DefaultResourceMetrics
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	name = NormalizeName(name)
	return &Cache[K, V]{
		name:    name,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With("component", "cache", "cache", name),
		clock:   time.Now,
		store:   make(map[K]*entry[V]),
	}
}

// Get 返回缓存值, 过期条目会被移除
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		c.metrics.RecordCacheLookup(c.name, ResultMiss)
		return zero, false
	}

	if c.clock().After(e.expiresAt) {
		c.metrics.RecordCacheLookup(c.name, ResultExpired)
		c.logger.DebugContext(ctx, "cache entry expired")
		c.mu.Lock()
		if cur, ok := c.store[key]; ok && cur == e {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	c.metrics.RecordCacheLookup(c.name, ResultHit)
	return e.value, true
}

// Set 写入或覆盖
func (c *Cache[K, V]) Set(ctx context.Context, key K, value V) {
	c.mu.Lock()
	c.store[key] = &entry[V]{value: value, expiresAt: c.clock().Add(c.ttl)}
	c.mu.Unlock()
	c.logger.DebugContext(ctx, "cache entry updated")
}

// Delete 主动剔除
func (c *Cache[K, V]) Delete(ctx context.Context, key K, reason string) {
	c.mu.Lock()
	_, ok := c.store[key]
	delete(c.store, key)
	c.mu.Unlock()
	if ok {
		c.metrics.RecordCacheLookup(c.name, ResultEvicted)
		c.logger.InfoContext(ctx, "cache entry evicted", log.String("reason", reason))
	}
}

// NormalizeName 确保 cache 标签不为空
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	return name
}
