package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focus-quest/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Nil 键不存在
const Nil = redis.Nil

// DefaultWatchRetries 乐观事务冲突时的最大重试次数
const DefaultWatchRetries = 5

// ErrTxConflict 重试耗尽后仍然冲突
var ErrTxConflict = errors.New("redis: transaction conflict")

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Client Redis 客户端封装, 所有辅助方法都会记录资源指标
type Client struct {
	*redis.Client
	metrics *metrics.ResourceMetrics
}

// NewClient 创建 Redis 客户端并测试连接
func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return Wrap(rdb, nil), nil
}

// Wrap 包装已有的 go-redis 客户端, m 为 nil 时使用默认指标
func Wrap(rdb *redis.Client, m *metrics.ResourceMetrics) *Client {
	if m == nil {
		m = metrics.DefaultResourceMetrics
	}
	return &Client{Client: rdb, metrics: m}
}

func (c *Client) observe(operation string, start time.Time, err error) {
	c.metrics.RecordRedisOperation(operation, err == nil || errors.Is(err, redis.Nil), time.Since(start))
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		c.metrics.RecordRedisError("nil")
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrTxConflict):
		c.metrics.RecordRedisError("conflict")
	case errors.Is(err, context.DeadlineExceeded):
		c.metrics.RecordRedisError("timeout")
	default:
		c.metrics.RecordRedisError("operation_error")
	}
}

// GetBytes 读取键值, 不存在时返回 Nil
func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := c.Get(ctx, key).Bytes()
	c.observe("GET", start, err)
	return data, err
}

// HashGetAll 读取整个哈希
func (c *Client) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	start := time.Now()
	values, err := c.HGetAll(ctx, key).Result()
	c.observe("HGETALL", start, err)
	return values, err
}

// HashSet 写入哈希字段
func (c *Client) HashSet(ctx context.Context, key string, values map[string]any) error {
	start := time.Now()
	err := c.HSet(ctx, key, values).Err()
	c.observe("HSET", start, err)
	return err
}

// WatchTx 在 WATCH keys 下执行 fn, 冲突时重试, 重试耗尽返回 ErrTxConflict
func (c *Client) WatchTx(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	start := time.Now()
	var err error
	for attempt := 0; attempt < DefaultWatchRetries; attempt++ {
		err = c.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			c.observe("WATCH", start, err)
			return err
		}
	}
	c.observe("WATCH", start, ErrTxConflict)
	return ErrTxConflict
}

// RecordPoolStats 上报连接池状态
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	c.metrics.RecordRedisPoolStats(int(stats.TotalConns), int(stats.IdleConns), int(stats.StaleConns))
}

// Healthy 健康检查
func (c *Client) Healthy(ctx context.Context) error {
	start := time.Now()
	err := c.Ping(ctx).Err()
	c.observe("PING", start, err)
	return err
}
