package impl

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
)

// newTestClient 连接本地 redis 的 15 号库, 不可用时跳过
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("[SKIP] repository tests require a reachable redis on localhost:6379: %v", err)
	}
	_ = rdb.FlushDB(ctx).Err()
	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})
	return redis.Wrap(rdb, metrics.NewResourceMetricsWithRegistry("test", prometheus.NewRegistry()))
}
