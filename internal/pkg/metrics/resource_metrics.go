package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResourceMetrics 存储资源指标 (Redis)
type ResourceMetrics struct {
	RedisOperations        *prometheus.CounterVec   // 操作总数（按命令和结果）
	RedisOperationDuration *prometheus.HistogramVec // 操作延迟（按命令）
	RedisConnectionPool    *prometheus.GaugeVec     // 连接池状态
	RedisErrors            *prometheus.CounterVec   // 错误数（按类型）

	// 进程内缓存命中情况（按缓存名和结果 hit/miss/expired）
	CacheRequests *prometheus.CounterVec
}

// RedisOperationBuckets Redis 操作通常在毫秒级, 使用更细的分桶
var RedisOperationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// DefaultResourceMetrics 默认的资源指标实例
var DefaultResourceMetrics *ResourceMetrics

func init() {
	DefaultResourceMetrics = NewResourceMetrics(DefaultNamespace)
}

// NewResourceMetrics 创建新的资源指标收集器
func NewResourceMetrics(namespace string) *ResourceMetrics {
	return NewResourceMetricsWithRegistry(namespace, GetRegisterer())
}

// NewResourceMetricsWithRegistry 创建新的资源指标收集器（使用自定义注册表）
func NewResourceMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ResourceMetrics {
	factory := promauto.With(registerer)

	return &ResourceMetrics{
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operations_total",
				Help:      "Total number of Redis operations by command and result (success/error)",
			},
			[]string{"operation", "result", "service"},
		),
		RedisOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operation_duration_seconds",
				Help:      "Redis operation duration in seconds by command",
				Buckets:   RedisOperationBuckets,
			},
			[]string{"operation", "service"},
		),
		RedisConnectionPool: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "connection_pool",
				Help:      "Redis connection pool status (total/idle/stale/active)",
			},
			[]string{"state", "service"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "errors_total",
				Help:      "Total number of Redis errors by type",
			},
			[]string{"error_type", "service"},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "In-process cache lookups by cache name and result (hit/miss/expired)",
			},
			[]string{"cache", "result", "service"},
		),
	}
}

// RecordRedisOperation 记录一次 Redis 命令
func (m *ResourceMetrics) RecordRedisOperation(operation string, success bool, duration time.Duration) {
	service := GetServiceName()
	result := "success"
	if !success {
		result = "error"
	}
	m.RedisOperations.WithLabelValues(operation, result, service).Inc()
	m.RedisOperationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// RecordRedisError 记录 Redis 错误, errorType 如 timeout/conflict/other
func (m *ResourceMetrics) RecordRedisError(errorType string) {
	m.RedisErrors.WithLabelValues(errorType, GetServiceName()).Inc()
}

// RecordRedisPoolStats 记录连接池统计
func (m *ResourceMetrics) RecordRedisPoolStats(totalConns, idleConns, staleConns int) {
	service := GetServiceName()
	m.RedisConnectionPool.WithLabelValues("total", service).Set(float64(totalConns))
	m.RedisConnectionPool.WithLabelValues("idle", service).Set(float64(idleConns))
	m.RedisConnectionPool.WithLabelValues("stale", service).Set(float64(staleConns))
	m.RedisConnectionPool.WithLabelValues("active", service).Set(float64(totalConns - idleConns))
}

// RecordCacheLookup 记录一次进程内缓存查询
func (m *ResourceMetrics) RecordCacheLookup(cache, result string) {
	m.CacheRequests.WithLabelValues(cache, result, GetServiceName()).Inc()
}
