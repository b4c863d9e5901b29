package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics HTTP 性能指标收集器
type HTTPMetrics struct {
	// 请求总数（按路由模板、方法、状态码分组）
	RequestsTotal *prometheus.CounterVec

	// 请求延迟直方图（按路由模板分组）
	RequestDuration *prometheus.HistogramVec

	RequestsInProgress *prometheus.GaugeVec
}

// HTTPBuckets 针对 p95 < 200ms 的延迟分桶, 单位秒
var HTTPBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2}

// DefaultHTTPMetrics 默认的 HTTP 指标实例
var DefaultHTTPMetrics *HTTPMetrics

func init() {
	DefaultHTTPMetrics = NewHTTPMetrics(DefaultNamespace)
}

// NewHTTPMetrics 创建新的 HTTP 指标收集器
func NewHTTPMetrics(namespace string) *HTTPMetrics {
	return NewHTTPMetricsWithRegistry(namespace, GetRegisterer())
}

// NewHTTPMetricsWithRegistry 创建新的 HTTP 指标收集器（使用自定义注册表）
func NewHTTPMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(registerer)

	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by service, route template, method, and status code",
			},
			[]string{"service", "route", "method", "status_code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency histogram by service and route template",
				Buckets:   HTTPBuckets,
			},
			[]string{"service", "route"},
		),
		RequestsInProgress: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_progress",
				Help:      "Current number of HTTP requests being processed by service",
			},
			[]string{"service"},
		),
	}
}

// RecordRequest 记录一次请求
//
// route 必须是路由模板（如 "/api/v1/users/:user_id/profile"），不能是原始路径
func (m *HTTPMetrics) RecordRequest(route, method string, statusCode int, duration time.Duration) {
	service := GetServiceName()
	m.RequestsTotal.WithLabelValues(service, NormalizeRoute(route), method, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(service, NormalizeRoute(route)).Observe(duration.Seconds())
}

// IsHealthCheckEndpoint 健康检查与指标端点不计入请求指标
func IsHealthCheckEndpoint(path string) bool {
	switch path {
	case "/metrics", "/health", "/healthz", "/readyz":
		return true
	}
	return false
}

// NormalizeRoute 未匹配的路由统一成 unknown, 防止标签基数爆炸
func NormalizeRoute(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}
