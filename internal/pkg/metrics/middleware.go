package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware Echo 中间件, 按路由模板记录请求指标
func Middleware(m *HTTPMetrics) echo.MiddlewareFunc {
	if m == nil {
		m = DefaultHTTPMetrics
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IsHealthCheckEndpoint(c.Request().URL.Path) {
				return next(c)
			}

			service := GetServiceName()
			m.RequestsInProgress.WithLabelValues(service).Inc()
			defer m.RequestsInProgress.WithLabelValues(service).Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// 错误尚未写回, 按 echo 的 HTTPError 推断状态码
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = 500
				}
			}
			m.RecordRequest(c.Path(), c.Request().Method, status, time.Since(start))
			return err
		}
	}
}

// EchoHandler 暴露 /metrics 端点
func EchoHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
