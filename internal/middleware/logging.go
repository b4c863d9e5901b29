package middleware

import (
	"time"

	"focus-quest/internal/pkg/log"

	"github.com/labstack/echo/v4"
)

// skipLogPaths 不记录访问日志的路径
var skipLogPaths = map[string]struct{}{
	"/health":      {},
	"/metrics":     {},
	"/favicon.ico": {},
}

// Logging 请求完成后记录一条访问日志, 级别随状态码变化
func Logging(logger log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With("component", "http")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, skip := skipLogPaths[c.Request().URL.Path]; skip {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			log.LogHTTPRequest(c.Request().Context(), logger,
				c.Request().Method, c.Request().URL.Path, status,
				time.Since(start).Milliseconds(), c.RealIP())
			return err
		}
	}
}
