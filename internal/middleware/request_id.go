package middleware

import (
	"strings"

	"focus-quest/internal/pkg/ctxkey"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID 请求 ID 头
const HeaderRequestID = "X-Request-Id"

// maxRequestIDLen 客户端传入的请求 ID 超长时重新生成
const maxRequestIDLen = 64

// RequestID 提取或生成请求 ID, 写入 context 与响应头
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := strings.TrimSpace(c.Request().Header.Get(HeaderRequestID))
			if requestID == "" || len(requestID) > maxRequestIDLen {
				requestID = uuid.NewString()
			}

			ctx := ctxkey.WithValue(c.Request().Context(), ctxkey.RequestID, requestID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(HeaderRequestID, requestID)

			return next(c)
		}
	}
}

// UserContext 把路由中的 :user_id 写入 context, 供日志与错误上下文使用
func UserContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID := c.Param("user_id"); userID != "" {
				c.SetRequest(c.Request().WithContext(ctxkey.WithUserID(c.Request().Context(), userID)))
			}
			return next(c)
		}
	}
}
