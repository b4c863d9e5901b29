package middleware

import (
	"fmt"

	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/response"
	"focus-quest/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// Recovery 捕获 panic 并返回统一的内部错误响应
func Recovery(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.GetLogger()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := c.Request().Context()

					logger.ErrorContext(ctx, "应用程序 panic",
						log.Any("panic_value", r),
						log.String("path", c.Request().URL.Path),
						log.String("method", c.Request().Method),
					)

					appErr := xerrors.FromCode(xerrors.CodeInternalError).
						WithService("echo-middleware", "recovery").
						WithMetadata("panic_value", fmt.Sprintf("%v", r))

					err = respWriter.WriteError(ctx, c.Response(), appErr)
				}
			}()

			return next(c)
		}
	}
}
