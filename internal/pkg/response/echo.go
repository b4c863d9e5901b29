package response

import (
	"focus-quest/internal/pkg/xerrors"

	"github.com/labstack/echo/v4"
)

// EchoOK 成功响应
func EchoOK(c echo.Context, h Writer, data any) error {
	return h.WriteSuccess(c.Request().Context(), c.Response(), data)
}

// EchoError 错误响应
func EchoError(c echo.Context, h Writer, err error) error {
	return h.WriteError(c.Request().Context(), c.Response(), err)
}

// EchoBadRequest 400 错误响应
func EchoBadRequest(c echo.Context, h Writer, message string) error {
	err := xerrors.NewValidationError("request", message)
	err.Message = message
	return h.WriteError(c.Request().Context(), c.Response(), err)
}

// EchoNotFound 404 错误响应
func EchoNotFound(c echo.Context, h Writer, resource, identifier string) error {
	return h.WriteError(c.Request().Context(), c.Response(), xerrors.NewNotFoundError(resource, identifier))
}

// EchoJSON 直接返回 JSON, 跳过 ResponseResult 包装
func EchoJSON(c echo.Context, h Writer, data any, statusCode int) error {
	return h.WriteJSON(c.Request().Context(), c.Response(), data, statusCode)
}
