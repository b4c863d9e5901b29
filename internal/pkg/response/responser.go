package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"focus-quest/internal/pkg/ctxkey"
	"focus-quest/internal/pkg/i18n"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/xerrors"
)

// ResponseResult 通用 API 响应结构
type ResponseResult[T any] struct {
	Code      int    `json:"code"`                 // 业务响应码
	Message   string `json:"message"`              // 本地化后的消息
	Data      *T     `json:"data,omitempty"`       // 成功时返回
	Error     string `json:"error,omitempty"`      // 客户端错误详情
	Timestamp int64  `json:"timestamp"`            // Unix时间戳
	RequestID string `json:"request_id,omitempty"` // 请求 ID
}

// Writer 统一的响应写入接口
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
}

// DefaultResponseHandler 默认实现: 错误按 AppError 映射状态码并本地化消息
type DefaultResponseHandler struct {
	logger log.Logger
}

// NewResponseHandler logger 为 nil 时使用全局 logger
func NewResponseHandler(logger log.Logger) *DefaultResponseHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &DefaultResponseHandler{logger: logger.With("component", "response")}
}

// WriteSuccess 200 + 业务成功码
func (h *DefaultResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	resp := &ResponseResult[any]{
		Code:      int(xerrors.CodeSuccess),
		Message:   i18n.GetErrorMessage(xerrors.CodeSuccess, i18n.GetLanguage(ctx)),
		Data:      &data,
		Timestamp: time.Now().Unix(),
		RequestID: ctxkey.GetString(ctx, ctxkey.RequestID),
	}
	return h.write(ctx, w, http.StatusOK, resp)
}

// WriteError 非 AppError 一律视为内部错误, 内部细节不返回给客户端
func (h *DefaultResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr, ok := xerrors.AsAppError(err)
	if !ok {
		appErr = xerrors.Wrap(err, xerrors.CodeInternalError, "未处理的错误")
		if appErr == nil {
			appErr = xerrors.FromCode(xerrors.CodeInternalError)
		}
	}

	status := xerrors.GetHTTPStatus(appErr.Code)
	log.LogAppError(ctx, h.logger, "request failed", appErr)

	resp := &ResponseResult[any]{
		Code:      int(appErr.Code),
		Message:   i18n.GetErrorMessage(appErr.Code, i18n.GetLanguage(ctx)),
		Timestamp: time.Now().Unix(),
		RequestID: ctxkey.GetString(ctx, ctxkey.RequestID),
	}
	if status < http.StatusInternalServerError {
		resp.Error = appErr.Message
	}
	return h.write(ctx, w, status, resp)
}

// WriteJSON 直接写 JSON, 不做包装
func (h *DefaultResponseHandler) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	return h.write(ctx, w, statusCode, data)
}

func (h *DefaultResponseHandler) write(ctx context.Context, w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// 头部已写出, 只能记录
		h.logger.Error("写入JSON响应失败", err)
		return nil
	}
	return nil
}
