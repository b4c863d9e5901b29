package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"focus-quest/internal/pkg/ctxkey"
	"focus-quest/internal/pkg/xerrors"
)

// Logger 接口定义（在消费端定义）
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// StructuredLogger slog的包装器
type StructuredLogger struct {
	logger *slog.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// Init 初始化全局日志器, 生产环境输出 JSON, 其余输出带源码位置的文本
func Init(level slog.Level, environment string) {
	InitWithWriter(os.Stdout, level, environment)
}

// InitWithWriter 同 Init, 可指定输出目标
func InitWithWriter(w io.Writer, level slog.Level, environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}

	logger := slog.New(NewContextHandler(handler))

	globalMu.Lock()
	globalLogger = &StructuredLogger{logger: logger}
	globalMu.Unlock()

	slog.SetDefault(logger)
}

// GetLogger 获取全局logger, 未初始化时使用 info 级别的开发配置
func GetLogger() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	Init(slog.LevelInfo, "development")
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewLogger 创建新的logger实例
func NewLogger(handler slog.Handler) Logger {
	return &StructuredLogger{logger: slog.New(handler)}
}

// ParseLevel 解析配置中的日志级别, 无法识别时返回 info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *StructuredLogger) Error(msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.logger.Error(msg, args...)
}

func (l *StructuredLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *StructuredLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *StructuredLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *StructuredLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

func (l *StructuredLogger) WithGroup(name string) Logger {
	return &StructuredLogger{logger: l.logger.WithGroup(name)}
}

// ContextHandler 从 context 中提取 request_id / user_id 附加到每条记录
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler 创建上下文handler
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if requestID := ctxkey.GetString(ctx, ctxkey.RequestID); requestID != "" {
			r.AddAttrs(slog.String("request_id", requestID))
		}
		if userID := ctxkey.GetString(ctx, ctxkey.UserID); userID != "" {
			r.AddAttrs(slog.String("user_id", userID))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// LogAppError 按 AppError 的级别记录
func LogAppError(ctx context.Context, logger Logger, msg string, appErr *xerrors.AppError) {
	if logger == nil {
		logger = GetLogger()
	}
	switch appErr.Level {
	case xerrors.LevelCritical, xerrors.LevelError:
		logger.ErrorContext(ctx, msg, slog.Any("app_error", appErr))
	case xerrors.LevelWarn:
		logger.WarnContext(ctx, msg, slog.Any("app_error", appErr))
	default:
		logger.InfoContext(ctx, msg, slog.Any("app_error", appErr))
	}
}

// LogHTTPRequest 记录HTTP请求日志, 级别随状态码变化
func LogHTTPRequest(ctx context.Context, logger Logger, method, path string, statusCode int, durationMs int64, clientIP string) {
	if logger == nil {
		logger = GetLogger()
	}
	args := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", statusCode),
		slog.Int64("duration_ms", durationMs),
		slog.String("client_ip", clientIP),
	}

	switch {
	case statusCode >= 500:
		logger.ErrorContext(ctx, "HTTP request completed with server error", args...)
	case statusCode >= 400:
		logger.WarnContext(ctx, "HTTP request completed with client error", args...)
	default:
		logger.InfoContext(ctx, "HTTP request completed", args...)
	}
}

// LogBusinessEvent 记录业务事件 (升级、段位提升、突袭完成)
func LogBusinessEvent(ctx context.Context, logger Logger, event, entityType, entityID string, metadata map[string]any) {
	if logger == nil {
		logger = GetLogger()
	}
	args := []any{
		slog.String("event", event),
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
	}
	if metadata != nil {
		args = append(args, slog.Any("metadata", metadata))
	}
	logger.InfoContext(ctx, "business event occurred", args...)
}

// String 字符串属性
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int 整数属性
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Bool 布尔属性
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Any 任意类型属性
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Err 错误属性, 与 Error 方法使用同一个 key
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
