package xerrors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo ErrorLevel = iota
	LevelWarn
	LevelError
	LevelCritical
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorContext 错误上下文信息
type ErrorContext struct {
	RequestID string         `json:"request_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Service   string         `json:"service,omitempty"`
	Operation string         `json:"operation,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AppError 领域错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	Level    ErrorLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`

	Context   *ErrorContext `json:"context,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`

	// 调试信息, 仅 NewWithError 填充
	Stack string `json:"stack,omitempty"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`

	Retryable bool `json:"retryable,omitempty"`
}

// Error 实现标准 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *AppError) Unwrap() error {
	return e.Err
}

// LogValue 实现 slog.LogValuer 接口
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("message", e.Message),
		slog.String("level", e.Level.String()),
		slog.String("category", e.Category),
		slog.Bool("retryable", e.Retryable),
	}

	if e.Context != nil {
		if e.Context.RequestID != "" {
			attrs = append(attrs, slog.String("request_id", e.Context.RequestID))
		}
		if e.Context.UserID != "" {
			attrs = append(attrs, slog.String("user_id", e.Context.UserID))
		}
		if e.Context.Operation != "" {
			attrs = append(attrs, slog.String("operation", e.Context.Operation))
		}
		if len(e.Context.Metadata) > 0 {
			attrs = append(attrs, slog.Any("metadata", e.Context.Metadata))
		}
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("underlying_error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

func (e *AppError) ensureContext() *ErrorContext {
	if e.Context == nil {
		e.Context = &ErrorContext{}
	}
	return e.Context
}

// WithUser 添加用户 ID
func (e *AppError) WithUser(userID string) *AppError {
	e.ensureContext().UserID = userID
	return e
}

// WithRequestID 添加请求 ID
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.ensureContext().RequestID = requestID
	return e
}

// WithService 添加服务和操作信息
func (e *AppError) WithService(service, operation string) *AppError {
	c := e.ensureContext()
	c.Service = service
	c.Operation = operation
	return e
}

// WithMetadata 添加自定义元数据
func (e *AppError) WithMetadata(key string, value any) *AppError {
	c := e.ensureContext()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return e
}

// New 创建新的AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Level:     getLevelByCode(code),
		Category:  getCategoryByCode(code),
		Timestamp: time.Now(),
		Retryable: isRetryableByCode(code),
	}
}

// NewWithError 创建包含原始错误的 AppError
func NewWithError(code ErrorCode, message string, err error) *AppError {
	appErr := New(code, message)
	appErr.Err = err

	if pc, file, line, ok := runtime.Caller(2); ok {
		appErr.File = file
		appErr.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			appErr.Stack = fn.Name()
		}
	}

	return appErr
}

// FromCode 根据错误码创建 AppError, 使用默认消息
func FromCode(code ErrorCode) *AppError {
	msg, ok := codeMessages[code]
	if !ok {
		msg = codeMessages[CodeInternalError]
	}
	return New(code, msg)
}

// Wrap 包装标准错误为 AppError, 已经是 AppError 时原样返回
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewWithError(code, message, err)
}

// AsAppError 提取错误链上的 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode 判断错误链上是否存在指定错误码
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func NewValidationError(field, message string) *AppError {
	return FromCode(CodeInvalidParams).
		WithMetadata("field", field).
		WithMetadata("validation_message", message)
}

func NewNotFoundError(resource, identifier string) *AppError {
	return FromCode(CodeResourceNotFound).
		WithMetadata("resource", resource).
		WithMetadata("identifier", identifier)
}

// 进度与突袭错误快捷构造器

func NewUserProgressNotFoundError(userID string) *AppError {
	return FromCode(CodeUserProgressNotFound).WithUser(userID)
}

func NewBossNotFoundError(bossID string) *AppError {
	return FromCode(CodeBossNotFound).
		WithMetadata("boss_id", bossID)
}

func NewRaidCompletedError(userID, bossID string) *AppError {
	return FromCode(CodeRaidAlreadyComplete).
		WithUser(userID).
		WithMetadata("boss_id", bossID)
}

func NewPortalNotAvailableError(userID, bossID string) *AppError {
	return FromCode(CodePortalNotAvailable).
		WithUser(userID).
		WithMetadata("boss_id", bossID)
}

func NewInvalidSessionError(reason string) *AppError {
	return FromCode(CodeInvalidSession).
		WithMetadata("reason", reason)
}

func NewInvalidStatsError(side, reason string) *AppError {
	return FromCode(CodeInvalidStats).
		WithMetadata("side", side).
		WithMetadata("reason", reason)
}

// NewStorageError 存储层错误, 保留原始错误
func NewStorageError(operation, key string, err error) *AppError {
	appErr := FromCode(CodeCacheError).
		WithMetadata("storage_operation", operation).
		WithMetadata("key", key)
	appErr.Err = err
	return appErr
}

func NewMessageQueueError(subject string, err error) *AppError {
	appErr := FromCode(CodeMessageQueueError).
		WithMetadata("subject", subject)
	appErr.Err = err
	return appErr
}
