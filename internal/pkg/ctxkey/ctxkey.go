package ctxkey

import "context"

// ContextKey 统一的 context key 类型
type ContextKey string

const (
	// Language 语言偏好 (i18n 中间件设置)
	Language ContextKey = "language"

	// RequestID 请求 ID
	RequestID ContextKey = "request_id"

	// UserID 当前操作的用户 ID (从路由参数或请求体设置)
	UserID ContextKey = "user_id"

	// Route 路由模板, 用于指标标签
	Route ContextKey = "route"
)

// WithValue 在 context 中设置指定 key 的值
func WithValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// GetString 从 context 中获取字符串类型的值
func GetString(ctx context.Context, key ContextKey) string {
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}

// WithUserID 写入用户 ID, 空值时原样返回
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, UserID, userID)
}
