package xerrors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的默认消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// -----------------------------------------------------------------------------
// 错误码按领域分段:
//   1xxxxx 通用 / 6xxxxx 业务规则 / 7xxxxx 外部依赖 / 8xxxxx 游戏进度
// -----------------------------------------------------------------------------
const (
	CodeSuccess           ErrorCode = 100000 // 操作成功
	CodeInternalError     ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams     ErrorCode = 100002 // 参数错误
	CodeInvalidRequest    ErrorCode = 100003 // 请求格式错误
	CodeResourceNotFound  ErrorCode = 100404 // 资源不存在
	CodeDuplicateResource ErrorCode = 100409 // 资源已存在

	CodeBusinessLogicError  ErrorCode = 600001 // 业务逻辑错误
	CodeOperationNotAllowed ErrorCode = 600003 // 操作不被允许
	CodeConcurrentUpdate    ErrorCode = 600006 // 并发修改冲突

	CodeExternalServiceError ErrorCode = 700001 // 外部服务错误
	CodeCacheError           ErrorCode = 700004 // 存储服务错误
	CodeMessageQueueError    ErrorCode = 700005 // 消息队列错误

	// 进度 (80xxxx)
	CodeUserProgressNotFound ErrorCode = 800001 // 用户进度不存在
	CodeInvalidSession       ErrorCode = 800002 // 专注记录无效
	CodeInvalidStats         ErrorCode = 800003 // 战斗属性无效

	// 传送门突袭 (81xxxx)
	CodeBossNotFound        ErrorCode = 810001 // Boss 不存在
	CodeRaidAlreadyComplete ErrorCode = 810002 // 突袭已完成
	CodePortalNotAvailable  ErrorCode = 810003 // 传送门未开放
)

var codeMessages = map[ErrorCode]string{
	CodeSuccess:           "操作成功",
	CodeInternalError:     "内部服务错误",
	CodeInvalidParams:     "参数错误",
	CodeInvalidRequest:    "请求格式错误",
	CodeResourceNotFound:  "资源不存在",
	CodeDuplicateResource: "资源已存在",

	CodeBusinessLogicError:  "业务逻辑错误",
	CodeOperationNotAllowed: "操作不被允许",
	CodeConcurrentUpdate:    "数据已被修改，请重试",

	CodeExternalServiceError: "外部服务错误",
	CodeCacheError:           "存储服务错误",
	CodeMessageQueueError:    "消息队列错误",

	CodeUserProgressNotFound: "用户进度不存在",
	CodeInvalidSession:       "专注记录无效",
	CodeInvalidStats:         "战斗属性无效",
	CodeBossNotFound:         "Boss 不存在",
	CodeRaidAlreadyComplete:  "该传送门已被攻克",
	CodePortalNotAvailable:   "该传送门尚未开放",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParams, CodeInvalidRequest, CodeInvalidSession, CodeInvalidStats:
		return http.StatusBadRequest
	case CodeResourceNotFound, CodeUserProgressNotFound, CodeBossNotFound:
		return http.StatusNotFound
	case CodeDuplicateResource, CodeConcurrentUpdate, CodeRaidAlreadyComplete:
		return http.StatusConflict
	case CodePortalNotAvailable, CodeOperationNotAllowed:
		return http.StatusForbidden
	}

	switch {
	case code >= 600000 && code < 700000:
		return http.StatusBadRequest
	case code >= 700000 && code < 800000:
		return http.StatusServiceUnavailable
	case code >= 800000 && code < 900000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 600000 && code < 700000:
		return "business"
	case code >= 700000 && code < 800000:
		return "external"
	case code >= 800000 && code < 900000:
		return "game"
	default:
		return "unknown"
	}
}

func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code == CodeInternalError:
		return LevelError
	case code >= 700000 && code < 800000:
		return LevelCritical
	default:
		// 参数与业务规则错误由调用方引起
		return LevelWarn
	}
}

func isRetryableByCode(code ErrorCode) bool {
	switch code {
	case CodeInternalError, CodeConcurrentUpdate, CodeExternalServiceError, CodeCacheError, CodeMessageQueueError:
		return true
	}
	return false
}
