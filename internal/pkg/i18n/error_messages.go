package i18n

import (
	"fmt"

	"focus-quest/internal/pkg/xerrors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrorMessages 错误码的多语言消息
var ErrorMessages = map[xerrors.ErrorCode]map[language.Tag]string{
	xerrors.CodeSuccess:           {language.Chinese: "操作成功", language.English: "Operation successful"},
	xerrors.CodeInternalError:     {language.Chinese: "内部服务错误", language.English: "Internal server error"},
	xerrors.CodeInvalidParams:     {language.Chinese: "参数错误", language.English: "Invalid parameters"},
	xerrors.CodeInvalidRequest:    {language.Chinese: "请求格式错误", language.English: "Invalid request format"},
	xerrors.CodeResourceNotFound:  {language.Chinese: "资源不存在", language.English: "Resource not found"},
	xerrors.CodeDuplicateResource: {language.Chinese: "资源已存在", language.English: "Resource already exists"},

	xerrors.CodeBusinessLogicError:  {language.Chinese: "业务逻辑错误", language.English: "Business logic error"},
	xerrors.CodeOperationNotAllowed: {language.Chinese: "操作不被允许", language.English: "Operation not allowed"},
	xerrors.CodeConcurrentUpdate:    {language.Chinese: "数据已被修改，请重试", language.English: "Data was modified concurrently, please retry"},

	xerrors.CodeExternalServiceError: {language.Chinese: "外部服务错误", language.English: "External service error"},
	xerrors.CodeCacheError:           {language.Chinese: "存储服务错误", language.English: "Storage service error"},
	xerrors.CodeMessageQueueError:    {language.Chinese: "消息队列错误", language.English: "Message queue error"},

	xerrors.CodeUserProgressNotFound: {language.Chinese: "用户进度不存在", language.English: "User progress not found"},
	xerrors.CodeInvalidSession:       {language.Chinese: "专注记录无效", language.English: "Invalid focus session"},
	xerrors.CodeInvalidStats:         {language.Chinese: "战斗属性无效", language.English: "Invalid battle stats"},
	xerrors.CodeBossNotFound:         {language.Chinese: "Boss 不存在", language.English: "Boss not found"},
	xerrors.CodeRaidAlreadyComplete:  {language.Chinese: "该传送门已被攻克", language.English: "This portal has already been cleared"},
	xerrors.CodePortalNotAvailable:   {language.Chinese: "该传送门尚未开放", language.English: "This portal is not available yet"},
}

func messageKey(code xerrors.ErrorCode) string {
	return fmt.Sprintf("error.%d", int(code))
}

func init() {
	for code, messages := range ErrorMessages {
		for lang, msg := range messages {
			_ = message.SetString(lang, messageKey(code), msg)
		}
	}
}

// GetErrorMessage 获取错误码对应语言的消息, 缺失时回退中文
func GetErrorMessage(code xerrors.ErrorCode, lang language.Tag) string {
	lang = supported(lang)
	key := messageKey(code)

	if msg := message.NewPrinter(lang).Sprintf(key); msg != key {
		return msg
	}
	if msg, ok := ErrorMessages[code][DefaultLanguage]; ok {
		return msg
	}
	if lang == language.English {
		return "Unknown error"
	}
	return "未知错误"
}
