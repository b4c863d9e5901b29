package validator

import (
	"reflect"
	"strings"

	"focus-quest/internal/pkg/xerrors"

	"github.com/go-playground/validator/v10"
)

// rankCodes 段位代码
var rankCodes = map[string]struct{}{
	"E": {}, "D": {}, "C": {}, "B": {}, "A": {}, "S": {}, "SS": {}, "SSS": {},
}

// CustomValidator 封装 go-playground validator, 实现 echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

// New 创建验证器, 注册业务规则
func New() *CustomValidator {
	v := validator.New()

	// 错误里使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("rank_code", validateRankCode)
	_ = v.RegisterValidation("difficulty_tier", validateDifficultyTier)

	return &CustomValidator{validator: v}
}

// Validate 实现 echo.Validator, 失败时返回 AppError
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		details := TranslateValidationErrors(err)
		field, message := "request", err.Error()
		if len(details) > 0 {
			field, message = details[0].Field, details[0].Message
		}
		appErr := xerrors.NewValidationError(field, message)
		appErr.Message = message
		appErr.WithMetadata("errors", details)
		return appErr
	}
	return nil
}

func validateRankCode(fl validator.FieldLevel) bool {
	_, ok := rankCodes[fl.Field().String()]
	return ok
}

func validateDifficultyTier(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "easy", "fair", "hard":
		return true
	}
	return false
}
