package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError 验证错误详情
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
}

// TranslateValidationErrors 翻译所有验证错误
func TranslateValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ValidationError{{Field: "request", Message: err.Error(), Tag: "unknown"}}
	}

	result := make([]ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		result = append(result, ValidationError{
			Field:   fe.Field(),
			Message: translateFieldError(fe),
			Tag:     fe.Tag(),
			Value:   sanitizeValue(fe.Value()),
		})
	}
	return result
}

// sanitizeValue 截断过长的值
func sanitizeValue(value any) string {
	if value == nil {
		return ""
	}
	s := fmt.Sprintf("%v", value)
	if len(s) > 50 {
		return s[:50] + "..."
	}
	return s
}

func translateFieldError(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s不能为空", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s长度不能少于%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s长度不能超过%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s必须大于或等于%s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s必须小于或等于%s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s的值必须是以下之一: %s", field, fe.Param())
	case "rank_code":
		return fmt.Sprintf("%s必须是有效的段位代码 (E/D/C/B/A/S/SS/SSS)", field)
	case "difficulty_tier":
		return fmt.Sprintf("%s必须是 easy、fair 或 hard", field)
	default:
		return fmt.Sprintf("%s验证失败: %s", field, fe.Tag())
	}
}

// getFieldName json 字段名到中文名称
func getFieldName(field string) string {
	fieldNames := map[string]string{
		"user_id":          "用户ID",
		"boss_id":          "Boss ID",
		"minutes":          "专注时长",
		"streak_days":      "连续天数",
		"health":           "生命值",
		"attack":           "攻击力",
		"defense":          "防御力",
		"speed":            "速度",
		"level":            "等级",
		"opponent":         "对手属性",
		"battle_id":        "战斗ID",
		"rank":             "段位",
		"difficulty":       "难度",
		"focus_power":      "战力",
		"opponent_power":   "对手战力",
		"deterministic_id": "战斗种子",
	}
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
