package validator

import (
	"testing"

	"focus-quest/internal/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Minutes int    `json:"minutes" validate:"gte=0,lte=1440"`
	Rank    string `json:"rank,omitempty" validate:"omitempty,rank_code"`
	Tier    string `json:"difficulty,omitempty" validate:"omitempty,difficulty_tier"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
	}{
		{"合法请求", sampleRequest{UserID: "u-1", Minutes: 25, Rank: "SS", Tier: "hard"}, ""},
		{"缺少用户", sampleRequest{Minutes: 25}, "user_id"},
		{"时长为负", sampleRequest{UserID: "u-1", Minutes: -1}, "minutes"},
		{"未知段位", sampleRequest{UserID: "u-1", Rank: "Z"}, "rank"},
		{"未知难度", sampleRequest{UserID: "u-1", Tier: "brutal"}, "difficulty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := xerrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, xerrors.CodeInvalidParams, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Context.Metadata["field"])
		})
	}
}

func TestTranslateValidationErrors_Message(t *testing.T) {
	err := New().validator.Struct(sampleRequest{Minutes: 5})
	details := TranslateValidationErrors(err)

	require.Len(t, details, 1)
	assert.Equal(t, "用户ID不能为空", details[0].Message)
	assert.Equal(t, "required", details[0].Tag)
}
