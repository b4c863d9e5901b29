package handler

import (
	"github.com/labstack/echo/v4"

	"focus-quest/internal/pkg/response"
)

// UpdateSettingRequest 更新单个经验参数
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required,max=32"`
}

// GetSettings 当前经验参数
// @Summary 经验参数
// @Tags 参数
// @Produce json
// @Success 200 {object} response.ResponseResult[progression.XPConfig]
// @Router /api/v1/settings [get]
func (h *ProgressionHandler) GetSettings(c echo.Context) error {
	return response.EchoOK(c, h.respWriter, h.services.SettingsService.Current())
}

// UpdateSetting 写入参数并立即生效
// @Summary 更新经验参数
// @Tags 参数
// @Accept json
// @Produce json
// @Param key path string true "参数名"
// @Param request body UpdateSettingRequest true "参数值"
// @Success 200 {object} response.ResponseResult[progression.XPConfig]
// @Failure 400 {object} response.ResponseResult[any] "参数错误"
// @Router /api/v1/settings/{key} [put]
func (h *ProgressionHandler) UpdateSetting(c echo.Context) error {
	var req UpdateSettingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	cfg, err := h.services.SettingsService.Update(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, cfg)
}
