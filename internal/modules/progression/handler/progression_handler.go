// Package handler 进度服务 HTTP 接口
package handler

import (
	"github.com/labstack/echo/v4"

	"focus-quest/internal/modules/progression/service"
	"focus-quest/internal/pkg/response"
	"focus-quest/internal/pkg/xerrors"
)

// ProgressionHandler 处理专注结算、战斗、突袭与档案相关的 HTTP 请求
type ProgressionHandler struct {
	services   *service.ServiceContainer
	respWriter response.Writer
}

// NewProgressionHandler 创建处理器
func NewProgressionHandler(services *service.ServiceContainer, respWriter response.Writer) *ProgressionHandler {
	return &ProgressionHandler{services: services, respWriter: respWriter}
}

// bindAndValidate 绑定请求体并校验, 失败时返回可直接写出的 AppError
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return xerrors.Wrap(err, xerrors.CodeInvalidRequest, "请求格式错误")
	}
	return c.Validate(req)
}

// CompleteSession 专注结束结算
// @Summary 专注结算
// @Description 计算本次专注获得的经验并累加到用户总经验, 返回等级与段位变化
// @Tags 专注
// @Accept json
// @Produce json
// @Param request body service.CompleteSessionRequest true "专注结果"
// @Success 200 {object} response.ResponseResult[service.CompleteSessionResult]
// @Failure 400 {object} response.ResponseResult[any] "参数错误"
// @Router /api/v1/sessions/complete [post]
func (h *ProgressionHandler) CompleteSession(c echo.Context) error {
	var req service.CompleteSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	res, err := h.services.SessionService.CompleteSession(c.Request().Context(), &req)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, res)
}

// Fight 发起战斗
// @Summary 战斗
// @Description 用户以当前属性对战给定对手, 胜负先于叙事决定
// @Tags 战斗
// @Accept json
// @Produce json
// @Param request body service.FightRequest true "对手信息"
// @Success 200 {object} response.ResponseResult[service.FightResult]
// @Failure 400 {object} response.ResponseResult[any] "参数错误"
// @Router /api/v1/battles [post]
func (h *ProgressionHandler) Fight(c echo.Context) error {
	var req service.FightRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	res, err := h.services.BattleService.Fight(c.Request().Context(), &req)
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, res)
}

// GetProfile 用户档案
// @Summary 用户档案
// @Tags 档案
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.ResponseResult[service.ProfileView]
// @Failure 404 {object} response.ResponseResult[any] "用户不存在"
// @Router /api/v1/users/{user_id}/profile [get]
func (h *ProgressionHandler) GetProfile(c echo.Context) error {
	view, err := h.services.ProfileService.Profile(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, view)
}

// ListRanks 段位表
// @Summary 段位表
// @Tags 档案
// @Produce json
// @Success 200 {object} response.ResponseResult[[]progression.RankInfo]
// @Router /api/v1/ranks [get]
func (h *ProgressionHandler) ListRanks(c echo.Context) error {
	return response.EchoOK(c, h.respWriter, h.services.ProfileService.Ranks())
}

// ListPortals 当前可用的传送门
// @Summary 传送门列表
// @Tags 突袭
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.ResponseResult[[]service.PortalView]
// @Router /api/v1/users/{user_id}/portals [get]
func (h *ProgressionHandler) ListPortals(c echo.Context) error {
	views, err := h.services.RaidService.ListPortals(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, views)
}

// AttackBoss 对传送门 Boss 发起一次突袭
// @Summary 突袭
// @Tags 突袭
// @Produce json
// @Param user_id path string true "用户ID"
// @Param boss_id path string true "Boss ID"
// @Success 200 {object} response.ResponseResult[service.AttackResult]
// @Failure 403 {object} response.ResponseResult[any] "传送门未开放"
// @Failure 404 {object} response.ResponseResult[any] "Boss 不存在"
// @Failure 409 {object} response.ResponseResult[any] "突袭已完成"
// @Router /api/v1/users/{user_id}/raids/{boss_id}/attempts [post]
func (h *ProgressionHandler) AttackBoss(c echo.Context) error {
	res, err := h.services.RaidService.Attack(c.Request().Context(), c.Param("user_id"), c.Param("boss_id"))
	if err != nil {
		return response.EchoError(c, h.respWriter, err)
	}
	return response.EchoOK(c, h.respWriter, res)
}
