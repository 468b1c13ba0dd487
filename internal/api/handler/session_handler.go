package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// SessionHandler 签到签退与学员看板 HTTP 处理器
type SessionHandler struct {
	sessionSvc  service.SessionService
	progressSvc service.ProgressService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService, progressSvc service.ProgressService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, progressSvc: progressSvc}
}

// CheckIn 签到
// POST /api/v1/training/sessions/check-in
func (h *SessionHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	session, err := h.sessionSvc.CheckIn(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, session)
}

// CheckOut 签退，返回本次记录与课程进度
// POST /api/v1/training/sessions/check-out
func (h *SessionHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.sessionSvc.CheckOut(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotInProgress) {
			response.BadRequest(c, 16004, "训练记录不在进行中")
			return
		}
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// GetSession GET /api/v1/training/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// ListSessions GET /api/v1/training/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Review 审核已签退记录
// PUT /api/v1/training/sessions/:id/review
func (h *SessionHandler) Review(c *gin.Context) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	session, err := h.sessionSvc.Review(c.Request.Context(), c.Param("id"), &req, reviewerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// ActiveSession 学员当前进行中的训练，无则 data 为空
// GET /api/v1/training/users/:id/active-session
func (h *SessionHandler) ActiveSession(c *gin.Context) {
	session, err := h.sessionSvc.Active(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// Dashboard 学员看板
// GET /api/v1/training/users/:id/dashboard
func (h *SessionHandler) Dashboard(c *gin.Context) {
	result, err := h.progressSvc.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSessionError 统一处理签到签退业务错误
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 16001, "训练记录不存在")
	case errors.Is(err, service.ErrActiveSessionExists):
		response.Conflict(c, 16002, "该学员已有进行中的训练")
	case errors.Is(err, service.ErrCheckInBusy):
		response.Conflict(c, 16003, "该学员的签到请求正在处理中")
	case errors.Is(err, service.ErrSessionNotInProgress):
		response.UnprocessableEntity(c, 16004, "训练记录不在进行中")
	case errors.Is(err, service.ErrSessionNotReviewable):
		response.UnprocessableEntity(c, 16005, "仅已签退的训练记录可审核")
	case errors.Is(err, service.ErrUserInactive):
		response.UnprocessableEntity(c, 16006, "用户状态不可用")
	case errors.Is(err, service.ErrAssignmentNotOwned):
		response.UnprocessableEntity(c, 16007, "培训分配不属于该学员")
	case errors.Is(err, service.ErrAssignmentNotActive):
		response.UnprocessableEntity(c, 16008, "培训分配不在进行中")
	case errors.Is(err, service.ErrAssignmentExpired):
		response.UnprocessableEntity(c, 16009, "培训分配已过期")
	case errors.Is(err, service.ErrCenterNotPermitted):
		response.UnprocessableEntity(c, 16010, "该分配无权在此中心训练")
	case errors.Is(err, service.ErrMachineNotAtCenter):
		response.UnprocessableEntity(c, 16011, "设备不属于该培训中心")
	case errors.Is(err, service.ErrMachineUnavailable):
		response.UnprocessableEntity(c, 16012, "设备当前不可用")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "培训分配不存在")
	case errors.Is(err, service.ErrCenterNotFound):
		response.NotFound(c, 13001, "培训中心不存在")
	case errors.Is(err, service.ErrMachineNotFound):
		response.NotFound(c, 13101, "培训设备不存在")
	default:
		respondError(c, 16000, err)
	}
}
