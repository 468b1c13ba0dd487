package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// AssignmentHandler 培训分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
	progressSvc   service.ProgressService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService, progressSvc service.ProgressService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc, progressSvc: progressSvc}
}

// Enroll 为学员分配课程
// POST /api/v1/training/assignments
func (h *AssignmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	a, err := h.assignmentSvc.Enroll(c.Request.Context(), &req, OptionalUserID(c))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, a)
}

// GetAssignment GET /api/v1/training/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	a, err := h.assignmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// ListAssignments GET /api/v1/training/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Cancel 取消分配
// POST /api/v1/training/assignments/:id/cancel
func (h *AssignmentHandler) Cancel(c *gin.Context) {
	a, err := h.assignmentSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// Progress 分配进度汇总与逐条训练记录
// GET /api/v1/training/assignments/:id/progress
func (h *AssignmentHandler) Progress(c *gin.Context) {
	result, err := h.progressSvc.AssignmentProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// GrantCenterAccess POST /api/v1/training/assignments/:id/centers
func (h *AssignmentHandler) GrantCenterAccess(c *gin.Context) {
	var req dto.CenterAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	access, err := h.assignmentSvc.GrantCenterAccess(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, access)
}

// RevokeCenterAccess DELETE /api/v1/training/assignments/:id/centers/:center_id
func (h *AssignmentHandler) RevokeCenterAccess(c *gin.Context) {
	if err := h.assignmentSvc.RevokeCenterAccess(c.Request.Context(), c.Param("id"), c.Param("center_id")); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListCenterAccess GET /api/v1/training/assignments/:id/centers
func (h *AssignmentHandler) ListCenterAccess(c *gin.Context) {
	list, err := h.assignmentSvc.ListCenterAccess(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15001, "培训分配不存在")
	case errors.Is(err, service.ErrAssignmentDuplicate):
		response.Conflict(c, 15002, "该学员已有此课程的进行中分配")
	case errors.Is(err, service.ErrAssignmentTerminal):
		response.UnprocessableEntity(c, 15003, "培训分配已结束，状态不可变更")
	case errors.Is(err, service.ErrCourseInactive):
		response.UnprocessableEntity(c, 15004, "课程模块未启用")
	case errors.Is(err, service.ErrAccessExists):
		response.Conflict(c, 15005, "已授予该中心的访问权限")
	case errors.Is(err, service.ErrAccessNotFound):
		response.NotFound(c, 15006, "中心访问权限不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14001, "课程模块不存在")
	case errors.Is(err, service.ErrCenterNotFound):
		response.NotFound(c, 13001, "培训中心不存在")
	default:
		respondError(c, 15000, err)
	}
}
