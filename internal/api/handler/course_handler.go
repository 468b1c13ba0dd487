package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// CreateCourse POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// GetCourse GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// ListCourses GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateCourse PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// DeleteCourse DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// AddCenter 在中心开设课程
// POST /api/v1/courses/:id/centers
func (h *CourseHandler) AddCenter(c *gin.Context) {
	var req dto.CourseCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	cc, err := h.courseSvc.AddCenter(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, cc)
}

// RemoveCenter DELETE /api/v1/courses/:id/centers/:center_id
func (h *CourseHandler) RemoveCenter(c *gin.Context) {
	if err := h.courseSvc.RemoveCenter(c.Request.Context(), c.Param("id"), c.Param("center_id")); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListCenters GET /api/v1/courses/:id/centers
func (h *CourseHandler) ListCenters(c *gin.Context) {
	list, err := h.courseSvc.ListCenters(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14001, "课程模块不存在")
	case errors.Is(err, service.ErrCourseLocked):
		response.Conflict(c, 14002, "课程已被分配引用，学时要求与级别不可修改")
	case errors.Is(err, service.ErrCourseInUse):
		response.Conflict(c, 14003, "课程已被分配引用，不可删除")
	case errors.Is(err, service.ErrCourseCenterExists):
		response.Conflict(c, 14004, "课程已在该中心开设")
	case errors.Is(err, service.ErrCourseCenterNotFound):
		response.NotFound(c, 14005, "课程未在该中心开设")
	case errors.Is(err, service.ErrCenterNotFound):
		response.NotFound(c, 13001, "培训中心不存在")
	default:
		respondError(c, 14000, err)
	}
}
