package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// CenterHandler 培训中心 HTTP 处理器
type CenterHandler struct {
	centerSvc  service.CenterService
	machineSvc service.MachineService
}

// NewCenterHandler 创建 CenterHandler
func NewCenterHandler(centerSvc service.CenterService, machineSvc service.MachineService) *CenterHandler {
	return &CenterHandler{centerSvc: centerSvc, machineSvc: machineSvc}
}

// CreateCenter POST /api/v1/centers
func (h *CenterHandler) CreateCenter(c *gin.Context) {
	var req dto.CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	center, err := h.centerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.Created(c, center)
}

// GetCenter GET /api/v1/centers/:id
func (h *CenterHandler) GetCenter(c *gin.Context) {
	center, err := h.centerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.OK(c, center)
}

// ListCenters GET /api/v1/centers
func (h *CenterHandler) ListCenters(c *gin.Context) {
	var req dto.CenterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.centerSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateCenter PUT /api/v1/centers/:id
func (h *CenterHandler) UpdateCenter(c *gin.Context) {
	var req dto.UpdateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	center, err := h.centerSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.OK(c, center)
}

// DeleteCenter DELETE /api/v1/centers/:id
func (h *CenterHandler) DeleteCenter(c *gin.Context) {
	if err := h.centerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListCenterMachines 中心下的设备
// GET /api/v1/centers/:id/machines
func (h *CenterHandler) ListCenterMachines(c *gin.Context) {
	var req dto.MachineListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	req.CenterID = c.Param("id")

	if _, err := h.centerSvc.GetByID(c.Request.Context(), req.CenterID); err != nil {
		h.handleCenterError(c, err)
		return
	}

	list, total, err := h.machineSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCenterError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

func (h *CenterHandler) handleCenterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCenterNotFound):
		response.NotFound(c, 13001, "培训中心不存在")
	default:
		respondError(c, 13000, err)
	}
}

// ═══════════════════════════════════════════════════════════
// MachineHandler
// ═══════════════════════════════════════════════════════════

// MachineHandler 培训设备 HTTP 处理器
type MachineHandler struct {
	machineSvc service.MachineService
}

// NewMachineHandler 创建 MachineHandler
func NewMachineHandler(machineSvc service.MachineService) *MachineHandler {
	return &MachineHandler{machineSvc: machineSvc}
}

// CreateMachine POST /api/v1/training-machines
func (h *MachineHandler) CreateMachine(c *gin.Context) {
	var req dto.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	machine, err := h.machineSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.Created(c, machine)
}

// GetMachine GET /api/v1/training-machines/:id
func (h *MachineHandler) GetMachine(c *gin.Context) {
	machine, err := h.machineSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.OK(c, machine)
}

// ListMachines GET /api/v1/training-machines
func (h *MachineHandler) ListMachines(c *gin.Context) {
	var req dto.MachineListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.machineSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateMachine PUT /api/v1/training-machines/:id
func (h *MachineHandler) UpdateMachine(c *gin.Context) {
	var req dto.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	machine, err := h.machineSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.OK(c, machine)
}

// DeleteMachine DELETE /api/v1/training-machines/:id
func (h *MachineHandler) DeleteMachine(c *gin.Context) {
	if err := h.machineSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.OK(c, nil)
}

// LogMaintenance 登记一次维护
// POST /api/v1/training-machines/:id/maintenance
func (h *MachineHandler) LogMaintenance(c *gin.Context) {
	var req dto.LogMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	machine, err := h.machineSvc.LogMaintenance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleMachineError(c, err)
		return
	}

	response.OK(c, machine)
}

func (h *MachineHandler) handleMachineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMachineNotFound):
		response.NotFound(c, 13101, "培训设备不存在")
	case errors.Is(err, service.ErrQRCodeExists):
		response.Conflict(c, 13102, "设备二维码已被占用")
	case errors.Is(err, service.ErrCenterNotFound):
		response.NotFound(c, 13001, "培训中心不存在")
	default:
		respondError(c, 13100, err)
	}
}
