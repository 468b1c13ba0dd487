package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// MonitoringHandler 设备告警与运行记录 HTTP 处理器
// 同时挂载在 /api/v1/monitoring 与现场终端使用的旧路径上
type MonitoringHandler struct {
	monitoringSvc service.MonitoringService
}

// NewMonitoringHandler 创建 MonitoringHandler
func NewMonitoringHandler(monitoringSvc service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoringSvc: monitoringSvc}
}

// CreateAlert 上报告警
// POST /postAlert, POST /api/v1/monitoring/alerts
func (h *MonitoringHandler) CreateAlert(c *gin.Context) {
	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	alert, err := h.monitoringSvc.CreateAlert(c.Request.Context(), &req)
	if err != nil {
		h.handleMonitoringError(c, err)
		return
	}

	response.Created(c, alert)
}

// ListAlerts GET /getAlerts, GET /api/v1/monitoring/alerts
func (h *MonitoringHandler) ListAlerts(c *gin.Context) {
	var req dto.AlertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.monitoringSvc.ListAlerts(c.Request.Context(), &req)
	if err != nil {
		h.handleMonitoringError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateAlertStatus PUT /api/v1/monitoring/alerts/:id/status
func (h *MonitoringHandler) UpdateAlertStatus(c *gin.Context) {
	var req dto.UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	alert, err := h.monitoringSvc.UpdateAlertStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleMonitoringError(c, err)
		return
	}

	response.OK(c, alert)
}

// CreateMonitoredMachine POST /machines, POST /api/v1/monitoring/machines
func (h *MonitoringHandler) CreateMonitoredMachine(c *gin.Context) {
	var req dto.CreateMonitoredMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	m, err := h.monitoringSvc.CreateMonitoredMachine(c.Request.Context(), &req)
	if err != nil {
		h.handleMonitoringError(c, err)
		return
	}

	response.Created(c, m)
}

// ListMonitoredMachines GET /machines, GET /api/v1/monitoring/machines
func (h *MonitoringHandler) ListMonitoredMachines(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.monitoringSvc.ListMonitoredMachines(c.Request.Context(), &req)
	if err != nil {
		h.handleMonitoringError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

func (h *MonitoringHandler) handleMonitoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlertNotFound):
		response.NotFound(c, 18001, "告警不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		respondError(c, 18002, err)
	default:
		respondError(c, 18000, err)
	}
}
