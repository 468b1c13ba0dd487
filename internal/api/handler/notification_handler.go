package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/response"
)

// NotificationHandler 广播推送 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// Broadcast 向全部已登记设备推送
// POST /api/v1/notifications/broadcast, POST /broadcast-notification
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.notificationSvc.Broadcast(c.Request.Context(), &req, OptionalUserID(c))
	if err != nil {
		respondError(c, 19000, err)
		return
	}

	response.OK(c, result)
}

// ListBroadcasts 广播历史
// GET /api/v1/notifications/broadcasts
func (h *NotificationHandler) ListBroadcasts(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.notificationSvc.ListBroadcasts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, 19000, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
