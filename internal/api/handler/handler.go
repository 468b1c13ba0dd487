package handler

import "github.com/anshshr/broadcast-notification-and-alert/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Center       *CenterHandler
	Machine      *MachineHandler
	Course       *CourseHandler
	Assignment   *AssignmentHandler
	Session      *SessionHandler
	Certificate  *CertificateHandler
	Monitoring   *MonitoringHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Center:       NewCenterHandler(svc.Center, svc.Machine),
		Machine:      NewMachineHandler(svc.Machine),
		Course:       NewCourseHandler(svc.Course),
		Assignment:   NewAssignmentHandler(svc.Assignment, svc.Progress),
		Session:      NewSessionHandler(svc.Session, svc.Progress),
		Certificate:  NewCertificateHandler(svc.Certificate),
		Monitoring:   NewMonitoringHandler(svc.Monitoring),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
