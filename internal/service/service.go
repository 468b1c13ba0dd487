package service

import (
	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/jwt"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/push"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Center       CenterService
	Machine      MachineService
	Course       CourseService
	Assignment   AssignmentService
	Session      SessionService
	Progress     ProgressService
	Certificate  CertificateService
	Monitoring   MonitoringService
	Notification NotificationService
	Export       ExportService
}

// Deps 外部依赖，rdb 为 nil 时锁与吊销名单降级为不启用
type Deps struct {
	Repo    *repository.Repository
	JWT     *jwt.Manager
	Redis   *redis.Client
	Push    push.Sender
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, d Deps) *Service {
	var locker Locker
	var blacklist TokenBlacklist
	if d.Redis != nil {
		locker = d.Redis
		blacklist = d.Redis
	}

	progress := NewProgressService(d.Repo, &cfg.Training, d.Logger)
	return &Service{
		Auth:         NewAuthService(d.Repo, d.JWT, blacklist, d.Logger),
		User:         NewUserService(d.Repo, d.Logger),
		Center:       NewCenterService(d.Repo, d.Logger),
		Machine:      NewMachineService(d.Repo, d.Logger),
		Course:       NewCourseService(d.Repo, d.Logger),
		Assignment:   NewAssignmentService(d.Repo, &cfg.Training, d.Metrics, d.Logger),
		Session:      NewSessionService(d.Repo, &cfg.Training, locker, d.Metrics, d.Logger),
		Progress:     progress,
		Certificate:  NewCertificateService(d.Repo, &cfg.Training, d.Logger),
		Monitoring:   NewMonitoringService(d.Repo, d.Logger),
		Notification: NewNotificationService(d.Repo, d.Push, cfg.Push.Concurrency, d.Metrics, d.Logger),
		Export:       NewExportService(progress, d.Logger),
	}
}
