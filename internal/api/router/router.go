package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/api/handler"
	"github.com/anshshr/broadcast-notification-and-alert/internal/api/middleware"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/jwt"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时签到限流不启用
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}
	checkInLimit := middleware.RateLimit(limiter, cfg.Training.CheckInRateLimit, cfg.Training.CheckInRateWindow)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", "/metrics"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))
	r.Use(middleware.Metrics(m))

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// ── 现场终端旧路径（无需认证） ──
	r.POST("/postAlert", h.Monitoring.CreateAlert)
	r.GET("/getAlerts", h.Monitoring.ListAlerts)
	r.GET("/machines", h.Monitoring.ListMonitoredMachines)
	r.POST("/machines", h.Monitoring.CreateMonitoredMachine)
	r.POST("/upsert-user", h.User.UpsertDevice)
	r.POST("/broadcast-notification", middleware.JWTAuth(jwtMgr), h.Notification.Broadcast)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 证书公开验证
		v1.GET("/certificates/verify/:code", h.Certificate.Verify)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.POST("", h.User.CreateUser)
				users.GET("", h.User.ListUsers)
				users.POST("/import", h.User.ImportUsers)
				users.POST("/device", h.User.UpsertDevice)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 培训中心
			centers := authorized.Group("/centers")
			{
				centers.POST("", h.Center.CreateCenter)
				centers.GET("", h.Center.ListCenters)
				centers.GET("/:id", h.Center.GetCenter)
				centers.PUT("/:id", h.Center.UpdateCenter)
				centers.DELETE("/:id", h.Center.DeleteCenter)
				centers.GET("/:id/machines", h.Center.ListCenterMachines)
			}

			// 培训设备
			machines := authorized.Group("/training-machines")
			{
				machines.POST("", h.Machine.CreateMachine)
				machines.GET("", h.Machine.ListMachines)
				machines.GET("/:id", h.Machine.GetMachine)
				machines.PUT("/:id", h.Machine.UpdateMachine)
				machines.DELETE("/:id", h.Machine.DeleteMachine)
				machines.POST("/:id/maintenance", h.Machine.LogMaintenance)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.POST("", h.Course.CreateCourse)
				courses.GET("", h.Course.ListCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.PUT("/:id", h.Course.UpdateCourse)
				courses.DELETE("/:id", h.Course.DeleteCourse)
				courses.GET("/:id/centers", h.Course.ListCenters)
				courses.POST("/:id/centers", h.Course.AddCenter)
				courses.DELETE("/:id/centers/:center_id", h.Course.RemoveCenter)
			}

			training := authorized.Group("/training")
			{
				// 签到签退
				sessions := training.Group("/sessions")
				{
					sessions.POST("/check-in", checkInLimit, h.Session.CheckIn)
					sessions.POST("/check-out", checkInLimit, h.Session.CheckOut)
					sessions.GET("", h.Session.ListSessions)
					sessions.GET("/:id", h.Session.GetSession)
					sessions.PUT("/:id/review", h.Session.Review)
				}

				// 培训分配
				assignments := training.Group("/assignments")
				{
					assignments.POST("", h.Assignment.Enroll)
					assignments.GET("", h.Assignment.ListAssignments)
					assignments.GET("/:id", h.Assignment.GetAssignment)
					assignments.GET("/:id/progress", h.Assignment.Progress)
					assignments.POST("/:id/cancel", h.Assignment.Cancel)
					assignments.GET("/:id/centers", h.Assignment.ListCenterAccess)
					assignments.POST("/:id/centers", h.Assignment.GrantCenterAccess)
					assignments.DELETE("/:id/centers/:center_id", h.Assignment.RevokeCenterAccess)
				}

				// 学员视角
				trainees := training.Group("/users/:id")
				{
					trainees.GET("/dashboard", h.Session.Dashboard)
					trainees.GET("/active-session", h.Session.ActiveSession)
					trainees.GET("/certificates", h.Certificate.ListByUser)
				}
			}

			// 证书
			certificates := authorized.Group("/certificates")
			{
				certificates.POST("", h.Certificate.Issue)
				certificates.GET("/:id", h.Certificate.GetCertificate)
			}

			// 设备监控
			monitoring := authorized.Group("/monitoring")
			{
				monitoring.POST("/alerts", h.Monitoring.CreateAlert)
				monitoring.GET("/alerts", h.Monitoring.ListAlerts)
				monitoring.PUT("/alerts/:id/status", h.Monitoring.UpdateAlertStatus)
				monitoring.POST("/machines", h.Monitoring.CreateMonitoredMachine)
				monitoring.GET("/machines", h.Monitoring.ListMonitoredMachines)
			}

			// 广播推送
			notifications := authorized.Group("/notifications")
			{
				notifications.POST("/broadcast", h.Notification.Broadcast)
				notifications.GET("/broadcasts", h.Notification.ListBroadcasts)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/assignments/:id", h.Export.ExportAssignmentReport)
			}
		}
	}

	return r, nil
}
