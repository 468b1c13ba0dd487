package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/api/handler"
	"github.com/anshshr/broadcast-notification-and-alert/internal/api/router"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	"github.com/anshshr/broadcast-notification-and-alert/internal/scheduler"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/database"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/jwt"
	applogger "github.com/anshshr/broadcast-notification-and-alert/pkg/logger"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/push"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/redis"
)

// 单轮过期扫描的执行上限
const expirySweepTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认查找 ./config/config.yaml")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("push_enabled", cfg.Push.Enabled),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，签到锁、限流与 Token 吊销将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 推送通道
	sender, err := push.New(context.Background(), &cfg.Push, logger)
	if err != nil {
		logger.Fatal("初始化推送通道失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	m := metrics.New()
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, service.Deps{
		Repo:    repo,
		JWT:     jwtMgr,
		Redis:   rdb,
		Push:    sender,
		Metrics: m,
		Logger:  logger,
	})
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine, err := router.Setup(cfg, h, jwtMgr, rdb, m, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 8. 后台定时任务
	sched := scheduler.New(logger)
	if err := sched.RegisterExpirySweep(cfg.Training.ExpirySweepCron, svc.Assignment, expirySweepTimeout); err != nil {
		logger.Fatal("初始化定时任务失败", zap.Error(err))
	}
	sched.Start()

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sched.Stop(ctx); err != nil {
		logger.Warn("定时任务未在超时前结束", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
