package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	"github.com/anshshr/broadcast-notification-and-alert/internal/seed"
	"github.com/anshshr/broadcast-notification-and-alert/internal/service"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/database"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/jwt"
	applogger "github.com/anshshr/broadcast-notification-and-alert/pkg/logger"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/push"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认查找 ./config/config.yaml")
	confirm := flag.Bool("confirm", false, "确认向当前数据库写入演示数据")
	flag.Parse()

	if !*confirm {
		fmt.Fprintln(os.Stderr, "演示数据会写入配置中的数据库，确认后请加 -confirm 重新执行")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 演示数据不发推送，Redis 锁与限流也不需要
	pushCfg := cfg.Push
	pushCfg.Enabled = false
	sender, err := push.New(context.Background(), &pushCfg, logger)
	if err != nil {
		logger.Fatal("初始化推送通道失败", zap.Error(err))
	}

	svc := service.NewService(cfg, service.Deps{
		Repo:    repository.NewRepository(db),
		JWT:     jwt.NewManager(&cfg.Auth),
		Push:    sender,
		Metrics: metrics.New(),
		Logger:  logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := seed.New(svc, logger).Run(ctx); err != nil {
		if errors.Is(err, seed.ErrAlreadySeeded) {
			logger.Warn(err.Error())
			return
		}
		logger.Fatal("写入演示数据失败", zap.Error(err))
	}
	logger.Info("演示账号密码", zap.String("password", seed.DefaultPassword))
}
