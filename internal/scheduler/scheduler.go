package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirySweeper 批量过期超期分配
type ExpirySweeper interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// Scheduler 后台定时任务
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New 创建调度器，同一任务上一轮未结束时跳过本轮
func New(logger *zap.Logger) *Scheduler {
	cl := cronLogger{sugar: logger.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		logger: logger,
	}
}

// RegisterExpirySweep 注册分配过期扫描任务；timeout 为单轮执行上限
func (s *Scheduler) RegisterExpirySweep(spec string, sweeper ExpirySweeper, timeout time.Duration) error {
	if _, err := s.cron.AddFunc(spec, s.expiryJob(sweeper, timeout)); err != nil {
		return fmt.Errorf("注册过期扫描任务失败 (%s): %w", spec, err)
	}
	s.logger.Info("已注册过期扫描任务", zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) expiryJob(sweeper ExpirySweeper, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		n, err := sweeper.ExpireOverdue(ctx)
		if err != nil {
			s.logger.Error("过期扫描失败", zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Info("过期扫描完成",
				zap.Int64("expired", n),
				zap.Duration("took", time.Since(start)),
			)
		}
	}
}

// Start 启动调度（非阻塞）
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束，ctx 到期则放弃等待
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger 将 cron 内部日志转给 zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
