package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/push"
)

// NotificationService 全员广播推送业务接口
type NotificationService interface {
	// Broadcast 向所有登记了设备 Token 的用户各推送一次，单台失败只计数
	Broadcast(ctx context.Context, req *dto.BroadcastRequest, createdBy string) (*dto.BroadcastResponse, error)
	ListBroadcasts(ctx context.Context, req *dto.PaginationRequest) ([]model.NotificationBroadcast, int64, error)
}

type notificationService struct {
	repo        *repository.Repository
	sender      push.Sender
	concurrency int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, sender push.Sender, concurrency int, m *metrics.Metrics, logger *zap.Logger) NotificationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &notificationService{
		repo:        repo,
		sender:      sender,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger,
	}
}

// ────────────────────── Broadcast ──────────────────────

func (s *notificationService) Broadcast(ctx context.Context, req *dto.BroadcastRequest, createdBy string) (*dto.BroadcastResponse, error) {
	users, err := s.repo.User.ListWithDeviceToken(ctx)
	if err != nil {
		s.logger.Error("查询设备 Token 失败", zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	msg := push.Message{
		Title: req.Title,
		Body:  req.Body,
		Data:  map[string]string{"screen": "screen", "id": "123"},
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range users {
		u := users[i]
		if u.FCMToken == nil || *u.FCMToken == "" {
			continue
		}
		token := *u.FCMToken
		g.Go(func() error {
			// 单条失败不返回 error，避免取消其余发送
			if err := s.sender.Send(gctx, token, msg); err != nil {
				failed.Add(1)
				s.logger.Warn("推送失败", zap.String("user_id", u.UserID), zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.BroadcastResponse{SentTo: int(sent.Load()), FailedFor: int(failed.Load())}
	s.metrics.BroadcastResult(resp.SentTo, resp.FailedFor)

	record := &model.NotificationBroadcast{
		Title:     req.Title,
		Body:      req.Body,
		SentTo:    resp.SentTo,
		FailedFor: resp.FailedFor,
	}
	if createdBy != "" {
		record.CreatedBy = &createdBy
	}
	// 审计记录写入失败不影响已完成的推送结果
	if err := s.repo.Broadcast.Create(ctx, record); err != nil {
		s.logger.Error("写入广播记录失败", zap.Error(err))
	}

	s.logger.Info("广播推送完成",
		zap.String("title", req.Title),
		zap.Int("sent_to", resp.SentTo),
		zap.Int("failed_for", resp.FailedFor),
	)
	return resp, nil
}

func (s *notificationService) ListBroadcasts(ctx context.Context, req *dto.PaginationRequest) ([]model.NotificationBroadcast, int64, error) {
	list, total, err := s.repo.Broadcast.List(ctx, toPage(*req))
	if err != nil {
		s.logger.Error("列出广播记录失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return list, total, nil
}
