// Package push 封装移动端推送通知发送
package push

import (
	"context"
	"fmt"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/anshshr/broadcast-notification-and-alert/config"
)

// Message 单条推送内容
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender 推送发送接口：每次调用向一个设备 Token 投递一次，不重试
type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// FCMSender 基于 Firebase Cloud Messaging 的实现
type FCMSender struct {
	client          *messaging.Client
	androidPriority string
}

// NewFCMSender 读取服务账号凭据并初始化 FCM 客户端
func NewFCMSender(ctx context.Context, cfg *config.PushConfig) (*FCMSender, error) {
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("初始化 Firebase 应用失败: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("初始化 FCM 客户端失败: %w", err)
	}

	return &FCMSender{client: client, androidPriority: cfg.AndroidPriority}, nil
}

// Send 发送一条通知；collapse key 取当前时间戳，避免同批消息被设备折叠
func (s *FCMSender) Send(ctx context.Context, token string, msg Message) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority:    s.androidPriority,
			CollapseKey: strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	})
	return err
}

// NoopSender 推送未启用时使用：只记录日志，视为发送成功
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender 创建 NoopSender
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send 记录一条调试日志
func (s *NoopSender) Send(_ context.Context, token string, msg Message) error {
	s.logger.Debug("推送未启用，跳过发送", zap.String("title", msg.Title), zap.Int("token_len", len(token)))
	return nil
}

// New 根据配置选择推送实现
func New(ctx context.Context, cfg *config.PushConfig, logger *zap.Logger) (Sender, error) {
	if !cfg.Enabled {
		logger.Warn("推送通知未启用，广播将仅记录日志")
		return NewNoopSender(logger), nil
	}
	sender, err := NewFCMSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("FCM 推送客户端初始化成功")
	return sender, nil
}
