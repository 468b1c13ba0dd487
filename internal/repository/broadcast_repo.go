package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// BroadcastRepository 广播审计记录数据访问接口
type BroadcastRepository interface {
	Create(ctx context.Context, b *model.NotificationBroadcast) error
	List(ctx context.Context, page Page) ([]model.NotificationBroadcast, int64, error)
}

type broadcastRepo struct {
	db *gorm.DB
}

// NewBroadcastRepo 创建 BroadcastRepository 实例
func NewBroadcastRepo(db *gorm.DB) BroadcastRepository {
	return &broadcastRepo{db: db}
}

func (r *broadcastRepo) Create(ctx context.Context, b *model.NotificationBroadcast) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *broadcastRepo) List(ctx context.Context, page Page) ([]model.NotificationBroadcast, int64, error) {
	var list []model.NotificationBroadcast
	var total int64

	db := r.db.WithContext(ctx).Model(&model.NotificationBroadcast{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
