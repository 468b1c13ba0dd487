package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// CenterFilter 培训中心过滤条件
type CenterFilter struct {
	City   string
	Status string
	Page
}

// CenterRepository 培训中心数据访问接口
type CenterRepository interface {
	Create(ctx context.Context, center *model.TrainingCenter) error
	GetByID(ctx context.Context, id string) (*model.TrainingCenter, error)
	List(ctx context.Context, filter CenterFilter) ([]model.TrainingCenter, int64, error)
	Update(ctx context.Context, center *model.TrainingCenter) error
	Delete(ctx context.Context, id string) error
	// CountMachines 按中心统计设备数量
	CountMachines(ctx context.Context, centerIDs []string) (map[string]int64, error)
}

type centerRepo struct {
	db *gorm.DB
}

// NewCenterRepo 创建 CenterRepository 实例
func NewCenterRepo(db *gorm.DB) CenterRepository {
	return &centerRepo{db: db}
}

func (r *centerRepo) Create(ctx context.Context, center *model.TrainingCenter) error {
	return r.db.WithContext(ctx).Create(center).Error
}

func (r *centerRepo) GetByID(ctx context.Context, id string) (*model.TrainingCenter, error) {
	var center model.TrainingCenter
	err := r.db.WithContext(ctx).
		Where("center_id = ?", id).
		First(&center).Error
	if err != nil {
		return nil, err
	}
	return &center, nil
}

func (r *centerRepo) List(ctx context.Context, filter CenterFilter) ([]model.TrainingCenter, int64, error) {
	var centers []model.TrainingCenter
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TrainingCenter{})
	if city := strings.TrimSpace(filter.City); city != "" {
		db = db.Where("city ILIKE ?", city)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).Order("name ASC").Find(&centers).Error; err != nil {
		return nil, 0, err
	}
	return centers, total, nil
}

func (r *centerRepo) Update(ctx context.Context, center *model.TrainingCenter) error {
	return r.db.WithContext(ctx).Save(center).Error
}

func (r *centerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("center_id = ?", id).
		Delete(&model.TrainingCenter{}).Error
}

func (r *centerRepo) CountMachines(ctx context.Context, centerIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(centerIDs))
	if len(centerIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		CenterID string
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TrainingMachine{}).
		Select("center_id, COUNT(*) AS total").
		Where("center_id IN ?", centerIDs).
		Group("center_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CenterID] = row.Total
	}
	return result, nil
}
