package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// CourseFilter 课程模块过滤条件
type CourseFilter struct {
	Category    string
	Level       string
	MachineType string
	Status      string
	Page
}

// CourseRepository 课程模块与开设中心数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.CourseModule) error
	GetByID(ctx context.Context, id string) (*model.CourseModule, error)
	List(ctx context.Context, filter CourseFilter) ([]model.CourseModule, int64, error)
	Update(ctx context.Context, course *model.CourseModule) error
	Delete(ctx context.Context, id string) error

	AddCenter(ctx context.Context, cc *model.CourseCenter) error
	RemoveCenter(ctx context.Context, moduleID, centerID string) (bool, error)
	ListCenters(ctx context.Context, moduleID string) ([]model.CourseCenter, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

// ────── 课程模块 ──────

func (r *courseRepo) Create(ctx context.Context, course *model.CourseModule) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.CourseModule, error) {
	var course model.CourseModule
	err := r.db.WithContext(ctx).
		Where("module_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter) ([]model.CourseModule, int64, error) {
	var courses []model.CourseModule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CourseModule{})
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		db = db.Where("level = ?", filter.Level)
	}
	if filter.MachineType != "" {
		db = db.Where("machine_type = ?", filter.MachineType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).Order("module_name ASC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.CourseModule) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("module_id = ?", id).
		Delete(&model.CourseModule{}).Error
}

// ────── 开设中心 ──────

func (r *courseRepo) AddCenter(ctx context.Context, cc *model.CourseCenter) error {
	return translateError(r.db.WithContext(ctx).Create(cc).Error)
}

func (r *courseRepo) RemoveCenter(ctx context.Context, moduleID, centerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("module_id = ? AND center_id = ?", moduleID, centerID).
		Delete(&model.CourseCenter{})
	return result.RowsAffected > 0, result.Error
}

func (r *courseRepo) ListCenters(ctx context.Context, moduleID string) ([]model.CourseCenter, error) {
	var list []model.CourseCenter
	err := r.db.WithContext(ctx).
		Preload("Center").
		Where("module_id = ?", moduleID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
