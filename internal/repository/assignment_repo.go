package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
)

// AssignmentFilter 培训分配过滤条件
type AssignmentFilter struct {
	UserID   string
	ModuleID string
	Status   string
	Page
}

// AssignmentRepository 培训分配与中心授权数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.UserTrainingAssignment) error
	// GetByID 预加载课程模块与中心授权
	GetByID(ctx context.Context, id string) (*model.UserTrainingAssignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]model.UserTrainingAssignment, int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserTrainingAssignment, error)
	ExistsActive(ctx context.Context, userID, moduleID string) (bool, error)
	CountByModule(ctx context.Context, moduleID string) (int64, error)
	// UpdateStatus 条件更新：仅当当前状态为 from 时更新，返回是否命中
	UpdateStatus(ctx context.Context, id, from, to string, completedAt *time.Time) (bool, error)
	// ExpireOverdue 将所有已过期的 active 分配置为 expired，返回受影响行数
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	AddCenterAccess(ctx context.Context, access *model.AssignmentCenterAccess) error
	RemoveCenterAccess(ctx context.Context, assignmentID, centerID string) (bool, error)
	ListCenterAccess(ctx context.Context, assignmentID string) ([]model.AssignmentCenterAccess, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

// ────── 分配 ──────

func (r *assignmentRepo) Create(ctx context.Context, a *model.UserTrainingAssignment) error {
	return translateError(r.db.WithContext(ctx).Create(a).Error)
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.UserTrainingAssignment, error) {
	var a model.UserTrainingAssignment
	err := r.db.WithContext(ctx).
		Preload("Module").
		Preload("CenterAccess").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.UserTrainingAssignment, int64, error) {
	var list []model.UserTrainingAssignment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UserTrainingAssignment{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.ModuleID != "" {
		db = db.Where("module_id = ?", filter.ModuleID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).
		Preload("Module").
		Order("assigned_date DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID string) ([]model.UserTrainingAssignment, error) {
	var list []model.UserTrainingAssignment
	err := r.db.WithContext(ctx).
		Preload("Module").
		Where("user_id = ?", userID).
		Order("assigned_date DESC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) ExistsActive(ctx context.Context, userID, moduleID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserTrainingAssignment{}).
		Where("user_id = ? AND module_id = ? AND status = ?", userID, moduleID, model.AssignmentStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) CountByModule(ctx context.Context, moduleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserTrainingAssignment{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id, from, to string, completedAt *time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserTrainingAssignment{}).
		Where("assignment_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":       to,
			"completed_at": completedAt,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *assignmentRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserTrainingAssignment{}).
		Where("status = ? AND expiry_date < ?", model.AssignmentStatusActive, now).
		Update("status", model.AssignmentStatusExpired)
	return result.RowsAffected, result.Error
}

// ────── 中心授权 ──────

func (r *assignmentRepo) AddCenterAccess(ctx context.Context, access *model.AssignmentCenterAccess) error {
	return translateError(r.db.WithContext(ctx).Create(access).Error)
}

func (r *assignmentRepo) RemoveCenterAccess(ctx context.Context, assignmentID, centerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("assignment_id = ? AND center_id = ?", assignmentID, centerID).
		Delete(&model.AssignmentCenterAccess{})
	return result.RowsAffected > 0, result.Error
}

func (r *assignmentRepo) ListCenterAccess(ctx context.Context, assignmentID string) ([]model.AssignmentCenterAccess, error) {
	var list []model.AssignmentCenterAccess
	err := r.db.WithContext(ctx).
		Preload("Center").
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
