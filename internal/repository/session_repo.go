package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// SessionFilter 训练记录过滤条件
type SessionFilter struct {
	UserID       string
	AssignmentID string
	CenterID     string
	Status       string
	Page
}

// SessionRepository 训练记录数据访问接口
type SessionRepository interface {
	// Create 违反“每个用户仅一条进行中记录”约束时返回 ErrDuplicate
	Create(ctx context.Context, s *model.TrainingSession) error
	GetByID(ctx context.Context, id string) (*model.TrainingSession, error)
	// GetForUpdate 行级锁读取，需在事务中调用
	GetForUpdate(ctx context.Context, id string) (*model.TrainingSession, error)
	GetActiveByUser(ctx context.Context, userID string) (*model.TrainingSession, error)
	// ListByAssignment 按签到时间升序返回
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.TrainingSession, error)
	ListByUser(ctx context.Context, userID string) ([]model.TrainingSession, error)
	List(ctx context.Context, filter SessionFilter) ([]model.TrainingSession, int64, error)
	// Close 仅当记录仍处于进行中时写入签退结果，否则返回 ErrOptimisticLock
	Close(ctx context.Context, s *model.TrainingSession) error
	// Review 仅当记录处于 completed 时写入审核结果，否则返回 ErrOptimisticLock
	Review(ctx context.Context, id, status, reviewerID string, at time.Time, rating *int) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.TrainingSession) error {
	return translateError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.TrainingSession, error) {
	var s model.TrainingSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) GetForUpdate(ctx context.Context, id string) (*model.TrainingSession, error) {
	var s model.TrainingSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) GetActiveByUser(ctx context.Context, userID string) (*model.TrainingSession, error) {
	var s model.TrainingSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SessionStatusInProgress).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.TrainingSession, error) {
	var list []model.TrainingSession
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Center").
		Where("assignment_id = ?", assignmentID).
		Order("check_in_time ASC").
		Find(&list).Error
	return list, err
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string) ([]model.TrainingSession, error) {
	var list []model.TrainingSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_time ASC").
		Find(&list).Error
	return list, err
}

func (r *sessionRepo) List(ctx context.Context, filter SessionFilter) ([]model.TrainingSession, int64, error) {
	var list []model.TrainingSession
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TrainingSession{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.AssignmentID != "" {
		db = db.Where("assignment_id = ?", filter.AssignmentID)
	}
	if filter.CenterID != "" {
		db = db.Where("center_id = ?", filter.CenterID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := filter.Page.apply(db).
		Order("check_in_time DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *sessionRepo) Close(ctx context.Context, s *model.TrainingSession) error {
	result := r.db.WithContext(ctx).
		Model(&model.TrainingSession{}).
		Where("session_id = ? AND status = ?", s.SessionID, model.SessionStatusInProgress).
		Updates(map[string]interface{}{
			"check_out_time":  s.CheckOutTime,
			"hours_completed": s.HoursCompleted,
			"status":          s.Status,
			"notes":           s.Notes,
			"clock_skew":      s.ClockSkew,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *sessionRepo) Review(ctx context.Context, id, status, reviewerID string, at time.Time, rating *int) error {
	updates := map[string]interface{}{
		"status":      status,
		"approved_by": reviewerID,
		"approved_at": at,
	}
	if rating != nil {
		updates["rating"] = *rating
	}
	result := r.db.WithContext(ctx).
		Model(&model.TrainingSession{}).
		Where("session_id = ? AND status = ?", id, model.SessionStatusCompleted).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
