package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	"github.com/anshshr/broadcast-notification-and-alert/internal/training"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
	"github.com/anshshr/broadcast-notification-and-alert/pkg/metrics"
)

// ── 培训分配业务错误 ──

var (
	ErrAssignmentNotFound  = pkgerrors.New(pkgerrors.KindNotFound, "培训分配不存在")
	ErrAssignmentDuplicate = pkgerrors.New(pkgerrors.KindConflict, "该学员已有此课程的进行中分配")
	ErrAssignmentTerminal  = pkgerrors.New(pkgerrors.KindInvalidState, "培训分配已结束，状态不可变更")
	ErrCourseInactive      = pkgerrors.New(pkgerrors.KindInvalidState, "课程模块未启用")
	ErrAccessExists        = pkgerrors.New(pkgerrors.KindConflict, "已授予该中心的访问权限")
	ErrAccessNotFound      = pkgerrors.New(pkgerrors.KindNotFound, "中心访问权限不存在")
)

// AssignmentService 培训分配业务接口
type AssignmentService interface {
	Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	Cancel(ctx context.Context, id string) (*dto.AssignmentResponse, error)

	GrantCenterAccess(ctx context.Context, id string, req *dto.CenterAccessRequest) (*dto.CenterAccessResponse, error)
	RevokeCenterAccess(ctx context.Context, id, centerID string) error
	ListCenterAccess(ctx context.Context, id string) ([]dto.CenterAccessResponse, error)

	// ExpireOverdue 定时任务调用：批量过期超期分配
	ExpireOverdue(ctx context.Context) (int64, error)
}

type assignmentService struct {
	repo    *repository.Repository
	cfg     *config.TrainingConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(
	repo *repository.Repository,
	cfg *config.TrainingConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		repo:    repo,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── Enroll ──────────────────────

func (s *assignmentService) Enroll(ctx context.Context, req *dto.EnrollRequest, callerID string) (*dto.AssignmentResponse, error) {
	now := s.now()
	var a *model.UserTrainingAssignment

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetByID(ctx, req.UserID); err != nil {
			return notFoundOr(err, ErrUserNotFound)
		}
		course, err := tx.Course.GetByID(ctx, req.ModuleID)
		if err != nil {
			return notFoundOr(err, ErrCourseNotFound)
		}
		if course.Status != model.StatusActive {
			return ErrCourseInactive
		}

		exists, err := tx.Assignment.ExistsActive(ctx, req.UserID, req.ModuleID)
		if err != nil {
			return pkgerrors.Dependency(err)
		}
		if exists {
			return ErrAssignmentDuplicate
		}

		a = &model.UserTrainingAssignment{
			UserID:       req.UserID,
			ModuleID:     req.ModuleID,
			AssignedDate: now,
			ExpiryDate:   training.ExpiryDate(now, s.cfg.AssignmentValidityMonths),
			Status:       model.AssignmentStatusActive,
		}
		if callerID != "" {
			a.AssignedBy = &callerID
		}
		// 部分唯一索引兜底并发报名
		if err := tx.Assignment.Create(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAssignmentDuplicate
			}
			return pkgerrors.Dependency(err)
		}

		for _, centerID := range uniqueStrings(req.CenterIDs) {
			if _, err := tx.Center.GetByID(ctx, centerID); err != nil {
				return notFoundOr(err, ErrCenterNotFound)
			}
			access := &model.AssignmentCenterAccess{AssignmentID: a.AssignmentID, CenterID: centerID}
			if err := tx.Assignment.AddCenterAccess(ctx, access); err != nil {
				return pkgerrors.Dependency(err)
			}
			a.CenterAccess = append(a.CenterAccess, *access)
		}
		a.Module = course
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindDependency {
			s.logger.Error("创建培训分配失败", zap.String("user_id", req.UserID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("创建培训分配",
		zap.String("assignment_id", a.AssignmentID),
		zap.String("user_id", a.UserID),
		zap.Time("expiry_date", a.ExpiryDate),
	)
	return toAssignmentResponse(a), nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ────────────────────── Query ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	list, total, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{
		UserID:   req.UserID,
		ModuleID: req.ModuleID,
		Status:   req.Status,
		Page:     toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出培训分配失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *assignmentService) Cancel(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	if err := training.Transition(a, model.AssignmentStatusCancelled, s.now()); err != nil {
		return nil, ErrAssignmentTerminal
	}

	ok, err := s.repo.Assignment.UpdateStatus(ctx, id, model.AssignmentStatusActive, model.AssignmentStatusCancelled, nil)
	if err != nil {
		s.logger.Error("取消培训分配失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	if !ok {
		return nil, ErrAssignmentTerminal
	}

	s.metrics.AssignmentTransition(model.AssignmentStatusCancelled)
	s.logger.Info("取消培训分配", zap.String("assignment_id", id))
	return toAssignmentResponse(a), nil
}

// ────────────────────── Center Access ──────────────────────

func (s *assignmentService) GrantCenterAccess(ctx context.Context, id string, req *dto.CenterAccessRequest) (*dto.CenterAccessResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	if training.IsTerminal(a.Status) {
		return nil, ErrAssignmentTerminal
	}
	center, err := s.repo.Center.GetByID(ctx, req.CenterID)
	if err != nil {
		return nil, notFoundOr(err, ErrCenterNotFound)
	}

	access := &model.AssignmentCenterAccess{AssignmentID: id, CenterID: req.CenterID}
	if err := s.repo.Assignment.AddCenterAccess(ctx, access); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccessExists
		}
		s.logger.Error("授予中心访问权限失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	return &dto.CenterAccessResponse{
		AccessID:   access.AccessID,
		CenterID:   access.CenterID,
		CenterName: center.Name,
		GrantedAt:  dto.FormatTime(access.CreatedAt),
	}, nil
}

func (s *assignmentService) RevokeCenterAccess(ctx context.Context, id, centerID string) error {
	ok, err := s.repo.Assignment.RemoveCenterAccess(ctx, id, centerID)
	if err != nil {
		s.logger.Error("撤销中心访问权限失败", zap.String("assignment_id", id), zap.Error(err))
		return pkgerrors.Dependency(err)
	}
	if !ok {
		return ErrAccessNotFound
	}
	return nil
}

func (s *assignmentService) ListCenterAccess(ctx context.Context, id string) ([]dto.CenterAccessResponse, error) {
	if _, err := s.repo.Assignment.GetByID(ctx, id); err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}
	list, err := s.repo.Assignment.ListCenterAccess(ctx, id)
	if err != nil {
		s.logger.Error("查询中心访问权限失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	result := make([]dto.CenterAccessResponse, 0, len(list))
	for _, access := range list {
		item := dto.CenterAccessResponse{
			AccessID:  access.AccessID,
			CenterID:  access.CenterID,
			GrantedAt: dto.FormatTime(access.CreatedAt),
		}
		if access.Center != nil {
			item.CenterName = access.Center.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── Expiry ──────────────────────

func (s *assignmentService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.Assignment.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, pkgerrors.Dependency(err)
	}
	s.metrics.AssignmentTransitions(model.AssignmentStatusExpired, n)
	return n, nil
}
