package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/anshshr/broadcast-notification-and-alert/config"
	"github.com/anshshr/broadcast-notification-and-alert/internal/dto"
	"github.com/anshshr/broadcast-notification-and-alert/internal/model"
	"github.com/anshshr/broadcast-notification-and-alert/internal/repository"
	"github.com/anshshr/broadcast-notification-and-alert/internal/training"
	pkgerrors "github.com/anshshr/broadcast-notification-and-alert/pkg/errors"
)

// ProgressService 课程进度与学员看板（每次读取时由训练记录实时汇总）
type ProgressService interface {
	AssignmentProgress(ctx context.Context, assignmentID string) (*dto.AssignmentProgressResponse, error)
	Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	cfg    *config.TrainingConfig
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, cfg *config.TrainingConfig, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, cfg: cfg, logger: logger}
}

func (s *progressService) AssignmentProgress(ctx context.Context, assignmentID string) (*dto.AssignmentProgressResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound)
	}

	sessions, err := s.repo.Session.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Error("查询训练记录失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	return &dto.AssignmentProgressResponse{
		Summary:  training.ComputeProgress(assignmentID, requiredHours(a), sessions, s.cfg.ClampProgress),
		Sessions: toSessionResponses(sessions),
	}, nil
}

func (s *progressService) Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}

	assignments, err := s.repo.Assignment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学员分配失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	sessions, err := s.repo.Session.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学员训练记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	grouped := groupSessions(sessions)

	items := make([]training.AssignmentSessions, 0, len(assignments))
	for i := range assignments {
		a := assignments[i]
		items = append(items, training.AssignmentSessions{
			Assignment: a,
			Required:   requiredHours(&a),
			Sessions:   grouped[a.AssignmentID],
		})
	}

	resp := &dto.DashboardResponse{
		UserID: userID,
		Stats:  training.AggregateDashboard(items, s.cfg.ClampProgress),
	}

	for i := range sessions {
		if sessions[i].Status == model.SessionStatusInProgress {
			active := toSessionResponse(&sessions[i])
			resp.ActiveSession = &active
			break
		}
	}

	certs, err := s.repo.Certificate.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学员证书失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}
	resp.CertificatesEarned = len(certs)

	return resp, nil
}

func groupSessions(sessions []model.TrainingSession) map[string][]model.TrainingSession {
	grouped := make(map[string][]model.TrainingSession)
	for _, s := range sessions {
		grouped[s.AssignmentID] = append(grouped[s.AssignmentID], s)
	}
	return grouped
}
