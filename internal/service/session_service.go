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

// ── 签到签退业务错误 ──

var (
	ErrSessionNotFound      = pkgerrors.New(pkgerrors.KindNotFound, "训练记录不存在")
	ErrActiveSessionExists  = pkgerrors.New(pkgerrors.KindConflict, "该学员已有进行中的训练")
	ErrCheckInBusy          = pkgerrors.New(pkgerrors.KindConflict, "该学员的签到请求正在处理中")
	ErrSessionNotInProgress = pkgerrors.New(pkgerrors.KindInvalidState, "训练记录不在进行中")
	ErrSessionNotReviewable = pkgerrors.New(pkgerrors.KindInvalidState, "仅已签退的训练记录可审核")
	ErrUserInactive         = pkgerrors.New(pkgerrors.KindInvalidState, "用户状态不可用")
	ErrAssignmentNotOwned   = pkgerrors.New(pkgerrors.KindInvalidState, "培训分配不属于该学员")
	ErrAssignmentNotActive  = pkgerrors.New(pkgerrors.KindInvalidState, "培训分配不在进行中")
	ErrAssignmentExpired    = pkgerrors.New(pkgerrors.KindInvalidState, "培训分配已过期")
	ErrCenterNotPermitted   = pkgerrors.New(pkgerrors.KindInvalidState, "该分配无权在此中心训练")
	ErrMachineNotAtCenter   = pkgerrors.New(pkgerrors.KindInvalidState, "设备不属于该培训中心")
	ErrMachineUnavailable   = pkgerrors.New(pkgerrors.KindInvalidState, "设备当前不可用")
)

// SessionService 签到签退业务接口
type SessionService interface {
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.SessionResponse, error)
	CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
	List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, int64, error)
	// Active 学员当前进行中的训练，无则返回 nil
	Active(ctx context.Context, userID string) (*dto.SessionResponse, error)
	Review(ctx context.Context, id string, req *dto.ReviewSessionRequest, reviewerID string) (*dto.SessionResponse, error)
}

type sessionService struct {
	repo    *repository.Repository
	cfg     *config.TrainingConfig
	locker  Locker
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(
	repo *repository.Repository,
	cfg *config.TrainingConfig,
	locker Locker,
	m *metrics.Metrics,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		repo:    repo,
		cfg:     cfg,
		locker:  locker,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── CheckIn ──────────────────────

func (s *sessionService) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.SessionResponse, error) {
	release, err := s.lockUser(ctx, req.UserID)
	if err != nil {
		s.metrics.SessionEvent("check_in", "busy")
		return nil, err
	}
	defer release()

	now := s.now()
	var session *model.TrainingSession
	var overdue *model.UserTrainingAssignment

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 学员
		user, err := tx.User.GetByID(ctx, req.UserID)
		if err != nil {
			return notFoundOr(err, ErrUserNotFound)
		}
		if user.Status != model.UserStatusActive {
			return ErrUserInactive
		}

		// 2. 进行中的训练
		if _, err := tx.Session.GetActiveByUser(ctx, req.UserID); err == nil {
			return ErrActiveSessionExists
		} else if err = notFoundOr(err, nil); err != nil {
			return err
		}

		// 3. 培训分配
		a, err := tx.Assignment.GetByID(ctx, req.AssignmentID)
		if err != nil {
			return notFoundOr(err, ErrAssignmentNotFound)
		}
		if a.UserID != req.UserID {
			return ErrAssignmentNotOwned
		}
		if training.IsOverdue(a, now) {
			overdue = a
			return ErrAssignmentExpired
		}
		switch a.Status {
		case model.AssignmentStatusActive:
		case model.AssignmentStatusExpired:
			return ErrAssignmentExpired
		default:
			return ErrAssignmentNotActive
		}

		// 4. 培训中心与授权
		if _, err := tx.Center.GetByID(ctx, req.CenterID); err != nil {
			return notFoundOr(err, ErrCenterNotFound)
		}
		if !centerPermitted(a, req.CenterID) {
			return ErrCenterNotPermitted
		}

		// 5. 设备
		machine, err := tx.Machine.GetByID(ctx, req.MachineID)
		if err != nil {
			return notFoundOr(err, ErrMachineNotFound)
		}
		if machine.CenterID != req.CenterID {
			return ErrMachineNotAtCenter
		}
		if !machine.AcceptsSessions() {
			return ErrMachineUnavailable
		}

		// 6. 写入，部分唯一索引兜底并发签到
		session = training.NewSession(req.UserID, req.AssignmentID, req.CenterID, req.MachineID, req.Notes, now)
		if err := tx.Session.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrActiveSessionExists
			}
			return pkgerrors.Dependency(err)
		}
		session.Machine = machine
		return nil
	})

	if overdue != nil {
		s.expireAssignment(ctx, overdue)
	}
	if err != nil {
		s.logFailure("签到失败", err, zap.String("user_id", req.UserID), zap.String("assignment_id", req.AssignmentID))
		s.metrics.SessionEvent("check_in", pkgerrors.KindOf(err).String())
		return nil, err
	}

	s.metrics.SessionEvent("check_in", "ok")
	s.logger.Info("学员签到",
		zap.String("session_id", session.SessionID),
		zap.String("user_id", session.UserID),
		zap.String("machine_id", session.MachineID),
	)
	resp := toSessionResponse(session)
	return &resp, nil
}

// lockUser 同一学员的签到请求串行化；Redis 故障时降级为仅依赖数据库约束
func (s *sessionService) lockUser(ctx context.Context, userID string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := "checkin:" + userID
	token, ok, err := s.locker.AcquireLock(ctx, key, s.cfg.CheckInLockTTL)
	if err != nil {
		s.logger.Warn("获取签到锁失败，降级为数据库约束", zap.String("user_id", userID), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrCheckInBusy
	}
	return func() {
		if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("释放签到锁失败", zap.String("user_id", userID), zap.Error(err))
		}
	}, nil
}

// expireAssignment 签到时发现已过期的分配，独立于签到事务提交状态迁移
func (s *sessionService) expireAssignment(ctx context.Context, a *model.UserTrainingAssignment) {
	from := a.Status
	if err := training.Transition(a, model.AssignmentStatusExpired, s.now()); err != nil {
		return
	}
	ok, err := s.repo.Assignment.UpdateStatus(ctx, a.AssignmentID, from, a.Status, nil)
	if err != nil {
		s.logger.Error("标记分配过期失败", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
		return
	}
	if ok {
		s.metrics.AssignmentTransition(model.AssignmentStatusExpired)
		s.logger.Info("培训分配已过期", zap.String("assignment_id", a.AssignmentID))
	}
}

func centerPermitted(a *model.UserTrainingAssignment, centerID string) bool {
	if len(a.CenterAccess) == 0 {
		return true
	}
	for _, access := range a.CenterAccess {
		if access.CenterID == centerID {
			return true
		}
	}
	return false
}

// ────────────────────── CheckOut ──────────────────────

func (s *sessionService) CheckOut(ctx context.Context, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	now := s.now()
	var session *model.TrainingSession
	var summary training.ProgressSummary
	var completed bool

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		session, err = tx.Session.GetForUpdate(ctx, req.SessionID)
		if err != nil {
			return notFoundOr(err, ErrSessionNotFound)
		}

		skew, err := training.CloseSession(session, now, req.Notes)
		if err != nil {
			return ErrSessionNotInProgress
		}
		if skew {
			s.logger.Warn("签退时间早于签到时间，时长按 0 计",
				zap.String("session_id", session.SessionID),
				zap.Time("check_in", session.CheckInTime),
				zap.Time("check_out", now),
			)
		}

		if err := tx.Session.Close(ctx, session); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSessionNotInProgress
			}
			return pkgerrors.Dependency(err)
		}

		// 同一事务内重新汇总进度并判定完成
		a, err := tx.Assignment.GetByID(ctx, session.AssignmentID)
		if err != nil {
			return notFoundOr(err, ErrAssignmentNotFound)
		}
		sessions, err := tx.Session.ListByAssignment(ctx, a.AssignmentID)
		if err != nil {
			return pkgerrors.Dependency(err)
		}
		summary = training.ComputeProgress(a.AssignmentID, requiredHours(a), sessions, s.cfg.ClampProgress)

		if training.ShouldComplete(a, summary) {
			from := a.Status
			if err := training.Transition(a, model.AssignmentStatusCompleted, now); err != nil {
				return ErrAssignmentNotActive
			}
			ok, err := tx.Assignment.UpdateStatus(ctx, a.AssignmentID, from, a.Status, a.CompletedAt)
			if err != nil {
				return pkgerrors.Dependency(err)
			}
			completed = ok
		}
		return nil
	})
	if err != nil {
		s.logFailure("签退失败", err, zap.String("session_id", req.SessionID))
		s.metrics.SessionEvent("check_out", pkgerrors.KindOf(err).String())
		return nil, err
	}

	s.metrics.SessionEvent("check_out", "ok")
	s.metrics.ObserveSessionHours(session.HoursCompleted)
	s.logger.Info("学员签退",
		zap.String("session_id", session.SessionID),
		zap.Float64("hours", session.HoursCompleted),
		zap.Float64("progress", summary.ProgressPercentage),
	)
	if completed {
		s.metrics.AssignmentTransition(model.AssignmentStatusCompleted)
		s.logger.Info("培训分配已完成", zap.String("assignment_id", session.AssignmentID))
	}

	return &dto.CheckOutResponse{
		Session:             toSessionResponse(session),
		CourseProgress:      summary,
		AssignmentCompleted: completed,
	}, nil
}

func requiredHours(a *model.UserTrainingAssignment) float64 {
	if a.Module == nil {
		return 0
	}
	return a.Module.TotalHoursRequired
}

// ────────────────────── Query ──────────────────────

func (s *sessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSessionNotFound)
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, int64, error) {
	list, total, err := s.repo.Session.List(ctx, repository.SessionFilter{
		UserID:       req.UserID,
		AssignmentID: req.AssignmentID,
		CenterID:     req.CenterID,
		Status:       req.Status,
		Page:         toPage(req.PaginationRequest),
	})
	if err != nil {
		s.logger.Error("列出训练记录失败", zap.Error(err))
		return nil, 0, pkgerrors.Dependency(err)
	}
	return toSessionResponses(list), total, nil
}

func (s *sessionService) Active(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetActiveByUser(ctx, userID)
	if err != nil {
		if err = notFoundOr(err, nil); err != nil {
			s.logger.Error("查询进行中训练失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		return nil, nil
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

// ────────────────────── Review ──────────────────────

func (s *sessionService) Review(ctx context.Context, id string, req *dto.ReviewSessionRequest, reviewerID string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrSessionNotFound)
	}
	if session.Status != model.SessionStatusCompleted {
		return nil, ErrSessionNotReviewable
	}

	status := model.SessionStatusApproved
	if req.Action == "reject" {
		status = model.SessionStatusRejected
	}
	now := s.now()

	if err := s.repo.Session.Review(ctx, id, status, reviewerID, now, req.Rating); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrSessionNotReviewable
		}
		s.logger.Error("审核训练记录失败", zap.String("session_id", id), zap.Error(err))
		return nil, pkgerrors.Dependency(err)
	}

	session.Status = status
	session.ApprovedBy = &reviewerID
	session.ApprovedAt = &now
	if req.Rating != nil {
		session.Rating = req.Rating
	}
	s.metrics.SessionEvent("review", status)

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if pkgerrors.KindOf(err) == pkgerrors.KindDependency {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Debug(msg, fields...)
}
